package auth

import "errors"

var (
	ErrInvalidInput    = errors.New("auth: invalid input")
	ErrUnauthenticated = errors.New("auth: unauthenticated")
	ErrForbidden       = errors.New("auth: forbidden")

	// ErrPasswordMismatch is returned by Hasher.Verify when the password does
	// not match the stored hash. Distinct from ErrInvalidInput so callers can
	// tell a wrong password apart from a corrupted hash.
	ErrPasswordMismatch = errors.New("auth: password mismatch")

	// Token verification failure kinds. The HTTP layer collapses all three
	// into a 401; the distinction stays server-side for logs and metrics.
	ErrTokenMalformed = errors.New("auth: malformed token")
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrTokenSignature = errors.New("auth: invalid token signature")
)
