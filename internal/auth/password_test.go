package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	// MinCost keeps the test fast; production cost comes from config.
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	return h
}

func TestHashProducesDifferentSalts(t *testing.T) {
	h := newTestHasher(t)

	first, err := h.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := h.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected per-call salts, got identical hashes")
	}
	if err := h.Verify(first, "s3cret-password"); err != nil {
		t.Fatalf("Verify first hash: %v", err)
	}
	if err := h.Verify(second, "s3cret-password"); err != nil {
		t.Fatalf("Verify second hash: %v", err)
	}
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	err = h.Verify(hash, "battery-staple")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	h := newTestHasher(t)

	if _, err := h.Hash(""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	h := newTestHasher(t)

	cases := map[string]string{
		"empty":      "",
		"not bcrypt": "plainly-not-a-hash",
	}
	for name, hash := range cases {
		if err := h.Verify(hash, "whatever"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestNewHasherRejectsOutOfRangeCost(t *testing.T) {
	if _, err := NewHasher(bcrypt.MaxCost + 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
