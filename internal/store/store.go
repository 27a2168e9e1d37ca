// Package store persists account records. The auth core never touches it
// directly: handlers fetch the user, the core only computes and compares.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("store: user not found")
	ErrAlreadyExists = errors.New("store: user already exists")
)

// User is an account record. PasswordHash is the only credential material
// ever persisted; plaintext passwords exist transiently in handler memory.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserUpdate carries optional field changes; nil means leave unchanged.
type UserUpdate struct {
	Email        *string
	PasswordHash *string
	Role         *string
}

// Store describes persistence operations for account records.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}
