package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryCreateAndFind(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	u := &User{ID: "u1", Email: "Alice@Example.com", PasswordHash: "hash", Role: "viewer"}
	if err := m.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}

	byID, err := m.FindByID(ctx, "u1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", byID.Email)
	}

	byEmail, err := m.FindByEmail(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail.ID != "u1" {
		t.Fatalf("unexpected user: %s", byEmail.ID)
	}
}

func TestMemoryDuplicateEmail(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.CreateUser(ctx, &User{ID: "u1", Email: "a@b.c"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	err := m.CreateUser(ctx, &User{ID: "u2", Email: "A@B.C"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestMemoryUpdate(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.CreateUser(ctx, &User{ID: "u1", Email: "a@b.c", Role: "viewer"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	role := "editor"
	updated, err := m.UpdateUser(ctx, "u1", UserUpdate{Role: &role})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Role != "editor" {
		t.Fatalf("expected role change, got %q", updated.Role)
	}

	if _, err := m.UpdateUser(ctx, "missing", UserUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.CreateUser(ctx, &User{ID: "u1", Email: "a@b.c"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := m.DeleteUser(ctx, "u1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := m.FindByEmail(ctx, "a@b.c"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := m.DeleteUser(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}
