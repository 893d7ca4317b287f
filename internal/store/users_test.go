package store

import (
	"context"
	"errors"
	"testing"

	"github.com/matejv/posteljnina/internal/db"
	"github.com/matejv/posteljnina/internal/model"
)

func TestCreateUserDuplicateUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database, "ana", "hash", model.RoleCashier); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := CreateUser(ctx, database, "ana", "hash", model.RoleCashier)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestDeleteUserFreesUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "ana", "hash", model.RoleCashier)
	if err := DeleteUser(ctx, database, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	users, _ := ListUsers(ctx, database)
	if len(users) != 0 {
		t.Errorf("expected no active users, got %d", len(users))
	}

	// The partial unique index only covers active users.
	if _, err := CreateUser(ctx, database, "ana", "hash", model.RoleManager); err != nil {
		t.Errorf("expected username to be reusable after soft delete, got %v", err)
	}
}

func TestUpdateUserRole(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "ana", "hash", model.RoleCashier)
	if err := UpdateUserRole(ctx, database, user.ID, model.RoleManager); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}

	updated, _ := GetUser(ctx, database, user.ID)
	if updated.Role != model.RoleManager {
		t.Errorf("expected role manager, got %q", updated.Role)
	}

	if err := UpdateUserRole(ctx, database, 999, model.RoleManager); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
