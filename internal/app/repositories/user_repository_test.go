package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewUserRepository(database)

	user := &models.User{Username: "alice", Password: "hash"}
	id, err := repo.Create(ctx, database.DB, user)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == 0 || user.ID != id {
		t.Fatalf("Create id = %d, user.ID = %d", id, user.ID)
	}

	got, err := repo.GetByUsername(ctx, database.DB, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != id || got.Password != "hash" {
		t.Errorf("GetByUsername = %+v", got)
	}

	exists, err := repo.UsernameExists(ctx, database.DB, "alice")
	if err != nil || !exists {
		t.Errorf("UsernameExists = %v, %v", exists, err)
	}
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewUserRepository(database)

	if _, err := repo.Create(ctx, database.DB, &models.User{Username: "alice", Password: "x"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := repo.Create(ctx, database.DB, &models.User{Username: "alice", Password: "y"})
	if !errors.Is(err, apperrors.ErrUsernameTaken) {
		t.Fatalf("Create duplicate error = %v, want ErrUsernameTaken", err)
	}
	if got := apperrors.Message(err, ""); got != "Username alice is already taken" {
		t.Errorf("message = %q", got)
	}
}

func TestUserRepositoryUnknownUser(t *testing.T) {
	database := newTestDB(t)
	_, err := NewUserRepository(database).GetByUsername(context.Background(), database.DB, "ghost")
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("GetByUsername error = %v, want ErrUserNotFound", err)
	}
}
