package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/migrations"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/app/repositories"
	"github.com/yigit/syllabus/internal/db"
	"github.com/yigit/syllabus/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

type testEnv struct {
	db    *db.Database
	repos *repositories.Repositories
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database, err := db.NewSQLiteDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(database.Close)

	if err := migrations.NewMigrator(database, zerolog.Nop()).Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &testEnv{db: database, repos: repositories.NewRepositories(database)}
}

// newOwner stores a user and returns it as a logged in owner with an empty course
func (e *testEnv) newOwner(t *testing.T, username string) *models.Owner {
	t.Helper()
	user := &models.User{Username: username, Password: "hash"}
	if _, err := e.repos.UserRepository.Create(context.Background(), e.db.DB, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	owner := user.Owner()
	owner.Login()
	return owner
}

// reload resolves a fresh owner the way each request does
func (e *testEnv) reload(t *testing.T, owner *models.Owner) *models.Owner {
	t.Helper()
	fresh := models.NewOwner(owner.ID(), owner.Username(), owner.PasswordHash())
	if _, err := e.repos.CourseRepository.HydrateLatest(context.Background(), e.db.DB, fresh); err != nil {
		t.Fatalf("HydrateLatest: %v", err)
	}
	return fresh
}
