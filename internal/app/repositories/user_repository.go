package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/db"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
	"github.com/yigit/syllabus/internal/pkg/dberrors"
	"github.com/yigit/syllabus/internal/pkg/logger"
)

const usersTable = "users"

// UserRepository handles user database operations
type UserRepository struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.Database) *UserRepository {
	return &UserRepository{
		db: database,
		sb: database.Builder(),
	}
}

// Create stores a new user and returns its id. A taken username yields
// apperrors.ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, q db.Querier, user *models.User) (int64, error) {
	query, args, err := r.sb.Insert(usersTable).
		Columns("username", "password_hash").
		Values(user.Username, user.Password).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert user query: %w", err)
	}

	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.NewCustomError(apperrors.ErrUsernameTaken,
				fmt.Sprintf("Username %s is already taken", user.Username))
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error creating user")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	user.ID = id
	return id, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, q db.Querier, username string) (*models.User, error) {
	query, args, err := r.sb.Select("id", "username", "password_hash", "created_at").
		From(usersTable).
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user := &models.User{}
	err = q.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// UsernameExists checks if a username is already registered
func (r *UserRepository) UsernameExists(ctx context.Context, q db.Querier, username string) (bool, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From(usersTable).
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build username exists query: %w", err)
	}

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return count > 0, nil
}
