package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/app/repositories"
	"github.com/yigit/syllabus/internal/db"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
	"github.com/yigit/syllabus/internal/pkg/auth"
	"github.com/yigit/syllabus/internal/pkg/cache"
)

// MinPasswordLength is the shortest password Register accepts
const MinPasswordLength = 8

// Session is an issued login: the signed token, its expiry and the resolved owner
type Session struct {
	Token     string
	ExpiresAt time.Time
	Owner     *models.Owner
}

// AuthService handles authentication operations
type AuthService struct {
	db         *db.Database
	userRepo   *repositories.UserRepository
	courseRepo *repositories.CourseRepository
	jwtService *auth.JWTService
	revoked    cache.Store
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	database *db.Database,
	userRepo *repositories.UserRepository,
	courseRepo *repositories.CourseRepository,
	jwtService *auth.JWTService,
	revoked cache.Store,
	logger zerolog.Logger,
) *AuthService {
	if revoked == nil {
		revoked = cache.Nop{}
	}
	return &AuthService{
		db:         database,
		userRepo:   userRepo,
		courseRepo: courseRepo,
		jwtService: jwtService,
		revoked:    revoked,
		logger:     logger,
	}
}

// Register creates a new user after checking the registration form
func (s *AuthService) Register(ctx context.Context, username, password, passwordConfirm string) error {
	if username == "" {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Username must not be empty")
	}
	if len(password) < MinPasswordLength {
		return apperrors.NewCustomError(apperrors.ErrInvalidPassword,
			fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if password != passwordConfirm {
		return apperrors.NewCustomError(apperrors.ErrPasswordsDiffer, "Passwords don't match, please try again")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := s.userRepo.Create(ctx, tx, &models.User{Username: username, Password: hashed})
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			s.logger.Info().Str("username", username).Msg("Username is already taken")
		}
		return err
	}

	s.logger.Info().Str("username", username).Msg("New user registered")
	return nil
}

// Login verifies the credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	invalid := apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Username or password is incorrect")

	user, err := s.userRepo.GetByUsername(ctx, s.db.DB, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, invalid
		}
		return nil, err
	}

	owner := user.Owner()
	if !owner.Authenticate(password, auth.CheckPassword) {
		return nil, invalid
	}
	owner.Login()

	return s.issue(owner)
}

// Refresh issues a fresh token for an already resolved owner
func (s *AuthService) Refresh(owner *models.Owner) (*Session, error) {
	if !owner.LoggedIn() {
		return nil, apperrors.ErrNotLoggedIn
	}
	return s.issue(owner)
}

func (s *AuthService) issue(owner *models.Owner) (*Session, error) {
	token, expiresAt, err := s.jwtService.GenerateToken(owner)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, Owner: owner}, nil
}

// ResolveOwner loads the owner named by a validated token and hydrates its latest course.
// A valid token means a logged in session, so the returned owner is logged in.
func (s *AuthService) ResolveOwner(ctx context.Context, username string) (*models.Owner, error) {
	user, err := s.userRepo.GetByUsername(ctx, s.db.DB, username)
	if err != nil {
		return nil, err
	}

	owner := user.Owner()
	owner.Login()

	found, err := s.courseRepo.HydrateLatest(ctx, s.db.DB, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load course for %s: %w", username, err)
	}
	if found {
		s.logger.Debug().Str("username", username).Msg("Loaded latest course")
	} else {
		s.logger.Debug().Str("username", username).Msg("No course found")
	}
	return owner, nil
}

// Logoff ends the owner's session and reports whether it was active
func (s *AuthService) Logoff(owner *models.Owner) bool {
	return owner.Logoff()
}

// ValidateToken checks a session token and returns its claims
func (s *AuthService) ValidateToken(token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	return claims, nil
}

func revokedKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

// ValidateSession validates token and rejects tokens revoked by Revoke
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return claims, nil
	}
	_, revoked, err := s.revoked.Get(ctx, revokedKey(claims.ID))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to check token revocation")
		return claims, nil
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke marks the token behind claims as unusable until it expires
func (s *AuthService) Revoke(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Set(ctx, revokedKey(claims.ID), []byte("1"), ttl); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// NeedsRefresh reports whether claims are close enough to expiry to reissue
func (s *AuthService) NeedsRefresh(claims *auth.Claims) bool {
	return s.jwtService.NeedsRefresh(claims)
}
