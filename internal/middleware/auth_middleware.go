package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/app/services"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
	"github.com/yigit/syllabus/internal/pkg/auth"
)

const (
	// SessionCookieName is the HTTP-only cookie holding the session token
	SessionCookieName = "access_token"

	ownerKey  = "owner"
	claimsKey = "claims"
)

// SessionResolver turns a session token into a logged in owner
type SessionResolver interface {
	ValidateSession(ctx context.Context, token string) (*auth.Claims, error)
	ResolveOwner(ctx context.Context, username string) (*models.Owner, error)
	NeedsRefresh(claims *auth.Claims) bool
	Refresh(owner *models.Owner) (*services.Session, error)
}

// SessionCookie writes and clears the session cookie
type SessionCookie struct {
	Secure bool
}

// Set stores token in the session cookie until expiresAt
func (s SessionCookie) Set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", s.Secure, true)
}

// Clear expires the session cookie
func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", s.Secure, true)
}

// AuthMiddleware resolves the owner of each request from its session token
type AuthMiddleware struct {
	sessions SessionResolver
	cookie   SessionCookie
	logger   zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionResolver, cookie SessionCookie, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		cookie:   cookie,
		logger:   logger,
	}
}

// RequireOwner rejects requests without a valid session
func (m *AuthMiddleware) RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.authenticate(c); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// OptionalOwner resolves the owner when a valid session is present and lets
// the request through either way
func (m *AuthMiddleware) OptionalOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.authenticate(c); err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
			m.logger.Debug().Err(err).Msg("Ignoring invalid session on optional route")
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) error {
	token := extractToken(c)
	if token == "" {
		return apperrors.ErrTokenNotFound
	}

	ctx := c.Request.Context()
	claims, err := m.sessions.ValidateSession(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) || errors.Is(err, apperrors.ErrTokenRevoked) {
			m.cookie.Clear(c)
		}
		return err
	}

	owner, err := m.sessions.ResolveOwner(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			m.cookie.Clear(c)
		}
		return err
	}

	if m.sessions.NeedsRefresh(claims) {
		session, err := m.sessions.Refresh(owner)
		if err != nil {
			m.logger.Warn().Err(err).Str("username", owner.Username()).Msg("Failed to refresh session")
		} else {
			m.cookie.Set(c, session.Token, session.ExpiresAt)
		}
	}

	c.Set(ownerKey, owner)
	c.Set(claimsKey, claims)
	return nil
}

// extractToken reads the session cookie, falling back to a bearer header
func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		return token
	}
	token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return ""
	}
	return token
}

// OwnerFrom returns the owner resolved for this request
func OwnerFrom(c *gin.Context) (*models.Owner, bool) {
	value, exists := c.Get(ownerKey)
	if !exists {
		return nil, false
	}
	owner, ok := value.(*models.Owner)
	return owner, ok && owner != nil
}

// ClaimsFrom returns the session claims of this request
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok && claims != nil
}
