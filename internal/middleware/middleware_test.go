package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/app/models/dto"
	"github.com/yigit/syllabus/internal/app/services"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
	"github.com/yigit/syllabus/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeSessions accepts the token "good" for alice and "stale" for a token
// that needs refreshing
type fakeSessions struct {
	refreshed int
}

func (f *fakeSessions) ValidateSession(_ context.Context, token string) (*auth.Claims, error) {
	switch token {
	case "good", "stale":
		return &auth.Claims{UserID: 1, Username: "alice"}, nil
	case "expired":
		return nil, apperrors.ErrTokenExpired
	default:
		return nil, apperrors.ErrTokenInvalid
	}
}

func (f *fakeSessions) ResolveOwner(_ context.Context, username string) (*models.Owner, error) {
	owner := models.NewOwner(1, username, "")
	owner.Login()
	return owner, nil
}

func (f *fakeSessions) NeedsRefresh(claims *auth.Claims) bool {
	return claims.ExpiresAt == nil && f.refreshed == 0
}

func (f *fakeSessions) Refresh(owner *models.Owner) (*services.Session, error) {
	f.refreshed++
	return &services.Session{Token: "fresh", ExpiresAt: time.Now().Add(time.Hour), Owner: owner}, nil
}

func newAuthRouter(sessions SessionResolver) *gin.Engine {
	m := NewAuthMiddleware(sessions, SessionCookie{}, zerolog.Nop())
	router := gin.New()
	whoami := func(c *gin.Context) {
		owner, ok := OwnerFrom(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, owner.Username())
	}
	router.GET("/required", m.RequireOwner(), whoami)
	router.GET("/optional", m.OptionalOwner(), whoami)
	return router
}

func serve(router *gin.Engine, path string, prepare func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func withCookie(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
}

func TestRequireOwner(t *testing.T) {
	router := newAuthRouter(&fakeSessions{refreshed: 1})

	tests := []struct {
		name    string
		prepare func(*http.Request)
		status  int
		body    string
	}{
		{"no token", nil, http.StatusUnauthorized, ""},
		{"cookie", withCookie("good"), http.StatusOK, "alice"},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK, "alice"},
		{"invalid token", withCookie("forged"), http.StatusUnauthorized, ""},
		{"expired token", withCookie("expired"), http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, "/required", tt.prepare)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestExpiredTokenClearsCookie(t *testing.T) {
	rec := serve(newAuthRouter(&fakeSessions{}), "/required", withCookie("expired"))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookieName || cookies[0].MaxAge >= 0 {
		t.Fatalf("cookies = %+v, want a cleared session cookie", cookies)
	}
}

func TestOptionalOwner(t *testing.T) {
	router := newAuthRouter(&fakeSessions{refreshed: 1})
	if rec := serve(router, "/optional", nil); rec.Body.String() != "anonymous" {
		t.Errorf("without token body = %q", rec.Body.String())
	}
	if rec := serve(router, "/optional", withCookie("forged")); rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Errorf("invalid token: status %d body %q", rec.Code, rec.Body.String())
	}
	if rec := serve(router, "/optional", withCookie("good")); rec.Body.String() != "alice" {
		t.Errorf("valid token body = %q", rec.Body.String())
	}
}

func TestSessionNearExpiryIsRefreshed(t *testing.T) {
	sessions := &fakeSessions{}
	rec := serve(newAuthRouter(sessions), "/required", withCookie("stale"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if sessions.refreshed != 1 {
		t.Fatalf("refreshed %d times, want 1", sessions.refreshed)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "fresh" || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v, want refreshed HTTP-only session cookie", cookies)
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{apperrors.NewCustomError(apperrors.ErrUsernameTaken, "Username bob is already taken"), http.StatusConflict, dto.ErrorCodeUsernameTaken, "Username bob is already taken"},
		{apperrors.NewCustomError(apperrors.ErrNoCourseVersion, "Error: Could not add clo as course could not be found"), http.StatusNotFound, dto.ErrorCodeNoCourseVersion, "Error: Could not add clo as course could not be found"},
		{fmt.Errorf("remove: %w", apperrors.ErrPositionOutOfRange), http.StatusBadRequest, dto.ErrorCodePositionOutOfRange, "Position out of range"},
		{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"},
		{apperrors.NewCustomError(apperrors.ErrEvaluatorUnavailable, "try later"), http.StatusServiceUnavailable, dto.ErrorCodeExternalServiceError, "try later"},
		{errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
		{fmt.Errorf("query courses: %w", sql.ErrConnDone), http.StatusInternalServerError, dto.ErrorCodeDatabaseError, "Database error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			router := gin.New()
			router.GET("/", func(c *gin.Context) { HandleAPIError(c, tt.err) })
			rec := serve(router, "/", nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body dto.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success || body.Error == nil || body.Error.Code != tt.code || body.Error.Message != tt.message {
				t.Errorf("body = %+v", body.Error)
			}
		})
	}
}

func TestHandleAPIErrorSeverity(t *testing.T) {
	tests := []struct {
		err  error
		want dto.ErrorSeverity
	}{
		{apperrors.ErrVersionNotFound, dto.ErrorSeverityWarning},
		{apperrors.ErrEvaluatorUnavailable, dto.ErrorSeverityError},
		{fmt.Errorf("commit: %w", sql.ErrTxDone), dto.ErrorSeverityCritical},
	}
	for _, tt := range tests {
		router := gin.New()
		router.GET("/", func(c *gin.Context) { HandleAPIError(c, tt.err) })
		var body dto.ErrorResponse
		if err := json.Unmarshal(serve(router, "/", nil).Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error == nil || body.Error.Severity != tt.want {
			t.Errorf("%v: severity = %+v, want %s", tt.err, body.Error, tt.want)
		}
	}
}

func TestBindJSONReportsFieldErrors(t *testing.T) {
	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req dto.AssessmentRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"Final"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Error struct {
			Details []dto.ErrorDetail `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Error.Details) != 1 || body.Error.Details[0].Field != "Weight" {
		t.Errorf("details = %+v", body.Error.Details)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.OPTIONS("/api/v1/course", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/course", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("allow-credentials = %q", got)
	}
}
