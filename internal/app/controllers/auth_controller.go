// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/syllabus/internal/app/models"
	"github.com/yigit/syllabus/internal/app/models/dto"
	"github.com/yigit/syllabus/internal/app/services"
	"github.com/yigit/syllabus/internal/middleware"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	cookie      middleware.SessionCookie
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, cookie middleware.SessionCookie, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// requireOwner returns the owner resolved by the auth middleware, or writes a 401
func requireOwner(ctx *gin.Context) (*models.Owner, bool) {
	owner, ok := middleware.OwnerFrom(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrNotLoggedIn)
		return nil, false
	}
	return owner, true
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a new account. Username must be unique and the password at least 8 characters.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration form"
// @Success 201 {object} dto.APIResponse "User registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid form"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.Register(ctx.Request.Context(), req.Username, req.Password, req.PasswordConfirm); err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Registration rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewActionResponse(true, "User "+req.Username+" registered"))
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user and stores the session token in an HTTP-only cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{result=dto.SessionResponse} "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.logger.Info().Str("username", req.Username).Msg("Failed login attempt")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.cookie.Set(ctx, session.Token, session.ExpiresAt)
	c.logger.Info().Str("username", req.Username).Msg("User logged in")
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, dto.SessionResponse{
		Username:  session.Owner.Username(),
		ExpiresAt: session.ExpiresAt,
	}))
}

// Logoff ends the current session
// @Summary Log off
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{result=bool} "Logged off; result reports whether a session was active"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /auth/logoff [get]
func (c *AuthController) Logoff(ctx *gin.Context) {
	owner, ok := requireOwner(ctx)
	if !ok {
		return
	}

	if claims, ok := middleware.ClaimsFrom(ctx); ok {
		if err := c.authService.Revoke(ctx.Request.Context(), claims); err != nil {
			c.logger.Warn().Err(err).Str("username", owner.Username()).Msg("Failed to revoke session")
		}
	}
	wasLoggedIn := c.authService.Logoff(owner)
	c.cookie.Clear(ctx)

	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, wasLoggedIn))
}

// Status reports whether the request carries a live session
// @Summary Session status
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{result=dto.StatusResponse}
// @Router /auth/status [get]
func (c *AuthController) Status(ctx *gin.Context) {
	status := dto.StatusResponse{}
	if owner, ok := middleware.OwnerFrom(ctx); ok {
		status.LoggedIn = owner.LoggedIn()
		status.Username = owner.Username()
	}
	ctx.JSON(http.StatusOK, dto.NewActionResponse(true, status))
}
