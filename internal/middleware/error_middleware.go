package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/syllabus/internal/app/models/dto"
	"github.com/yigit/syllabus/internal/pkg/apperrors"
	"github.com/yigit/syllabus/internal/pkg/dberrors"
	"github.com/yigit/syllabus/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order, so wrapped sentinels come before the
// generic ones they may also match
var errorMappings = []errorMapping{
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Authentication required"},
	{apperrors.ErrNotLoggedIn, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Not logged in"},
	{apperrors.ErrUserNotFound, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "User not found"},
	{apperrors.ErrUsernameTaken, http.StatusConflict, dto.ErrorCodeUsernameTaken, "Username already taken"},
	{apperrors.ErrInvalidPassword, http.StatusBadRequest, dto.ErrorCodeInvalidPassword, "Invalid password"},
	{apperrors.ErrPasswordsDiffer, http.StatusBadRequest, dto.ErrorCodePasswordsDiffer, "Passwords don't match"},
	{apperrors.ErrNoCourseVersion, http.StatusNotFound, dto.ErrorCodeNoCourseVersion, "Course could not be found"},
	{apperrors.ErrVersionNotFound, http.StatusNotFound, dto.ErrorCodeVersionNotFound, "Course version not found"},
	{apperrors.ErrPositionOutOfRange, http.StatusBadRequest, dto.ErrorCodePositionOutOfRange, "Position out of range"},
	{apperrors.ErrMalformedCourse, http.StatusBadRequest, dto.ErrorCodeMalformedCourse, "Malformed course document"},
	{apperrors.ErrItemRejected, http.StatusBadRequest, dto.ErrorCodeItemRejected, "Item failed validation"},
	{apperrors.ErrUnsupportedFormat, http.StatusBadRequest, dto.ErrorCodeUnsupportedFormat, "Unsupported export format"},
	{apperrors.ErrEvaluatorUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeExternalServiceError, "Evaluation service unavailable"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request"},
}

// HandleAPIError writes the error response for err. Known sentinels map to
// their status and code, carrying the user message of a CustomError when
// present. Anything else is logged and reported as an internal error, with
// storage failures reported under their own code.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			detail := dto.NewErrorDetail(m.code, apperrors.Message(err, m.message))
			if m.status < http.StatusInternalServerError {
				detail.WithSeverity(dto.ErrorSeverityWarning)
			}
			c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
			return
		}
	}

	detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	if dberrors.IsStorageError(err) {
		detail = dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database error").
			WithSeverity(dto.ErrorSeverityCritical)
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("code", string(detail.Code)).
		Msg("Unhandled API error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
}
