package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/pkg/apperrors"
	"github.com/gpai/backend/internal/pkg/gpa"
)

// gpaErrorCodes maps GPA input error kinds to their response codes
var gpaErrorCodes = []struct {
	kind error
	code dto.ErrorCode
}{
	{gpa.ErrMissingField, dto.ErrorCodeMissingField},
	{gpa.ErrOutOfRange, dto.ErrorCodeOutOfRange},
	{gpa.ErrEmptyCourses, dto.ErrorCodeEmptyCourses},
	{gpa.ErrInvalidCreditUnit, dto.ErrorCodeInvalidCreditUnit},
	{gpa.ErrInvalidGrade, dto.ErrorCodeInvalidGrade},
}

// HandleAPIError writes the error envelope matching err. Errors carrying a
// client-facing message keep it; anything unrecognised becomes a 500.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)
	c.JSON(status, dto.NewErrorResponse(detail))
}

// ErrorDetailFor returns the HTTP status and error detail for err
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	var gerr *gpa.Error
	if errors.As(err, &gerr) {
		code := dto.ErrorCodeValidationFailed
		for _, m := range gpaErrorCodes {
			if errors.Is(gerr.Kind, m.kind) {
				code = m.code
				break
			}
		}
		detail := dto.NewErrorDetail(code, gerr.Error())
		if gerr.Field != "" {
			detail = detail.WithField(gerr.Field)
		}
		return http.StatusBadRequest, detail
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.MessageOf(err, "Validation failed"))
	case errors.Is(err, apperrors.ErrInvalidEmail):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidEmail, apperrors.MessageOf(err, "Invalid email format")).WithField("email")
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.MessageOf(err, "User not found"))
	case errors.Is(err, apperrors.ErrResultNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.MessageOf(err, "Result not found"))
	case errors.Is(err, apperrors.ErrSubscriptionNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.MessageOf(err, "Email not found or already unsubscribed"))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.MessageOf(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrAlreadySubscribed):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, apperrors.MessageOf(err, "Email is already subscribed to newsletter"))
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, apperrors.MessageOf(err, "Resource already exists"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, apperrors.MessageOf(err, "Permission denied"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, apperrors.MessageOf(err, "Invalid credentials"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Token revoked")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable, dto.NewErrorDetail(dto.ErrorCodeServiceUnavailable, apperrors.MessageOf(err, "Service unavailable"))
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
