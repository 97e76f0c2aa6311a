package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/logger"
)

// StatusClientClosedRequest is answered when the caller went away mid-request
const StatusClientClosedRequest = 499

// ErrorStatus maps an error onto an HTTP status and error code
func ErrorStatus(err error) (int, dto.ErrorCode) {
	var remote *apperrors.RemoteError
	if errors.As(err, &remote) {
		code := dto.ErrorCodeExternalServiceError
		switch {
		case errors.Is(err, apperrors.ErrResourceNotFound):
			code = dto.ErrorCodeResourceNotFound
		case errors.Is(err, apperrors.ErrValidationFailed):
			code = dto.ErrorCodeValidationFailed
		case errors.Is(err, apperrors.ErrConflict):
			code = dto.ErrorCodeConflict
		case errors.Is(err, apperrors.ErrTokenInvalid):
			code = dto.ErrorCodeUnauthorized
		case errors.Is(err, apperrors.ErrPermissionDenied):
			code = dto.ErrorCodeForbidden
		}
		if remote.StatusCode >= 400 && remote.StatusCode < 500 {
			return remote.StatusCode, code
		}
		if remote.StatusCode >= 200 && remote.StatusCode < 300 {
			// success:false inside a 2xx reply is a refusal, not an outage
			return http.StatusBadRequest, dto.ErrorCodeBadRequest
		}
		return http.StatusBadGateway, code
	}

	switch {
	case errors.Is(err, apperrors.ErrRequestCancelled):
		return StatusClientClosedRequest, dto.ErrorCodeRequestCancelled
	case errors.Is(err, apperrors.ErrNetwork):
		return http.StatusServiceUnavailable, dto.ErrorCodeBackendUnavailable
	case errors.Is(err, apperrors.ErrMalformedResponse):
		return http.StatusBadGateway, dto.ErrorCodeExternalServiceError
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrUnknownCollection):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenNotFound, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken
	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrResourceAlreadyExists, apperrors.ErrDuplicateOfficeHourDay):
		return http.StatusConflict, dto.ErrorCodeConflict
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrSelfPrerequisite):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeBadRequest
	}
	return http.StatusInternalServerError, dto.ErrorCodeInternalServer
}

// HandleAPIError writes err as an error envelope. Backend messages are
// passed through verbatim.
func HandleAPIError(c *gin.Context, err error) {
	status, code := ErrorStatus(err)

	message := apperrors.Message(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		message = "Internal server error"
	}

	errorDetail := dto.NewErrorDetail(code, message)
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if field, ok := custom.Details["field"].(string); ok {
			errorDetail = errorDetail.WithField(field)
		}
		if custom.Code != "" {
			errorDetail = errorDetail.WithDetails(custom.Code)
		}
	}
	if status >= 500 {
		errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityCritical)
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(errorDetail))
}
