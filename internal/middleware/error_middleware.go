package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/timetable/internal/app/models/dto"
	"github.com/yigit/timetable/internal/pkg/apperrors"
	"github.com/yigit/timetable/internal/pkg/logger"
)

// --- Central Error Handling ---

// errorCode picks the response code for a classified error
func errorCode(err error, kind apperrors.Kind) dto.ErrorCode {
	switch kind {
	case apperrors.KindValidation:
		switch {
		case errors.Is(err, apperrors.ErrInvalidSlot), errors.Is(err, apperrors.ErrDuplicateSlot):
			return dto.ErrorCodeInvalidSlot
		case errors.Is(err, apperrors.ErrNoActiveTerm):
			return dto.ErrorCodeNoActiveTerm
		case errors.Is(err, apperrors.ErrBadRequest):
			return dto.ErrorCodeInvalidRequest
		}
		return dto.ErrorCodeValidationFailed
	case apperrors.KindConflict:
		switch {
		case errors.Is(err, apperrors.ErrScheduleConflict):
			return dto.ErrorCodeScheduleConflict
		case errors.Is(err, apperrors.ErrResourceAlreadyExists):
			return dto.ErrorCodeResourceAlreadyExists
		}
		return dto.ErrorCodeConflict
	case apperrors.KindNotFound:
		return dto.ErrorCodeResourceNotFound
	case apperrors.KindPermission:
		switch {
		case errors.Is(err, apperrors.ErrTokenExpired):
			return dto.ErrorCodeExpiredToken
		case errors.Is(err, apperrors.ErrTokenInvalid):
			return dto.ErrorCodeInvalidToken
		}
		return dto.ErrorCodeForbidden
	default:
		return dto.ErrorCodeInternalServer
	}
}

// StatusCode maps an error kind to its HTTP status
func StatusCode(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindPermission:
		if errors.Is(err, apperrors.ErrTokenExpired) || errors.Is(err, apperrors.ErrTokenInvalid) {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// HandleAPIError writes err as a failed envelope. Only the message of an
// internal error is exposed; its cause goes to the request log.
func HandleAPIError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := StatusCode(err)

	message := apperrors.Message(err)
	var ce *apperrors.CustomError
	if !errors.As(err, &ce) {
		message = "Internal server error"
	}

	detail := dto.NewErrorDetail(errorCode(err, kind), message)
	if details := apperrors.Details(err); len(details) > 0 {
		detail = detail.WithDetails(details)
	}

	if kind == apperrors.KindInternal {
		cause := err
		if ce != nil && ce.Cause() != nil {
			cause = ce.Cause()
		}
		logger.FromContext(c.Request.Context()).Error().
			Err(cause).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
		detail = detail.WithSeverity(dto.ErrorSeverityCritical)
	}

	c.AbortWithStatusJSON(status, dto.NewFailureResponse(detail))
}
