package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/pkg/apperrors"
	"github.com/osahq/conduct/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. Services preserve
// sentinel chains through %w wrapping, so handlers pass errors through
// untouched and this is the single place status codes are decided.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrStudentNotFound,
		apperrors.ErrViolationNotFound,
		apperrors.ErrViolationTypeNotFound,
		apperrors.ErrAlertNotFound,
		apperrors.ErrApologyLetterNotFound,
		apperrors.ErrMessageNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err)

	case apperrors.Is(err, apperrors.ErrInvalidTransition,
		apperrors.ErrAlertClosed,
		apperrors.ErrApologyAlreadyReviewed):
		respondError(c, http.StatusConflict, dto.ErrorCodeInvalidTransition, err)

	case apperrors.Is(err, apperrors.ErrResourceAlreadyExists,
		apperrors.ErrConflict,
		apperrors.ErrEmailAlreadyExists,
		apperrors.ErrStudentIDAlreadyExists,
		apperrors.ErrViolationTypeCodeExists,
		apperrors.ErrAlertAlreadyOpen):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err)

	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrBadRequest,
		apperrors.ErrInvalidStudentID,
		apperrors.ErrInvalidSeverity,
		apperrors.ErrInvalidViolationStatus,
		apperrors.ErrViolationTypeInactive,
		apperrors.ErrNegativeCount):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err)

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.NewAPIError(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}

// respondError emits the standard error envelope. The root cause text is the
// client-facing message; wrapped context stays in the logs.
func respondError(c *gin.Context, status int, code dto.ErrorCode, err error) {
	c.JSON(status, dto.NewAPIError(dto.NewErrorDetail(code, clientMessage(err))))
}

// clientMessage strips the internal wrap chain off an error. Custom errors
// carry a message written for the caller; plain sentinels speak for
// themselves.
func clientMessage(err error) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		return custom.Error()
	}
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}
