package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "pharma-pos/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
	Total   uint64      `json:"total,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.Total = total[0]
	}
	return ctx.JSON(code, response)
}

// statusForError сопоставляет доменные ошибки с HTTP-статусами.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrUnknownMerchant):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidStateTransition), errors.Is(err, apperrors.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrGatewayUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrInvalidSigningMethod):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrInvalidSignature):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := statusForError(err)
	message := err.Error()

	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = httpErr.Message
	}

	if code == http.StatusInternalServerError {
		// Внутренности не показываем клиенту, только в лог.
		if logger != nil {
			logger.Error("внутренняя ошибка", zap.Error(err))
		}
		message = "Внутренняя ошибка сервера"
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
