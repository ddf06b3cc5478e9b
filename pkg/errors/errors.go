package errors

import "fmt"

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrEmptyAuthHeader      = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader    = fmt.Errorf("неверный формат заголовка авторизации")
	ErrUnauthorized         = fmt.Errorf("неавторизован")
	ErrForbidden            = fmt.Errorf("доступ запрещён")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")

	// Домен: заказы и склад
	ErrUnknownMerchant        = fmt.Errorf("филиал с таким merchant id не найден")
	ErrInvalidStateTransition = fmt.Errorf("недопустимый переход статуса заказа")
	ErrInsufficientStock      = fmt.Errorf("недостаточно остатка на складе")
	ErrGatewayUnavailable     = fmt.Errorf("партнёрский API Grab недоступен")
	ErrInvalidSignature       = fmt.Errorf("неверная подпись вебхука")
)

// InvalidInputError — ошибка некорректных входных данных с человекочитаемым текстом.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func (e *InvalidInputError) Unwrap() error { return ErrBadRequest }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError несёт HTTP-статус вместе с исходной ошибкой.
// utils.ErrorResponse отдаёт его клиенту как есть.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: 400, Message: message, Err: ErrBadRequest}
}
