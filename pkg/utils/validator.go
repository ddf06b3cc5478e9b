package utils

import (
	"github.com/go-playground/validator/v10"

	apperrors "pharma-pos/pkg/errors"
)

// EchoValidator — адаптер go-playground/validator под интерфейс echo.Validator.
type EchoValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *EchoValidator {
	return &EchoValidator{validator: v}
}

func (ev *EchoValidator) Validate(i interface{}) error {
	if err := ev.validator.Struct(i); err != nil {
		return apperrors.NewInvalidInputError("ошибка валидации: %v", err)
	}
	return nil
}
