package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/pixel-relayer/domain"
)

// IsValidHash32 reports whether s is a hex string of at most 32 bytes
func IsValidHash32(s string) bool {
	_, err := domain.HexToHash32(s)
	return err == nil
}

// New returns a validate instance with the relayer tags registered
func New() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("hash32", func(fl validator.FieldLevel) bool {
		return IsValidHash32(fl.Field().String())
	})
	return v
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
