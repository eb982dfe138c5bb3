package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Validate instancia global del validador.
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("tx_type", validateTransactionType)
	_ = Validate.RegisterValidation("nonzero", validateNonZero)
}

// FieldError detalle de un campo inválido.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError envuelve los errores del validador; errors.Is(err, domain.ErrValidation) es verdadero.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s(%s)", f.Field, f.Rule))
	}
	return "validación fallida: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == domain.ErrValidation
}

// ValidateStruct valida un struct con tags `validate` y devuelve *ValidationError si falla.
func ValidateStruct(s any) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
		for _, fe := range verrs {
			out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return out
	}
	return err
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return entity.IsValidTransactionType(fl.Field().String())
}

func validateNonZero(fl validator.FieldLevel) bool {
	return fl.Field().Int() != 0
}
