package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los casos de uso devuelven siempre uno de estos tipos (envuelto con %w si aporta contexto);
// el adaptador HTTP decide el código de respuesta.
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidState     = errors.New("operación no permitida en el estado actual")
	ErrValidation       = errors.New("entrada inválida")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrInvalidOperation = errors.New("operación inválida")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
)

// ErrInvalidInput se mantiene como alias de ErrValidation.
var ErrInvalidInput = ErrValidation

// StockError indica que un movimiento dejaría el stock de un repuesto en negativo.
// errors.Is(err, ErrInvalidOperation) es verdadero.
type StockError struct {
	PartID     string
	PartNumber string
	OnHand     int
	Delta      int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el repuesto %s (%s): existencia %d, movimiento %d",
		e.PartNumber, e.PartID, e.OnHand, e.Delta)
}

// Is permite comparar con ErrInvalidOperation.
func (e *StockError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// Validationf construye un error de validación con detalle.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InvalidStatef construye un error de estado con detalle.
func InvalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
