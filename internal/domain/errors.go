package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Taxonomía del motor de descuento de inventario.
	ErrNoRecipeFound         = errors.New("producto sin receta resoluble")
	ErrNoInventoryMapping    = errors.New("producto sin mapeo a inventario")
	ErrComboExpansion        = errors.New("expansión de combo fallida")
	ErrAuditWrite            = errors.New("escritura de auditoría fallida")
	ErrTimeout               = errors.New("tiempo de espera agotado")
	ErrAuthenticationMissing = errors.New("identidad del actor requerida")
)

// DeductionError envuelve un error sentinela con el contexto del ítem que
// falló durante la resolución o el descuento. errors.Is atraviesa el wrap.
type DeductionError struct {
	Kind      error // uno de los sentinelas de arriba
	ItemName  string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *DeductionError) Error() string {
	if e.Required.IsZero() && e.Available.IsZero() {
		return fmt.Sprintf("%s: %s", e.ItemName, e.Kind.Error())
	}
	return fmt.Sprintf("%s: %s (requerido %s, disponible %s)",
		e.ItemName, e.Kind.Error(), e.Required.String(), e.Available.String())
}

func (e *DeductionError) Unwrap() error { return e.Kind }

// NewDeductionError construye un error de descuento sin cantidades.
func NewDeductionError(kind error, itemName string) *DeductionError {
	return &DeductionError{Kind: kind, ItemName: itemName}
}

// NewShortfallError construye un error de stock insuficiente con cantidades.
func NewShortfallError(itemName string, required, available decimal.Decimal) *DeductionError {
	return &DeductionError{
		Kind:      ErrInsufficientStock,
		ItemName:  itemName,
		Required:  required,
		Available: available,
	}
}
