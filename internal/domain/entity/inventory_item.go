package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa una materia prima en el inventario de una tienda.
// La cantidad total en mano es WholeUnits + FractionalUnits; FractionalUnits
// se mantiene siempre en [0, 1) y WholeUnits absorbe cualquier acarreo entero.
type InventoryItem struct {
	ID              string
	StoreID         string
	Name            string
	Unit            string
	WholeUnits      int64
	FractionalUnits decimal.Decimal // siempre en [0, 1)
	IsActive        bool
	UpdatedAt       time.Time
}

// Total devuelve la cantidad total en mano (enteros + fracción).
func (i *InventoryItem) Total() decimal.Decimal {
	return decimal.NewFromInt(i.WholeUnits).Add(i.FractionalUnits)
}

// SetTotal fija la cantidad total renormalizando enteros y fracción:
// WholeUnits = floor(total), FractionalUnits = total − floor(total).
func (i *InventoryItem) SetTotal(total decimal.Decimal) {
	whole := total.Floor()
	i.WholeUnits = whole.IntPart()
	i.FractionalUnits = total.Sub(whole)
}
