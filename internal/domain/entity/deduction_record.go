package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductionRecord es la unidad de registro del libro de auditoría: una fila
// por cada mutación de stock, con el antes y el después. Append-only: una vez
// escrita nunca se edita ni se borra.
type DeductionRecord struct {
	ID               string
	InventoryItemID  string
	StoreID          string
	SaleID           string
	ActorID          string
	ItemName         string
	QuantityDeducted decimal.Decimal
	PreviousTotal    decimal.Decimal
	NewTotal         decimal.Decimal
	CreatedAt        time.Time
}
