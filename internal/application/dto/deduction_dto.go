package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea de la venta a descontar.
type SaleLineRequest struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
}

// ProcessSaleRequest cuerpo de POST /api/sales/deductions. El actor sale del
// token, no del cuerpo.
type ProcessSaleRequest struct {
	SaleID  string            `json:"sale_id"`
	StoreID string            `json:"store_id"`
	Lines   []SaleLineRequest `json:"lines"`
}

// DeductionSummaryDTO un descuento aplicado, con el antes y el después.
type DeductionSummaryDTO struct {
	InventoryItemID  string          `json:"inventory_item_id"`
	ItemName         string          `json:"item_name"`
	QuantityDeducted decimal.Decimal `json:"quantity_deducted"`
	PreviousTotal    decimal.Decimal `json:"previous_total"`
	NewTotal         decimal.Decimal `json:"new_total"`
}

// ShortfallDTO un faltante detectado en la validación.
type ShortfallDTO struct {
	ItemName  string          `json:"item_name"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
}

// ProcessSaleResponse resultado de procesar una venta.
type ProcessSaleResponse struct {
	SaleID     string                `json:"sale_id"`
	State      string                `json:"state"`
	Succeeded  bool                  `json:"succeeded"`
	Deducted   []DeductionSummaryDTO `json:"deducted"`
	Shortfalls []ShortfallDTO        `json:"shortfalls,omitempty"`
	Errors     []string              `json:"errors,omitempty"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// DeductionRecordDTO una fila del libro de auditoría.
type DeductionRecordDTO struct {
	ID               string          `json:"id"`
	InventoryItemID  string          `json:"inventory_item_id"`
	StoreID          string          `json:"store_id"`
	SaleID           string          `json:"sale_id"`
	ActorID          string          `json:"actor_id"`
	ItemName         string          `json:"item_name"`
	QuantityDeducted decimal.Decimal `json:"quantity_deducted"`
	PreviousTotal    decimal.Decimal `json:"previous_total"`
	NewTotal         decimal.Decimal `json:"new_total"`
	CreatedAt        time.Time       `json:"created_at"`
}

// DeductionRecordPageDTO página de registros del libro de auditoría.
type DeductionRecordPageDTO struct {
	Records []DeductionRecordDTO `json:"records"`
	Page    PageResponse         `json:"page"`
}
