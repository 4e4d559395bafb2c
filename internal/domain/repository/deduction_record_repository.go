package repository

import (
	"time"

	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
)

// DeductionRecordRepository es el libro de auditoría de mutaciones de stock.
// Append-only: la interfaz no expone update ni delete a propósito.
type DeductionRecordRepository interface {
	// Create persiste un registro. Debe invocarse dentro de la misma
	// transacción que la mutación de stock que documenta.
	Create(record *entity.DeductionRecord) error
	ListBySale(saleID string) ([]*entity.DeductionRecord, error)
	ListByItem(inventoryItemID string, limit, offset int) ([]*entity.DeductionRecord, error)
	ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.DeductionRecord, error)
}
