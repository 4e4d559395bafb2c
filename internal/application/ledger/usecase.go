// Package ledger expone consultas de solo lectura sobre el libro de
// auditoría de descuentos, para reportes y conciliación.
package ledger

import (
	"context"
	"time"

	"github.com/tu-usuario/pos-inventory/internal/domain"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
	"github.com/tu-usuario/pos-inventory/internal/domain/repository"
)

// QueryUseCase consultas del libro de auditoría. Nunca muta ni borra.
type QueryUseCase struct {
	recordRepo repository.DeductionRecordRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(recordRepo repository.DeductionRecordRepository) *QueryUseCase {
	return &QueryUseCase{recordRepo: recordRepo}
}

// ListBySale devuelve todos los registros de una venta.
func (uc *QueryUseCase) ListBySale(_ context.Context, saleID string) ([]*entity.DeductionRecord, error) {
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.recordRepo.ListBySale(saleID)
}

// ListByItem devuelve los registros de un ítem de inventario, paginados.
func (uc *QueryUseCase) ListByItem(_ context.Context, itemID string, limit, offset int) ([]*entity.DeductionRecord, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.recordRepo.ListByItem(itemID, limit, offset)
}

// ListByStore devuelve el feed de una tienda en un rango de fechas, paginado.
func (uc *QueryUseCase) ListByStore(_ context.Context, storeID string, from, to *time.Time, limit, offset int) ([]*entity.DeductionRecord, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.recordRepo.ListByStore(storeID, from, to, limit, offset)
}
