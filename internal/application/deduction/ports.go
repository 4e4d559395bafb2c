package deduction

import (
	"context"

	"github.com/tu-usuario/pos-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la mutación de stock y el
// registro de auditoría se confirmen o reviertan como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		recordRepo repository.DeductionRecordRepository,
	) error) error
}
