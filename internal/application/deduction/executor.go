package deduction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-inventory/internal/domain"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
	"github.com/tu-usuario/pos-inventory/internal/domain/repository"
)

// DeductionRequest es un descuento individual: un ítem de inventario, una
// cantidad, para una venta y un actor.
type DeductionRequest struct {
	InventoryItemID string
	ItemName        string
	Quantity        decimal.Decimal
	SaleID          string
	StoreID         string
	ActorID         string
}

// DeductionSummary documenta un descuento aplicado.
type DeductionSummary struct {
	InventoryItemID  string
	ItemName         string
	QuantityDeducted decimal.Decimal
	PreviousTotal    decimal.Decimal
	NewTotal         decimal.Decimal
}

// DeductionExecutor aplica la mutación de stock y escribe la entrada de
// auditoría, un ingrediente a la vez. Cada descuento corre en su propia
// transacción con bloqueo de fila (SELECT FOR UPDATE): dos ventas
// concurrentes sobre el mismo ítem se serializan y la suma de descuentos
// exitosos nunca excede el total inicial del ítem.
type DeductionExecutor struct {
	txRunner TxRunner
}

// NewDeductionExecutor construye el ejecutor.
func NewDeductionExecutor(txRunner TxRunner) *DeductionExecutor {
	return &DeductionExecutor{txRunner: txRunner}
}

// Deduct ejecuta un descuento. Re-verifica la suficiencia en el punto de
// mutación (no confía en la validación previa: pasó tiempo desde entonces).
// La mutación de stock y el append de auditoría son una sola unidad lógica:
// si la auditoría no se puede persistir, el stock se revierte con la tx.
func (e *DeductionExecutor) Deduct(ctx context.Context, req DeductionRequest) (*DeductionSummary, error) {
	if !req.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	var summary *DeductionSummary

	err := e.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		recordRepo repository.DeductionRecordRepository,
	) error {
		item, err := invRepo.GetForUpdate(req.InventoryItemID)
		if err != nil {
			return fmt.Errorf("bloquear ítem %s: %w", req.InventoryItemID, err)
		}
		if item == nil {
			return domain.NewDeductionError(domain.ErrNoInventoryMapping, req.ItemName)
		}

		previous := item.Total()
		if previous.LessThan(req.Quantity) {
			return domain.NewShortfallError(item.Name, req.Quantity, previous)
		}

		newTotal := previous.Sub(req.Quantity)
		item.SetTotal(newTotal)
		item.UpdatedAt = time.Now()
		if err := invRepo.UpdateStock(item); err != nil {
			return fmt.Errorf("actualizar stock de %s: %w", item.Name, err)
		}

		record := &entity.DeductionRecord{
			ID:               uuid.New().String(),
			InventoryItemID:  item.ID,
			StoreID:          item.StoreID,
			SaleID:           req.SaleID,
			ActorID:          req.ActorID,
			ItemName:         item.Name,
			QuantityDeducted: req.Quantity,
			PreviousTotal:    previous,
			NewTotal:         newTotal,
			CreatedAt:        time.Now(),
		}
		if err := recordRepo.Create(record); err != nil {
			// Una mutación sin auditoría nunca es aceptable: el rollback de la
			// tx revierte también el stock.
			return fmt.Errorf("%w: %v", domain.ErrAuditWrite, err)
		}

		summary = &DeductionSummary{
			InventoryItemID:  item.ID,
			ItemName:         item.Name,
			QuantityDeducted: req.Quantity,
			PreviousTotal:    previous,
			NewTotal:         newTotal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
