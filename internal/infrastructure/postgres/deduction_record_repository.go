package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tu-usuario/pos-inventory/internal/domain"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
	"github.com/tu-usuario/pos-inventory/internal/domain/repository"
)

var _ repository.DeductionRecordRepository = (*DeductionRecordRepo)(nil)

const deductionRecordColumns = `id, inventory_item_id, store_id, sale_id, actor_id,
	item_name, quantity_deducted, previous_total, new_total, created_at`

// DeductionRecordRepo persiste el libro de auditoría en PostgreSQL.
// La tabla es append-only; este adaptador no implementa UPDATE ni DELETE.
type DeductionRecordRepo struct {
	q Querier
}

// NewDeductionRecordRepository construye el adaptador.
func NewDeductionRecordRepository(q Querier) *DeductionRecordRepo {
	return &DeductionRecordRepo{q: q}
}

// Create inserta el registro. Debe ejecutarse sobre el mismo Querier (tx) que
// la mutación de stock: si falla, el rollback revierte ambas escrituras.
func (r *DeductionRecordRepo) Create(record *entity.DeductionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO deduction_records (` + deductionRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.InventoryItemID, record.StoreID, record.SaleID,
		record.ActorID, record.ItemName, record.QuantityDeducted,
		record.PreviousTotal, record.NewTotal, record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("registro de auditoría duplicado: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("crear registro de auditoría: %w", err)
	}
	return nil
}

// isUniqueViolation detecta la violación de constraint único (23505); el
// único choque posible aquí es un id de registro repetido.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

// ListBySale devuelve todos los registros de una venta, más antiguos primero.
func (r *DeductionRecordRepo) ListBySale(saleID string) ([]*entity.DeductionRecord, error) {
	query := `
		SELECT ` + deductionRecordColumns + `
		FROM deduction_records WHERE sale_id = $1
		ORDER BY created_at, id`
	return r.queryRecords(query, saleID)
}

// ListByItem devuelve el historial de un artículo, más recientes primero.
func (r *DeductionRecordRepo) ListByItem(inventoryItemID string, limit, offset int) ([]*entity.DeductionRecord, error) {
	query := `
		SELECT ` + deductionRecordColumns + `
		FROM deduction_records WHERE inventory_item_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	return r.queryRecords(query, inventoryItemID, limit, offset)
}

// ListByStore devuelve el historial de una tienda con rango de fechas opcional,
// más recientes primero. from y to en nil significan "sin límite".
func (r *DeductionRecordRepo) ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.DeductionRecord, error) {
	query := `
		SELECT ` + deductionRecordColumns + `
		FROM deduction_records
		WHERE store_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	return r.queryRecords(query, storeID, from, to, limit, offset)
}

func (r *DeductionRecordRepo) queryRecords(query string, args ...any) ([]*entity.DeductionRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar registros de auditoría: %w", err)
	}
	defer rows.Close()

	var records []*entity.DeductionRecord
	for rows.Next() {
		var rec entity.DeductionRecord
		if err := rows.Scan(
			&rec.ID, &rec.InventoryItemID, &rec.StoreID, &rec.SaleID,
			&rec.ActorID, &rec.ItemName, &rec.QuantityDeducted,
			&rec.PreviousTotal, &rec.NewTotal, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan registro de auditoría: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
