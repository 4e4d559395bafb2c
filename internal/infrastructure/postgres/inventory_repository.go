package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
	"github.com/tu-usuario/pos-inventory/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL
// (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, store_id, item, unit, stock_quantity, fractional_stock, is_active, updated_at`

func scanInventoryItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(&it.ID, &it.StoreID, &it.Name, &it.Unit,
		&it.WholeUnits, &it.FractionalUnits, &it.IsActive, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

// GetByID obtiene un ítem de inventario por id.
func (r *InventoryRepo) GetByID(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_stock WHERE id = $1`
	it, err := scanInventoryItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return it, nil
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE) para
// serializar descuentos concurrentes sobre el mismo ítem.
func (r *InventoryRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_stock WHERE id = $1 FOR UPDATE`
	it, err := scanInventoryItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get inventory item for update: %w", err)
	}
	return it, nil
}

// FindByExactName busca por nombre exacto dentro de la tienda.
func (r *InventoryRepo) FindByExactName(storeID, name string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory_stock WHERE store_id = $1 AND item = $2 AND is_active
		ORDER BY item, id LIMIT 1`
	it, err := scanInventoryItem(r.q.QueryRow(context.Background(), query, storeID, name))
	if err != nil {
		return nil, fmt.Errorf("find inventory by name: %w", err)
	}
	return it, nil
}

// FindByNameInsensitive busca por nombre exacto sin distinguir mayúsculas.
func (r *InventoryRepo) FindByNameInsensitive(storeID, name string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory_stock WHERE store_id = $1 AND lower(item) = lower($2) AND is_active
		ORDER BY item, id LIMIT 1`
	it, err := scanInventoryItem(r.q.QueryRow(context.Background(), query, storeID, name))
	if err != nil {
		return nil, fmt.Errorf("find inventory by name (ci): %w", err)
	}
	return it, nil
}

// FindByNameContains busca por contención de substring sin distinguir
// mayúsculas, con orden estable por nombre y luego id; primer match.
func (r *InventoryRepo) FindByNameContains(storeID, name string) (*entity.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory_stock WHERE store_id = $1 AND item ILIKE '%' || $2 || '%' AND is_active
		ORDER BY item, id LIMIT 1`
	it, err := scanInventoryItem(r.q.QueryRow(context.Background(), query, storeID, name))
	if err != nil {
		return nil, fmt.Errorf("find inventory by substring: %w", err)
	}
	return it, nil
}

// UpdateStock persiste enteros y fracción ya renormalizados por la entidad.
func (r *InventoryRepo) UpdateStock(item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_stock
		SET stock_quantity = $2, fractional_stock = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, item.ID, item.WholeUnits, item.FractionalUnits)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock: ítem %s no existe", item.ID)
	}
	return nil
}
