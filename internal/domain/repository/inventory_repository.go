package repository

import "github.com/tu-usuario/pos-inventory/internal/domain/entity"

// InventoryRepository acceso al inventario por tienda. Las lecturas con lock
// (GetForUpdate) solo tienen sentido dentro de una transacción del TxRunner.
type InventoryRepository interface {
	GetByID(id string) (*entity.InventoryItem, error)
	// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE)
	// para serializar descuentos concurrentes sobre el mismo ítem.
	GetForUpdate(id string) (*entity.InventoryItem, error)
	// FindByExactName busca por nombre exacto dentro de la tienda.
	FindByExactName(storeID, name string) (*entity.InventoryItem, error)
	// FindByNameInsensitive busca por nombre exacto sin distinguir mayúsculas.
	FindByNameInsensitive(storeID, name string) (*entity.InventoryItem, error)
	// FindByNameContains busca por contención de substring (sin distinguir
	// mayúsculas), con orden estable por nombre y luego id; primer match.
	FindByNameContains(storeID, name string) (*entity.InventoryItem, error)
	// UpdateStock persiste enteros y fracción ya renormalizados.
	UpdateStock(item *entity.InventoryItem) error
}
