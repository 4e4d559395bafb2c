package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
	"github.com/tu-usuario/pos-inventory/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementación de CatalogRepository sobre PostgreSQL (solo
// lectura para el motor; el catálogo se administra fuera de este core).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// GetByID obtiene la entrada de catálogo por id dentro de la tienda, con sus
// componentes de combo si aplica.
func (r *CatalogRepo) GetByID(storeID, productID string) (*entity.CatalogEntry, error) {
	query := `
		SELECT id, store_id, product_name, COALESCE(recipe_id, ''), is_combo, is_available
		FROM product_catalog WHERE id = $1 AND store_id = $2 AND is_available`
	entry, err := r.scanEntry(r.q.QueryRow(context.Background(), query, productID, storeID))
	if err != nil {
		return nil, fmt.Errorf("get catalog entry: %w", err)
	}
	return entry, nil
}

// GetByProductName obtiene la entrada por nombre exacto dentro de la tienda.
func (r *CatalogRepo) GetByProductName(storeID, productName string) (*entity.CatalogEntry, error) {
	query := `
		SELECT id, store_id, product_name, COALESCE(recipe_id, ''), is_combo, is_available
		FROM product_catalog WHERE store_id = $1 AND product_name = $2 AND is_available
		ORDER BY id LIMIT 1`
	entry, err := r.scanEntry(r.q.QueryRow(context.Background(), query, storeID, productName))
	if err != nil {
		return nil, fmt.Errorf("get catalog entry by name: %w", err)
	}
	return entry, nil
}

func (r *CatalogRepo) scanEntry(row pgx.Row) (*entity.CatalogEntry, error) {
	var e entity.CatalogEntry
	err := row.Scan(&e.ID, &e.StoreID, &e.ProductName, &e.RecipeID, &e.IsCombo, &e.IsAvailable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if e.IsCombo {
		components, err := r.comboComponents(e.ID)
		if err != nil {
			return nil, err
		}
		e.Components = components
	}
	return &e, nil
}

func (r *CatalogRepo) comboComponents(comboID string) ([]entity.ComboComponent, error) {
	query := `
		SELECT component_product_id, quantity
		FROM combo_components WHERE combo_id = $1
		ORDER BY position, component_product_id`
	rows, err := r.q.Query(context.Background(), query, comboID)
	if err != nil {
		return nil, fmt.Errorf("combo components: %w", err)
	}
	defer rows.Close()
	var out []entity.ComboComponent
	for rows.Next() {
		var c entity.ComboComponent
		if err := rows.Scan(&c.ProductID, &c.Quantity); err != nil {
			return nil, fmt.Errorf("scan combo component: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetRecipe devuelve la receta con sus ingredientes en el orden definido.
func (r *CatalogRepo) GetRecipe(recipeID string) (*entity.Recipe, error) {
	query := `SELECT id, name FROM recipes WHERE id = $1`
	var recipe entity.Recipe
	err := r.q.QueryRow(context.Background(), query, recipeID).Scan(&recipe.ID, &recipe.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	ingQuery := `
		SELECT ingredient_name, quantity, unit, COALESCE(inventory_stock_id, '')
		FROM recipe_ingredients WHERE recipe_id = $1
		ORDER BY position, ingredient_name`
	rows, err := r.q.Query(context.Background(), ingQuery, recipeID)
	if err != nil {
		return nil, fmt.Errorf("recipe ingredients: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ing entity.RecipeIngredient
		if err := rows.Scan(&ing.IngredientName, &ing.QuantityPerUnit, &ing.Unit, &ing.InventoryItemID); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		recipe.Ingredients = append(recipe.Ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &recipe, nil
}
