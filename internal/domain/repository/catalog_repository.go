package repository

import "github.com/tu-usuario/pos-inventory/internal/domain/entity"

// CatalogRepository acceso de solo lectura al catálogo de productos y sus
// recetas. El motor de descuento nunca muta el catálogo.
type CatalogRepository interface {
	// GetByID devuelve la entrada de catálogo por id dentro de la tienda,
	// o nil si no existe.
	GetByID(storeID, productID string) (*entity.CatalogEntry, error)
	// GetByProductName devuelve la entrada por nombre exacto de producto
	// dentro de la tienda, o nil.
	GetByProductName(storeID, productName string) (*entity.CatalogEntry, error)
	// GetRecipe devuelve la receta con sus ingredientes ordenados, o nil.
	GetRecipe(recipeID string) (*entity.Recipe, error)
}

// RecipeTemplateRepository acceso de solo lectura a recetas plantilla
// globales, usadas como fallback de resolución.
type RecipeTemplateRepository interface {
	// GetByName devuelve la plantilla activa con ese nombre exacto, o nil.
	GetByName(name string) (*entity.RecipeTemplate, error)
}
