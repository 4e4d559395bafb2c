package entity

import "github.com/shopspring/decimal"

// RecipeIngredient es un requisito de materia prima dentro de una receta.
// InventoryItemID puede estar vacío ("sin mapear"): es un estado válido y
// esperado, no corrupción de datos; la orquestación lo reporta como warning.
type RecipeIngredient struct {
	IngredientName  string
	QuantityPerUnit decimal.Decimal // > 0
	Unit            string
	InventoryItemID string // opcional
}

// Recipe es la lista ordenada de ingredientes de un producto.
// Se trata como snapshot de solo lectura durante una corrida de descuento.
type Recipe struct {
	ID          string
	Name        string
	Ingredients []RecipeIngredient
}

// RecipeTemplate es una receta plantilla global (no atada a una tienda).
// Se usa como fallback cuando el catálogo de la tienda no tiene receta propia;
// sus ingredientes se mapean a inventario por nombre en el momento de resolver.
type RecipeTemplate struct {
	ID          string
	Name        string
	IsActive    bool
	Ingredients []RecipeIngredient
}
