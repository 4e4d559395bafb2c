package entity

import "github.com/shopspring/decimal"

// ComboComponent es un producto constituyente de un combo, con la cantidad
// que aporta por unidad de combo vendida.
type ComboComponent struct {
	ProductID string
	Quantity  int64
}

// CatalogEntry es un producto publicado en el catálogo de una tienda.
// RecipeID puede estar vacío: un producto sin receta es legal (ej. un addon
// vendido como inventario directo) y se resuelve por fallback de inventario.
type CatalogEntry struct {
	ID          string
	StoreID     string
	ProductName string
	RecipeID    string // opcional
	IsCombo     bool
	Components  []ComboComponent // solo si IsCombo
	IsAvailable bool
}

// SaleLine es una línea de venta completada, entrada inmutable del motor.
type SaleLine struct {
	ProductID   string
	ProductName string
	Quantity    int64 // > 0
	StoreID     string
}

// IngredientRequirement es un ingrediente ya resuelto para una línea de venta:
// cantidad total a descontar (QuantityPerUnit × cantidad de la línea) y la
// referencia de inventario si se pudo mapear.
type IngredientRequirement struct {
	IngredientName  string
	InventoryItemID string // vacío = sin mapear (warning, no bloquea)
	Quantity        decimal.Decimal
	Unit            string
}
