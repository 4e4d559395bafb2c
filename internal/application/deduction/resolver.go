package deduction

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-inventory/internal/domain"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
	"github.com/tu-usuario/pos-inventory/internal/domain/mixmatch"
	"github.com/tu-usuario/pos-inventory/internal/domain/repository"
)

// Para líneas mix-and-match el croissant base se descuenta a la mitad:
// una pieza rinde dos minis (regla de cocina heredada del menú).
var halfPortionIngredient = "Regular Croissant"

// IngredientResolver mapea una línea de venta a sus requisitos de ingredientes
// con referencias de inventario resueltas donde sea posible. Solo lectura.
type IngredientResolver struct {
	catalogRepo   repository.CatalogRepository
	templateRepo  repository.RecipeTemplateRepository
	inventoryRepo repository.InventoryRepository
}

// NewIngredientResolver construye el resolvedor.
func NewIngredientResolver(
	catalogRepo repository.CatalogRepository,
	templateRepo repository.RecipeTemplateRepository,
	inventoryRepo repository.InventoryRepository,
) *IngredientResolver {
	return &IngredientResolver{
		catalogRepo:   catalogRepo,
		templateRepo:  templateRepo,
		inventoryRepo: inventoryRepo,
	}
}

// LineResolution es el resultado de resolver una línea: los requisitos a
// descontar y los warnings acumulados (ingredientes sin mapear, etc.).
type LineResolution struct {
	Line     entity.SaleLine
	Parsed   mixmatch.ParsedProduct
	Requires []entity.IngredientRequirement
	Warnings []string
}

// ResolveLine resuelve una línea expandida. Cadena estricta de fallback, cada
// paso solo si el anterior no produjo ingredientes:
//  1. entrada de catálogo por id → receta → ingredientes
//  2. entrada de catálogo por nombre base exacto dentro de la tienda
//  3. plantilla "<base> Base", mapeando cada ingrediente a inventario por
//     nombre exacto y luego sin distinguir mayúsculas
//  4. plantilla con el nombre base exacto, mismo mapeo
//
// Si los cuatro pasos no dan nada y la línea tampoco tiene fallback directo de
// inventario, la línea falla con un error duro; las líneas hermanas no se ven
// afectadas.
func (r *IngredientResolver) ResolveLine(line entity.SaleLine) (*LineResolution, error) {
	res := &LineResolution{
		Line:   line,
		Parsed: mixmatch.Parse(line.ProductName),
	}
	qty := decimal.NewFromInt(line.Quantity)

	base, recipeBacked, warnings, err := r.resolveBase(line, res.Parsed)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(res.Warnings, warnings...)

	for _, ing := range base {
		required := ing.QuantityPerUnit.Mul(qty)
		// Regla mix-and-match: el croissant base rinde media porción.
		if res.Parsed.IsMixAndMatch && ing.IngredientName == halfPortionIngredient {
			required = required.Div(decimal.NewFromInt(2))
		}
		if ing.InventoryItemID == "" {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("ingrediente %q sin mapeo a inventario, se omite", ing.IngredientName))
		}
		res.Requires = append(res.Requires, entity.IngredientRequirement{
			IngredientName:  ing.IngredientName,
			InventoryItemID: ing.InventoryItemID,
			Quantity:        required,
			Unit:            ing.Unit,
		})
	}

	// Addons: cada descriptor se mapea a un ítem de inventario por nombre,
	// con matching difuso por substring como último intento. Un addon sin
	// mapeo no bloquea la venta: warning y se omite.
	for _, addon := range res.Parsed.Addons {
		item, err := r.findInventoryFuzzy(line.StoreID, addon.Name)
		if err != nil {
			return nil, fmt.Errorf("resolver addon %q: %w", addon.Name, err)
		}
		req := entity.IngredientRequirement{
			IngredientName: addon.Name,
			Quantity:       decimal.NewFromInt(addon.Quantity).Mul(qty),
			Unit:           addon.Unit,
		}
		if item != nil {
			req.InventoryItemID = item.ID
		} else {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("addon %q sin mapeo a inventario, se omite", addon.Name))
		}
		res.Requires = append(res.Requires, req)
	}

	if len(res.Requires) > 0 {
		return res, nil
	}
	if recipeBacked {
		// El catálogo promete una receta que no resolvió a nada: error duro,
		// sin fallback directo (el producto no es un ítem de stock simple).
		return nil, domain.NewDeductionError(domain.ErrNoRecipeFound, line.ProductName)
	}

	// Producto sin receta en toda la cadena: fallback directo de inventario.
	item, err := r.inventoryRepo.FindByNameContains(line.StoreID, line.ProductName)
	if err != nil {
		return nil, fmt.Errorf("fallback directo de inventario para %q: %w", line.ProductName, err)
	}
	if item == nil {
		return nil, domain.NewDeductionError(domain.ErrNoInventoryMapping, line.ProductName)
	}
	res.Requires = append(res.Requires, entity.IngredientRequirement{
		IngredientName:  item.Name,
		InventoryItemID: item.ID,
		Quantity:        qty,
		Unit:            item.Unit,
	})
	return res, nil
}

// resolveBase ejecuta los cuatro pasos de la cadena sobre el producto base.
// recipeBacked indica que el catálogo referenciaba una receta (aunque esta no
// haya resuelto a ingredientes): en ese caso no aplica el fallback directo.
func (r *IngredientResolver) resolveBase(line entity.SaleLine, parsed mixmatch.ParsedProduct) (ings []entity.RecipeIngredient, recipeBacked bool, warnings []string, err error) {
	// Paso 1: catálogo por id.
	if line.ProductID != "" {
		entry, err := r.catalogRepo.GetByID(line.StoreID, line.ProductID)
		if err != nil {
			return nil, false, nil, fmt.Errorf("catálogo por id %s: %w", line.ProductID, err)
		}
		recipeBacked = entry != nil && entry.RecipeID != ""
		if ings, err := r.recipeIngredients(entry); err != nil {
			return nil, recipeBacked, nil, err
		} else if len(ings) > 0 {
			return ings, true, warnings, nil
		}
	}

	// Paso 2: catálogo por nombre base exacto dentro de la tienda.
	entry, err := r.catalogRepo.GetByProductName(line.StoreID, parsed.BaseName)
	if err != nil {
		return nil, recipeBacked, nil, fmt.Errorf("catálogo por nombre %q: %w", parsed.BaseName, err)
	}
	if entry != nil && entry.RecipeID != "" {
		recipeBacked = true
	}
	if ings, err := r.recipeIngredients(entry); err != nil {
		return nil, recipeBacked, nil, err
	} else if len(ings) > 0 {
		return ings, true, warnings, nil
	}

	// Pasos 3 y 4: plantillas "<base> Base" y nombre base exacto.
	for _, templateName := range []string{parsed.BaseName + " Base", parsed.BaseName} {
		tpl, err := r.templateRepo.GetByName(templateName)
		if err != nil {
			return nil, recipeBacked, nil, fmt.Errorf("plantilla %q: %w", templateName, err)
		}
		if tpl == nil || len(tpl.Ingredients) == 0 {
			continue
		}
		mapped, ws, err := r.mapTemplateIngredients(line.StoreID, tpl.Ingredients)
		if err != nil {
			return nil, recipeBacked, nil, err
		}
		return mapped, true, append(warnings, ws...), nil
	}

	// Base mix-and-match sin receta: la venta puede seguir con los addons,
	// pero queda registrado.
	if parsed.IsMixAndMatch && len(parsed.Addons) > 0 {
		warnings = append(warnings,
			fmt.Sprintf("sin receta base para %q, solo se descuentan addons", parsed.BaseName))
		recipeBacked = false
	}
	return nil, recipeBacked, warnings, nil
}

// recipeIngredients carga los ingredientes de la receta de una entrada de
// catálogo, si la entrada tiene receta.
func (r *IngredientResolver) recipeIngredients(entry *entity.CatalogEntry) ([]entity.RecipeIngredient, error) {
	if entry == nil || entry.RecipeID == "" {
		return nil, nil
	}
	recipe, err := r.catalogRepo.GetRecipe(entry.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("receta %s: %w", entry.RecipeID, err)
	}
	if recipe == nil {
		return nil, nil
	}
	return recipe.Ingredients, nil
}

// mapTemplateIngredients asigna inventario a ingredientes de plantilla por
// nombre exacto y luego sin distinguir mayúsculas, dentro de la tienda.
func (r *IngredientResolver) mapTemplateIngredients(storeID string, ings []entity.RecipeIngredient) ([]entity.RecipeIngredient, []string, error) {
	mapped := make([]entity.RecipeIngredient, 0, len(ings))
	var warnings []string
	for _, ing := range ings {
		item, err := r.findInventoryByName(storeID, ing.IngredientName)
		if err != nil {
			return nil, nil, fmt.Errorf("mapear ingrediente %q: %w", ing.IngredientName, err)
		}
		out := ing
		if item != nil {
			out.InventoryItemID = item.ID
		} else {
			warnings = append(warnings,
				fmt.Sprintf("ingrediente de plantilla %q sin ítem de inventario en la tienda", ing.IngredientName))
		}
		mapped = append(mapped, out)
	}
	return mapped, warnings, nil
}

// findInventoryByName busca por nombre exacto, luego sin distinguir
// mayúsculas. Devuelve nil si no hay match; el caller decide si es warning.
func (r *IngredientResolver) findInventoryByName(storeID, name string) (*entity.InventoryItem, error) {
	item, err := r.inventoryRepo.FindByExactName(storeID, name)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return item, nil
	}
	return r.inventoryRepo.FindByNameInsensitive(storeID, name)
}

// findInventoryFuzzy agrega a la búsqueda por nombre un último intento por
// contención de substring. Se usa para addons, cuyo descriptor rara vez calza
// letra a letra con el nombre del ítem de inventario.
func (r *IngredientResolver) findInventoryFuzzy(storeID, name string) (*entity.InventoryItem, error) {
	item, err := r.findInventoryByName(storeID, name)
	if err != nil || item != nil {
		return item, err
	}
	return r.inventoryRepo.FindByNameContains(storeID, name)
}
