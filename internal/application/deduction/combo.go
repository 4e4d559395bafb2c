package deduction

import (
	"fmt"

	"github.com/tu-usuario/pos-inventory/internal/domain"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
	"github.com/tu-usuario/pos-inventory/internal/domain/repository"
)

// ComboExpander reescribe las líneas de venta que representan combos en sus
// productos constituyentes antes de cualquier lógica de descuento. La
// expansión corre a término (o falla la venta completa) antes de resolver:
// una expansión parcial nunca se observa aguas abajo.
type ComboExpander struct {
	catalogRepo repository.CatalogRepository
}

// NewComboExpander construye el expansor.
func NewComboExpander(catalogRepo repository.CatalogRepository) *ComboExpander {
	return &ComboExpander{catalogRepo: catalogRepo}
}

// Expand devuelve la lista de líneas con cada combo reemplazado por N líneas
// constituyentes, cada una con cantidad = componente × cantidad del combo.
// Las líneas que no son combo pasan sin cambios.
func (e *ComboExpander) Expand(storeID string, lines []entity.SaleLine) ([]entity.SaleLine, error) {
	expanded := make([]entity.SaleLine, 0, len(lines))
	for _, line := range lines {
		entry, err := e.catalogRepo.GetByID(storeID, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: consultar catálogo para %q: %v", domain.ErrComboExpansion, line.ProductName, err)
		}
		if entry == nil || !entry.IsCombo {
			expanded = append(expanded, line)
			continue
		}
		if len(entry.Components) == 0 {
			return nil, fmt.Errorf("%w: combo %q sin componentes", domain.ErrComboExpansion, line.ProductName)
		}
		for _, comp := range entry.Components {
			compEntry, err := e.catalogRepo.GetByID(storeID, comp.ProductID)
			if err != nil {
				return nil, fmt.Errorf("%w: consultar componente %s de %q: %v", domain.ErrComboExpansion, comp.ProductID, line.ProductName, err)
			}
			if compEntry == nil {
				return nil, fmt.Errorf("%w: componente %s de %q no existe en el catálogo", domain.ErrComboExpansion, comp.ProductID, line.ProductName)
			}
			expanded = append(expanded, entity.SaleLine{
				ProductID:   comp.ProductID,
				ProductName: compEntry.ProductName,
				Quantity:    comp.Quantity * line.Quantity,
				StoreID:     line.StoreID,
			})
		}
	}
	return expanded, nil
}
