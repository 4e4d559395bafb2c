package deduction

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-inventory/internal/domain/repository"
)

// Shortfall es un faltante detectado al validar disponibilidad.
type Shortfall struct {
	InventoryItemID string
	ItemName        string
	Required        decimal.Decimal
	Available       decimal.Decimal
}

// String formatea el faltante para reporte al caller.
func (s Shortfall) String() string {
	return fmt.Sprintf("%s: requerido %s, disponible %s", s.ItemName, s.Required.String(), s.Available.String())
}

// AvailabilityReport resume la validación de una venta. Es consultivo: el
// ejecutor de descuento re-verifica en el punto de mutación de todos modos,
// porque entre la validación y el descuento pasa tiempo.
type AvailabilityReport struct {
	Shortfalls    []Shortfall
	CanProceed    bool
	MaxProducible int64 // unidades completas producibles con el stock actual
}

// AggregatedRequirement es la suma de todo lo que la venta necesita de un
// mismo ítem de inventario, a través de todas las líneas expandidas.
type AggregatedRequirement struct {
	InventoryItemID string
	IngredientName  string
	Required        decimal.Decimal
}

// AggregateRequirements agrupa los requisitos resueltos por ítem de
// inventario. Los requisitos sin mapeo se omiten (ya reportados como
// warnings). El orden de salida es estable (por id) para que la fase de
// descuento sea determinista en sus reportes.
func AggregateRequirements(resolutions []*LineResolution) []AggregatedRequirement {
	byItem := make(map[string]*AggregatedRequirement)
	for _, res := range resolutions {
		if res == nil {
			continue
		}
		for _, req := range res.Requires {
			if req.InventoryItemID == "" {
				continue
			}
			agg, ok := byItem[req.InventoryItemID]
			if !ok {
				agg = &AggregatedRequirement{
					InventoryItemID: req.InventoryItemID,
					IngredientName:  req.IngredientName,
				}
				byItem[req.InventoryItemID] = agg
			}
			agg.Required = agg.Required.Add(req.Quantity)
		}
	}
	out := make([]AggregatedRequirement, 0, len(byItem))
	for _, agg := range byItem {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InventoryItemID < out[j].InventoryItemID })
	return out
}

// AvailabilityChecker computa suficiencia de stock contra los niveles
// actuales. Solo lectura.
type AvailabilityChecker struct {
	inventoryRepo repository.InventoryRepository
}

// NewAvailabilityChecker construye el verificador.
func NewAvailabilityChecker(inventoryRepo repository.InventoryRepository) *AvailabilityChecker {
	return &AvailabilityChecker{inventoryRepo: inventoryRepo}
}

// Check compara cada requisito agregado contra el stock leído en este momento
// y reporta los faltantes. CanProceed = sin faltantes.
func (c *AvailabilityChecker) Check(reqs []AggregatedRequirement) (*AvailabilityReport, error) {
	report := &AvailabilityReport{CanProceed: true, MaxProducible: -1}
	for _, req := range reqs {
		item, err := c.inventoryRepo.GetByID(req.InventoryItemID)
		if err != nil {
			return nil, fmt.Errorf("leer stock de %s: %w", req.IngredientName, err)
		}
		available := decimal.Zero
		name := req.IngredientName
		if item != nil {
			available = item.Total()
			name = item.Name
		}
		if available.LessThan(req.Required) {
			report.CanProceed = false
			report.Shortfalls = append(report.Shortfalls, Shortfall{
				InventoryItemID: req.InventoryItemID,
				ItemName:        name,
				Required:        req.Required,
				Available:       available,
			})
		}
		if req.Required.IsPositive() {
			producible := available.Div(req.Required).Floor().IntPart()
			if report.MaxProducible < 0 || producible < report.MaxProducible {
				report.MaxProducible = producible
			}
		}
	}
	if report.MaxProducible < 0 {
		report.MaxProducible = 0
	}
	return report, nil
}
