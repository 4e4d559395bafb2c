package deduction_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-inventory/internal/application/deduction"
	"github.com/tu-usuario/pos-inventory/internal/domain"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
)

// buildOrchestrator arma el pipeline completo sobre los fakes en memoria.
func buildOrchestrator(store *memStore, catalog *memCatalogRepo, templates *memTemplateRepo, cfg deduction.Config) *deduction.Orchestrator {
	inv := &memInventoryRepo{s: store, locking: true}
	return deduction.NewOrchestrator(
		deduction.NewComboExpander(catalog),
		deduction.NewIngredientResolver(catalog, templates, inv),
		deduction.NewAvailabilityChecker(inv),
		deduction.NewDeductionExecutor(&memTxRunner{s: store}),
		cfg,
		zerolog.Nop(),
	)
}

// Escenario completo: un combo que expande a dos productos con receta, todo
// mapeado y con stock de sobra.
func TestProcessSale_PipelineCompleto(t *testing.T) {
	store := newMemStore(
		activeItem("inv-croissant", testStore, "Regular Croissant", 20, "0"),
		activeItem("inv-tea", testStore, "Iced Tea Bottle", 24, "0"),
	)
	catalog := newMemCatalog(
		&entity.CatalogEntry{ID: "combo-1", StoreID: testStore, ProductName: "Merienda Duo", IsCombo: true, IsAvailable: true,
			Components: []entity.ComboComponent{
				{ProductID: "prod-croffle", Quantity: 1},
				{ProductID: "prod-tea", Quantity: 1},
			}},
		&entity.CatalogEntry{ID: "prod-croffle", StoreID: testStore, ProductName: "Mini Croffle", RecipeID: "rec-1", IsAvailable: true},
		&entity.CatalogEntry{ID: "prod-tea", StoreID: testStore, ProductName: "Iced Tea", IsAvailable: true},
	)
	catalog.addRecipe(&entity.Recipe{ID: "rec-1", Name: "Mini Croffle", Ingredients: []entity.RecipeIngredient{
		{IngredientName: "Regular Croissant", QuantityPerUnit: dec("1"), Unit: "pieces", InventoryItemID: "inv-croissant"},
	}})
	orch := buildOrchestrator(store, catalog, &memTemplateRepo{}, deduction.Config{})

	outcome, err := orch.ProcessSale(context.Background(), deduction.SaleInput{
		SaleID:  "sale-1",
		StoreID: testStore,
		ActorID: "user-1",
		Lines: []entity.SaleLine{
			{ProductID: "combo-1", ProductName: "Merienda Duo", Quantity: 2, StoreID: testStore},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, deduction.StateCompleted, outcome.State)
	assert.True(t, outcome.Succeeded())
	assert.Empty(t, outcome.Errors)
	require.Len(t, outcome.Deducted, 2)

	// Croissant: 1 × 2 combos, a media porción por mix-and-match = 1.
	assert.True(t, store.item("inv-croissant").Total().Equal(dec("19")))
	// Iced Tea: fallback directo, 1 × 2 = 2.
	assert.True(t, store.item("inv-tea").Total().Equal(dec("22")))
	assert.Equal(t, 2, store.recordCount())
}

func TestProcessSale_SinActor_Falla(t *testing.T) {
	orch := buildOrchestrator(newMemStore(), newMemCatalog(), &memTemplateRepo{}, deduction.Config{})

	outcome, err := orch.ProcessSale(context.Background(), deduction.SaleInput{
		SaleID:  "sale-1",
		StoreID: testStore,
		Lines:   []entity.SaleLine{{ProductID: "p", ProductName: "X", Quantity: 1, StoreID: testStore}},
	})
	assert.ErrorIs(t, err, domain.ErrAuthenticationMissing)
	assert.Equal(t, deduction.StateFailed, outcome.State)
	assert.False(t, outcome.Succeeded())
}

func TestProcessSale_EntradaInvalida(t *testing.T) {
	orch := buildOrchestrator(newMemStore(), newMemCatalog(), &memTemplateRepo{}, deduction.Config{})

	// Sin líneas.
	_, err := orch.ProcessSale(context.Background(), deduction.SaleInput{
		SaleID: "sale-1", StoreID: testStore, ActorID: "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva.
	_, err = orch.ProcessSale(context.Background(), deduction.SaleInput{
		SaleID: "sale-1", StoreID: testStore, ActorID: "user-1",
		Lines: []entity.SaleLine{{ProductID: "p", ProductName: "X", Quantity: 0, StoreID: testStore}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Política BlockOnShortfall: la venta se rechaza en la validación y el
// inventario no se toca.
func TestProcessSale_BloqueaPorFaltante(t *testing.T) {
	store := newMemStore(activeItem("inv-tea", testStore, "Iced Tea Bottle", 1, "0"))
	catalog := newMemCatalog(
		&entity.CatalogEntry{ID: "prod-tea", StoreID: testStore, ProductName: "Iced Tea", IsAvailable: true},
	)
	orch := buildOrchestrator(store, catalog, &memTemplateRepo{}, deduction.Config{BlockOnShortfall: true})

	outcome, err := orch.ProcessSale(context.Background(), deduction.SaleInput{
		SaleID: "sale-1", StoreID: testStore, ActorID: "user-1",
		Lines: []entity.SaleLine{{ProductID: "prod-tea", ProductName: "Iced Tea", Quantity: 5, StoreID: testStore}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, deduction.StateFailed, outcome.State)
	require.Len(t, outcome.Shortfalls, 1)
	assert.True(t, outcome.Shortfalls[0].Required.Equal(dec("5")))
	assert.True(t, outcome.Shortfalls[0].Available.Equal(dec("1")))

	// Nada se descontó ni se auditó.
	assert.True(t, store.item("inv-tea").Total().Equal(dec("1")))
	assert.Equal(t, 0, store.recordCount())
}

// Sin la política de bloqueo el faltante detectado es solo warning, pero el
// ejecutor re-verifica bajo lock y la falla real se recolecta: la venta
// termina Failed con el error presente, nunca tragado.
func TestProcessSale_FaltanteSinBloqueoFallaEnEjecucion(t *testing.T) {
	store := newMemStore(activeItem("inv-tea", testStore, "Iced Tea Bottle", 1, "0"))
	catalog := newMemCatalog(
		&entity.CatalogEntry{ID: "prod-tea", StoreID: testStore, ProductName: "Iced Tea", IsAvailable: true},
	)
	orch := buildOrchestrator(store, catalog, &memTemplateRepo{}, deduction.Config{BlockOnShortfall: false})

	outcome, err := orch.ProcessSale(context.Background(), deduction.SaleInput{
		SaleID: "sale-1", StoreID: testStore, ActorID: "user-1",
		Lines: []entity.SaleLine{{ProductID: "prod-tea", ProductName: "Iced Tea", Quantity: 5, StoreID: testStore}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, deduction.StateFailed, outcome.State)
	assert.NotEmpty(t, outcome.Warnings, "el faltante de validación queda como warning")
	assert.True(t, store.item("inv-tea").Total().Equal(dec("1")))
}

// Una línea no resoluble no detiene a sus hermanas: la hermana se descuenta,
// la venta completa termina Failed con el error agregado.
func TestProcessSale_LineaFallidaNoDetieneHermanas(t *testing.T) {
	store := newMemStore(activeItem("inv-tea", testStore, "Iced Tea Bottle", 24, "0"))
	catalog := newMemCatalog(
		&entity.CatalogEntry{ID: "prod-tea", StoreID: testStore, ProductName: "Iced Tea", IsAvailable: true},
	)
	orch := buildOrchestrator(store, catalog, &memTemplateRepo{}, deduction.Config{})

	outcome, err := orch.ProcessSale(context.Background(), deduction.SaleInput{
		SaleID: "sale-1", StoreID: testStore, ActorID: "user-1",
		Lines: []entity.SaleLine{
			{ProductID: "prod-tea", ProductName: "Iced Tea", Quantity: 1, StoreID: testStore},
			{ProductID: "prod-x", ProductName: "Producto Fantasma", Quantity: 1, StoreID: testStore},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoInventoryMapping)
	assert.Equal(t, deduction.StateFailed, outcome.State)

	// La línea buena sí se descontó y quedó auditada.
	require.Len(t, outcome.Deducted, 1)
	assert.True(t, store.item("inv-tea").Total().Equal(dec("23")))
	assert.Equal(t, 1, store.recordCount())
}

// Deadline ya vencido: el pipeline corta en la frontera de fase con Timeout.
func TestProcessSale_DeadlineVencido(t *testing.T) {
	store := newMemStore(activeItem("inv-tea", testStore, "Iced Tea Bottle", 24, "0"))
	catalog := newMemCatalog(
		&entity.CatalogEntry{ID: "prod-tea", StoreID: testStore, ProductName: "Iced Tea", IsAvailable: true},
	)
	orch := buildOrchestrator(store, catalog, &memTemplateRepo{}, deduction.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := orch.ProcessSale(ctx, deduction.SaleInput{
		SaleID: "sale-1", StoreID: testStore, ActorID: "user-1",
		Lines: []entity.SaleLine{{ProductID: "prod-tea", ProductName: "Iced Tea", Quantity: 1, StoreID: testStore}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Equal(t, deduction.StateFailed, outcome.State)
}

// Reprocesar la misma venta vuelve a descontar: no hay idempotencia por
// sale id, la de-duplicación es del caller.
func TestProcessSale_ReprocesarDescuentaDeNuevo(t *testing.T) {
	store := newMemStore(activeItem("inv-tea", testStore, "Iced Tea Bottle", 24, "0"))
	catalog := newMemCatalog(
		&entity.CatalogEntry{ID: "prod-tea", StoreID: testStore, ProductName: "Iced Tea", IsAvailable: true},
	)
	orch := buildOrchestrator(store, catalog, &memTemplateRepo{}, deduction.Config{})

	input := deduction.SaleInput{
		SaleID: "sale-1", StoreID: testStore, ActorID: "user-1",
		Lines: []entity.SaleLine{{ProductID: "prod-tea", ProductName: "Iced Tea", Quantity: 2, StoreID: testStore}},
	}
	_, err := orch.ProcessSale(context.Background(), input)
	require.NoError(t, err)
	_, err = orch.ProcessSale(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, store.item("inv-tea").Total().Equal(dec("20")))
	assert.Equal(t, 2, store.recordCount())
}
