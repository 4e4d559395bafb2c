package deduction_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
	"github.com/tu-usuario/pos-inventory/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El txRunner serializa las transacciones con un mutex
// global y revierte con snapshot en caso de error, modelando el bloqueo de
// fila y el rollback de PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu      sync.Mutex
	items   map[string]*entity.InventoryItem
	records []*entity.DeductionRecord
}

func newMemStore(items ...*entity.InventoryItem) *memStore {
	s := &memStore{items: make(map[string]*entity.InventoryItem)}
	for _, it := range items {
		copied := *it
		s.items[it.ID] = &copied
	}
	return s
}

func (s *memStore) item(id string) *entity.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id]
}

func (s *memStore) recordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// memInventoryRepo repositorio de inventario sobre memStore. Con locking=true
// toma el mutex por operación (uso standalone); con false asume que el
// txRunner ya lo tiene (uso dentro de transacción).
type memInventoryRepo struct {
	s       *memStore
	locking bool
}

func (r *memInventoryRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memInventoryRepo) GetByID(id string) (*entity.InventoryItem, error) {
	defer r.lock()()
	if it, ok := r.s.items[id]; ok {
		copied := *it
		return &copied, nil
	}
	return nil, nil
}

func (r *memInventoryRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.GetByID(id)
}

func (r *memInventoryRepo) FindByExactName(storeID, name string) (*entity.InventoryItem, error) {
	return r.find(storeID, func(it *entity.InventoryItem) bool { return it.Name == name })
}

func (r *memInventoryRepo) FindByNameInsensitive(storeID, name string) (*entity.InventoryItem, error) {
	return r.find(storeID, func(it *entity.InventoryItem) bool {
		return strings.EqualFold(it.Name, name)
	})
}

func (r *memInventoryRepo) FindByNameContains(storeID, name string) (*entity.InventoryItem, error) {
	lower := strings.ToLower(name)
	return r.find(storeID, func(it *entity.InventoryItem) bool {
		return strings.Contains(strings.ToLower(it.Name), lower)
	})
}

func (r *memInventoryRepo) find(storeID string, match func(*entity.InventoryItem) bool) (*entity.InventoryItem, error) {
	defer r.lock()()
	var candidates []*entity.InventoryItem
	for _, it := range r.s.items {
		if it.StoreID == storeID && it.IsActive && match(it) {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Name != candidates[j].Name {
			return candidates[i].Name < candidates[j].Name
		}
		return candidates[i].ID < candidates[j].ID
	})
	copied := *candidates[0]
	return &copied, nil
}

func (r *memInventoryRepo) UpdateStock(item *entity.InventoryItem) error {
	defer r.lock()()
	copied := *item
	r.s.items[item.ID] = &copied
	return nil
}

// memRecordRepo libro de auditoría en memoria, solo append.
type memRecordRepo struct {
	s       *memStore
	locking bool
}

func (r *memRecordRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memRecordRepo) Create(record *entity.DeductionRecord) error {
	defer r.lock()()
	copied := *record
	r.s.records = append(r.s.records, &copied)
	return nil
}

func (r *memRecordRepo) ListBySale(saleID string) ([]*entity.DeductionRecord, error) {
	defer r.lock()()
	var out []*entity.DeductionRecord
	for _, rec := range r.s.records {
		if rec.SaleID == saleID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRecordRepo) ListByItem(itemID string, limit, offset int) ([]*entity.DeductionRecord, error) {
	defer r.lock()()
	var out []*entity.DeductionRecord
	for _, rec := range r.s.records {
		if rec.InventoryItemID == itemID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRecordRepo) ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.DeductionRecord, error) {
	defer r.lock()()
	var out []*entity.DeductionRecord
	for _, rec := range r.s.records {
		if rec.StoreID != storeID {
			continue
		}
		if from != nil && rec.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && rec.CreatedAt.After(*to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// memTxRunner toma el mutex global durante toda la transacción (modelo del
// bloqueo de fila) y restaura un snapshot si fn falla (modelo del rollback).
type memTxRunner struct {
	s *memStore
	// failRecordWrites fuerza la falla del append de auditoría para probar
	// el rollback conjunto stock+auditoría.
	failRecordWrites error
}

func (t *memTxRunner) Run(_ context.Context, fn func(
	invRepo repository.InventoryRepository,
	recordRepo repository.DeductionRecordRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	snapshot := make(map[string]*entity.InventoryItem, len(t.s.items))
	for id, it := range t.s.items {
		copied := *it
		snapshot[id] = &copied
	}
	recordMark := len(t.s.records)

	var recordRepo repository.DeductionRecordRepository = &memRecordRepo{s: t.s}
	if t.failRecordWrites != nil {
		recordRepo = &failingRecordRepo{memRecordRepo: memRecordRepo{s: t.s}, err: t.failRecordWrites}
	}
	err := fn(&memInventoryRepo{s: t.s}, recordRepo)
	if err != nil {
		t.s.items = snapshot
		t.s.records = t.s.records[:recordMark]
		return err
	}
	return nil
}

type failingRecordRepo struct {
	memRecordRepo
	err error
}

func (f *failingRecordRepo) Create(*entity.DeductionRecord) error { return f.err }

// memCatalogRepo catálogo en memoria: entradas por id y por nombre, recetas
// por id.
type memCatalogRepo struct {
	entries map[string]*entity.CatalogEntry // por id
	recipes map[string]*entity.Recipe
}

func newMemCatalog(entries ...*entity.CatalogEntry) *memCatalogRepo {
	c := &memCatalogRepo{
		entries: make(map[string]*entity.CatalogEntry),
		recipes: make(map[string]*entity.Recipe),
	}
	for _, e := range entries {
		c.entries[e.ID] = e
	}
	return c
}

func (c *memCatalogRepo) addRecipe(r *entity.Recipe) { c.recipes[r.ID] = r }

func (c *memCatalogRepo) GetByID(storeID, productID string) (*entity.CatalogEntry, error) {
	e, ok := c.entries[productID]
	if !ok || e.StoreID != storeID || !e.IsAvailable {
		return nil, nil
	}
	return e, nil
}

func (c *memCatalogRepo) GetByProductName(storeID, productName string) (*entity.CatalogEntry, error) {
	for _, e := range c.entries {
		if e.StoreID == storeID && e.ProductName == productName && e.IsAvailable {
			return e, nil
		}
	}
	return nil, nil
}

func (c *memCatalogRepo) GetRecipe(recipeID string) (*entity.Recipe, error) {
	return c.recipes[recipeID], nil
}

// memTemplateRepo plantillas globales por nombre.
type memTemplateRepo struct {
	templates map[string]*entity.RecipeTemplate
}

func (r *memTemplateRepo) GetByName(name string) (*entity.RecipeTemplate, error) {
	if r == nil || r.templates == nil {
		return nil, nil
	}
	return r.templates[name], nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func activeItem(id, storeID, name string, whole int64, frac string) *entity.InventoryItem {
	return &entity.InventoryItem{
		ID:              id,
		StoreID:         storeID,
		Name:            name,
		Unit:            "pieces",
		WholeUnits:      whole,
		FractionalUnits: dec(frac),
		IsActive:        true,
	}
}
