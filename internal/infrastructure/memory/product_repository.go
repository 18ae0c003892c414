package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/mak6096-commits/orders-inventory/internal/domain/product"
)

// ProductRepository keeps products in a mutex-guarded map. Reads and writes
// exchange clones so callers can never mutate stored state in place.
type ProductRepository struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]*domain.Product
	ids      []int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]*domain.Product),
	}
}

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	_ = ctx
	if p == nil {
		return nil, fmt.Errorf("product repository: product is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.skuTaken(p.SKU, 0) {
		return nil, domain.ErrSKUExists
	}

	r.nextID++
	stored := p.Clone()
	stored.ID = r.nextID
	r.products[stored.ID] = stored
	r.ids = append(r.ids, stored.ID)
	return stored.Clone(), nil
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.ids))
	for _, id := range r.ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	_ = ctx
	if p == nil {
		return domain.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.skuTaken(p.SKU, p.ID) {
		return domain.ErrSKUExists
	}

	r.products[p.ID] = p.Clone()
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	for i, existing := range r.ids {
		if existing == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}
	return nil
}

// skuTaken reports whether another live product already uses the sku.
// Callers must hold the lock.
func (r *ProductRepository) skuTaken(sku string, selfID int64) bool {
	for id, p := range r.products {
		if id != selfID && p.SKU == sku {
			return true
		}
	}
	return false
}
