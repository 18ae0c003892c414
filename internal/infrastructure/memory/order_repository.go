package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/mak6096-commits/orders-inventory/internal/domain/order"
)

type OrderRepository struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]*domain.Order
	ids    []int64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[int64]*domain.Order),
	}
}

func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	_ = ctx
	if o == nil {
		return nil, fmt.Errorf("order repository: order is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := o.Clone()
	stored.ID = r.nextID
	r.orders[stored.ID] = stored
	r.ids = append(r.ids, stored.ID)
	return stored.Clone(), nil
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0, len(r.ids))
	for _, id := range r.ids {
		if o, ok := r.orders[id]; ok {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) error {
	_ = ctx
	if o == nil {
		return domain.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.orders[o.ID] = o.Clone()
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.orders, id)
	for i, existing := range r.ids {
		if existing == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *OrderRepository) ListByProduct(ctx context.Context, productID int64) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Order
	for _, id := range r.ids {
		if o, ok := r.orders[id]; ok && o.ProductID == productID {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}
