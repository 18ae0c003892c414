package catalog

import (
	"context"
	"sync"

	domorder "github.com/mak6096-commits/orders-inventory/internal/domain/order"
	domain "github.com/mak6096-commits/orders-inventory/internal/domain/product"
	"github.com/mak6096-commits/orders-inventory/internal/pkg/logging"
	"go.uber.org/zap"
)

// Service owns product CRUD. It never touches stock levels directly; stock is
// written only by the order service. The guard mutex is shared with the order
// service so the delete gate cannot race a concurrent order creation.
type Service struct {
	products domain.Repository
	orders   domorder.Repository
	guard    *sync.Mutex
}

func NewService(products domain.Repository, orders domorder.Repository, guard *sync.Mutex) *Service {
	if guard == nil {
		guard = &sync.Mutex{}
	}
	return &Service{
		products: products,
		orders:   orders,
		guard:    guard,
	}
}

type CreateProductInput struct {
	SKU   string
	Name  string
	Price float64
	Stock int
}

func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "catalog_service"))

	entity, err := domain.New(input.SKU, input.Name, input.Price, input.Stock)
	if err != nil {
		return nil, err
	}

	created, err := s.products.Insert(ctx, entity)
	if err != nil {
		return nil, err
	}

	logger.Info("product_created",
		zap.Int64("product_id", created.ID),
		zap.String("sku", created.SKU),
		zap.Int("stock", created.Stock),
	)
	return created, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

// UpdateProduct applies the supplied patch fields. Stock may be patched here
// by an operator, so the update runs under the shared guard to stay consistent
// with in-flight reservations.
func (s *Service) UpdateProduct(ctx context.Context, id int64, patch domain.Patch) (*domain.Product, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "catalog_service"))

	s.guard.Lock()
	defer s.guard.Unlock()

	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}

	logger.Info("product_updated", zap.Int64("product_id", id))
	return p, nil
}

// DeleteProduct removes a product unless a referencing order is still in a
// non-terminal state. Shipped and canceled orders hold no pending stock claim
// and do not block deletion.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	logger := logging.FromContext(ctx).With(zap.String("component", "catalog_service"))

	s.guard.Lock()
	defer s.guard.Unlock()

	if _, err := s.products.Get(ctx, id); err != nil {
		return err
	}

	referencing, err := s.orders.ListByProduct(ctx, id)
	if err != nil {
		return err
	}
	for _, o := range referencing {
		if o.Status == domorder.StatusPending || o.Status == domorder.StatusPaid {
			logger.Info("product_delete_blocked",
				zap.Int64("product_id", id),
				zap.Int64("order_id", o.ID),
				zap.String("order_status", string(o.Status)),
			)
			return domain.ErrHasActiveOrders
		}
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("product_deleted", zap.Int64("product_id", id))
	return nil
}
