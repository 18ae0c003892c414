package order

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/mak6096-commits/orders-inventory/internal/domain/order"
	domprod "github.com/mak6096-commits/orders-inventory/internal/domain/product"
	"github.com/mak6096-commits/orders-inventory/internal/metrics"
	"github.com/mak6096-commits/orders-inventory/internal/pkg/logging"
	"go.uber.org/zap"
)

const (
	outcomeSuccess           = "success"
	outcomeInsufficientStock = "insufficient_stock"
	outcomeNotFound          = "not_found"
	outcomeInvalid           = "invalid"
)

// Service enforces the stock-reservation invariant and the order status state
// machine. It is the only component that mutates Product.Stock or Order.Status.
//
// The guard mutex serializes every mutating operation so stock checks and the
// paired order insert form one atomic unit. The same mutex is shared with the
// catalog service's delete gate at wiring time.
type Service struct {
	orders   domain.Repository
	products domprod.Repository
	guard    *sync.Mutex
	mx       *metrics.Metrics
}

func NewService(orders domain.Repository, products domprod.Repository, guard *sync.Mutex, mx *metrics.Metrics) *Service {
	if guard == nil {
		guard = &sync.Mutex{}
	}
	return &Service{
		orders:   orders,
		products: products,
		guard:    guard,
		mx:       mx,
	}
}

type CreateOrderInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrder reserves stock and inserts a PENDING order as one atomic unit.
// No caller can observe the stock decremented without the order existing.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "order_service"))
	logger.Info("create_order_start",
		zap.Int64("product_id", input.ProductID),
		zap.Int("quantity", input.Quantity),
	)

	s.guard.Lock()
	defer s.guard.Unlock()

	entity, err := domain.New(input.ProductID, input.Quantity)
	if err != nil {
		s.mx.OrderCreated(outcomeInvalid)
		return nil, err
	}

	p, err := s.products.Get(ctx, input.ProductID)
	if err != nil {
		s.mx.OrderCreated(outcomeNotFound)
		return nil, err
	}

	if err := p.Reserve(input.Quantity); err != nil {
		logger.Info("create_order_rejected",
			zap.Int64("product_id", input.ProductID),
			zap.Error(err),
		)
		s.mx.OrderCreated(outcomeInsufficientStock)
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("order: reserve stock: %w", err)
	}

	created, err := s.orders.Insert(ctx, entity)
	if err != nil {
		// Roll the reservation back so no stock is held without an order.
		p.Restock(input.Quantity)
		_ = s.products.Update(ctx, p)
		logger.Error("order_insert_failed", zap.Error(err))
		return nil, fmt.Errorf("order: insert: %w", err)
	}

	s.mx.OrderCreated(outcomeSuccess)
	s.mx.StockReserved(input.Quantity)
	logger.Info("create_order_success",
		zap.Int64("order_id", created.ID),
		zap.Int("stock_remaining", p.Stock),
	)
	return created, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus applies a status transition. Canceling restores the reserved
// stock to the product; shipped orders can no longer be canceled, so shipped
// stock is never returned.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, next domain.Status) (*domain.Order, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "order_service"))

	s.guard.Lock()
	defer s.guard.Unlock()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := o.Status
	if err := o.Transition(next); err != nil {
		logger.Info("order_transition_rejected",
			zap.Int64("order_id", orderID),
			zap.String("from", string(previous)),
			zap.String("to", string(next)),
		)
		return nil, err
	}

	if next == domain.StatusCanceled {
		p, err := s.products.Get(ctx, o.ProductID)
		if err != nil {
			return nil, err
		}
		p.Restock(o.Quantity)
		if err := s.products.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("order: restore stock: %w", err)
		}
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("order: update: %w", err)
	}

	logger.Info("order_status_updated",
		zap.Int64("order_id", orderID),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)
	return o, nil
}

// CancelOrder is a convenience wrapper for the CANCELED transition.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.UpdateStatus(ctx, orderID, domain.StatusCanceled)
}

// DeleteOrder removes an order from storage. Only canceled orders may be
// deleted; everything else must go through the state machine first.
func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	s.guard.Lock()
	defer s.guard.Unlock()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status != domain.StatusCanceled {
		return domain.ErrNotCanceled
	}
	return s.orders.Delete(ctx, orderID)
}
