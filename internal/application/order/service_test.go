package order

import (
	"context"
	"sync"
	"testing"

	domain "github.com/mak6096-commits/orders-inventory/internal/domain/order"
	domprod "github.com/mak6096-commits/orders-inventory/internal/domain/product"
	"github.com/mak6096-commits/orders-inventory/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	products *memory.ProductRepository
	orders   *memory.OrderRepository
	service  *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	return &testEnv{
		products: products,
		orders:   orders,
		service:  NewService(orders, products, &sync.Mutex{}, nil),
	}
}

func (e *testEnv) seedProduct(t *testing.T, sku string, stock int) *domprod.Product {
	t.Helper()
	entity, err := domprod.New(sku, "Test "+sku, 10, stock)
	require.NoError(t, err)
	created, err := e.products.Insert(context.Background(), entity)
	require.NoError(t, err)
	return created
}

func (e *testEnv) stock(t *testing.T, productID int64) int {
	t.Helper()
	p, err := e.products.Get(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func TestCreateOrderReservesStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "A1", 5)

	created, err := env.service.CreateOrder(ctx, CreateOrderInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, 2, env.stock(t, p.ID))
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "A1", 5)

	_, err := env.service.CreateOrder(ctx, CreateOrderInput{ProductID: p.ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = env.service.CreateOrder(ctx, CreateOrderInput{ProductID: 404, Quantity: 1})
	assert.ErrorIs(t, err, domprod.ErrNotFound)

	assert.Equal(t, 5, env.stock(t, p.ID), "failed creations leave stock untouched")

	orders, err := env.service.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders, "failed creations leave no order behind")
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "A1", 5)

	_, err := env.service.CreateOrder(ctx, CreateOrderInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = env.service.CreateOrder(ctx, CreateOrderInput{ProductID: p.ID, Quantity: 3})
	var insufficient *domprod.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 2, env.stock(t, p.ID))
}

func TestCancelRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "A1", 5)

	created, err := env.service.CreateOrder(ctx, CreateOrderInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, 2, env.stock(t, p.ID))

	canceled, err := env.service.CancelOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, canceled.Status)
	assert.Equal(t, 5, env.stock(t, p.ID))
}

func TestCancelPaidOrderRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "A1", 5)

	created, err := env.service.CreateOrder(ctx, CreateOrderInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = env.service.UpdateStatus(ctx, created.ID, domain.StatusPaid)
	require.NoError(t, err)

	_, err = env.service.CancelOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, env.stock(t, p.ID))
}

func TestShippedStockIsNotReturned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "A1", 5)

	created, err := env.service.CreateOrder(ctx, CreateOrderInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.service.UpdateStatus(ctx, created.ID, domain.StatusPaid)
	require.NoError(t, err)
	_, err = env.service.UpdateStatus(ctx, created.ID, domain.StatusShipped)
	require.NoError(t, err)

	_, err = env.service.CancelOrder(ctx, created.ID)
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 3, env.stock(t, p.ID), "shipped inventory stays reserved")
}

func TestStatusMonotonicity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "A1", 10)

	created, err := env.service.CreateOrder(ctx, CreateOrderInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	canceled, err := env.service.CancelOrder(ctx, created.ID)
	require.NoError(t, err)

	for _, next := range []domain.Status{domain.StatusPending, domain.StatusPaid, domain.StatusShipped, domain.StatusCanceled} {
		_, err := env.service.UpdateStatus(ctx, canceled.ID, next)
		var invalid *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &invalid, "CANCELED -> %s must fail", next)
	}
}

func TestDeleteOrderGatedOnCanceled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "A1", 5)

	created, err := env.service.CreateOrder(ctx, CreateOrderInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, env.service.DeleteOrder(ctx, created.ID), domain.ErrNotCanceled)

	_, err = env.service.CancelOrder(ctx, created.ID)
	require.NoError(t, err)
	require.NoError(t, env.service.DeleteOrder(ctx, created.ID))

	assert.ErrorIs(t, env.service.DeleteOrder(ctx, created.ID), domain.ErrNotFound)
}

// Stock conservation: initial stock always equals current stock plus the
// quantities held by orders in non-canceled states.
func TestStockConservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	const initial = 20
	p := env.seedProduct(t, "A1", initial)

	var created []int64
	for _, qty := range []int{3, 1, 5, 2, 4} {
		o, err := env.service.CreateOrder(ctx, CreateOrderInput{ProductID: p.ID, Quantity: qty})
		require.NoError(t, err)
		created = append(created, o.ID)
	}

	_, err := env.service.UpdateStatus(ctx, created[0], domain.StatusPaid)
	require.NoError(t, err)
	_, err = env.service.UpdateStatus(ctx, created[0], domain.StatusShipped)
	require.NoError(t, err)
	_, err = env.service.CancelOrder(ctx, created[1])
	require.NoError(t, err)
	_, err = env.service.CancelOrder(ctx, created[3])
	require.NoError(t, err)

	reserved := 0
	orders, err := env.service.ListOrders(ctx)
	require.NoError(t, err)
	for _, o := range orders {
		if o.Status != domain.StatusCanceled {
			reserved += o.Quantity
		}
	}
	assert.Equal(t, initial, env.stock(t, p.ID)+reserved)
}

// Concurrent callers racing for the last units must never oversell.
func TestConcurrentCreateOrderNoOversell(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	const stock = 5
	const workers = 32
	p := env.seedProduct(t, "A1", stock)

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.service.CreateOrder(ctx, CreateOrderInput{ProductID: p.ID, Quantity: 1})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			var insufficient *domprod.InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
		}
	}
	assert.Equal(t, stock, succeeded)
	assert.Equal(t, 0, env.stock(t, p.ID))

	orders, err := env.service.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, stock)
}
