package memory

import (
	"context"
	"testing"

	domain "github.com/mak6096-commits/orders-inventory/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOrder(t *testing.T, productID int64, quantity int) *domain.Order {
	t.Helper()
	o, err := domain.New(productID, quantity)
	require.NoError(t, err)
	return o
}

func TestOrderInsertGetDelete(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, mustOrder(t, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderUpdate(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, mustOrder(t, 1, 3))
	require.NoError(t, err)

	require.NoError(t, created.Transition(domain.StatusPaid))
	require.NoError(t, repo.Update(ctx, created))

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status)

	ghost := mustOrder(t, 1, 1)
	ghost.ID = 99
	assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrNotFound)
}

func TestOrderListByProduct(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	for _, productID := range []int64{1, 2, 1, 3, 1} {
		_, err := repo.Insert(ctx, mustOrder(t, productID, 1))
		require.NoError(t, err)
	}

	matched, err := repo.ListByProduct(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, matched, 3)
	for _, o := range matched {
		assert.Equal(t, int64(1), o.ProductID)
	}

	none, err := repo.ListByProduct(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, none)
}
