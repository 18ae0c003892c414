package order

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	statuses := []Status{StatusPending, StatusPaid, StatusShipped, StatusCanceled}
	legal := map[Status]map[Status]bool{
		StatusPending: {StatusPaid: true, StatusCanceled: true},
		StatusPaid:    {StatusShipped: true, StatusCanceled: true},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := legal[from][to]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionMutatesStatus(t *testing.T) {
	o, err := New(1, 2)
	require.NoError(t, err)
	require.Equal(t, StatusPending, o.Status)

	require.NoError(t, o.Transition(StatusPaid))
	assert.Equal(t, StatusPaid, o.Status)

	require.NoError(t, o.Transition(StatusShipped))
	assert.Equal(t, StatusShipped, o.Status)
}

func TestTransitionRejected(t *testing.T) {
	o, err := New(1, 2)
	require.NoError(t, err)

	err = o.Transition(StatusShipped)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StatusPending, invalid.From)
	assert.Equal(t, StatusShipped, invalid.To)
	assert.Equal(t, StatusPending, o.Status, "failed transition must not mutate status")
}

func TestTerminalStates(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusPaid.Terminal())
	assert.True(t, StatusShipped.Terminal())
	assert.True(t, StatusCanceled.Terminal())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("PAID")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, status)

	_, err = ParseStatus("paid")
	assert.True(t, errors.Is(err, ErrUnknownStatus))

	_, err = ParseStatus("REFUNDED")
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestNewValidation(t *testing.T) {
	_, err := New(1, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = New(1, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = New(0, 1)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	o, err := New(7, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), o.ProductID)
	assert.Equal(t, 3, o.Quantity)
	assert.False(t, o.CreatedAt.IsZero())
}
