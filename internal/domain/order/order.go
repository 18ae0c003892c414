package order

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("order: not found")
	ErrInvalidQuantity = errors.New("order: quantity must be greater than zero")
	ErrInvalidProduct  = errors.New("order: product id is required")
	ErrNotCanceled     = errors.New("order: only canceled orders can be deleted")
)

type Order struct {
	ID        int64
	ProductID int64
	Quantity  int
	Status    Status
	CreatedAt time.Time
}

func New(productID int64, quantity int) (*Order, error) {
	if productID <= 0 {
		return nil, ErrInvalidProduct
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &Order{
		ProductID: productID,
		Quantity:  quantity,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Transition advances the order along the status graph, rejecting moves
// that are not in the legal transition table.
func (o *Order) Transition(next Status) error {
	if !o.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: o.Status, To: next}
	}
	o.Status = next
	return nil
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}
