package order

import "context"

// Repository is pure storage for orders. Insertion is driven exclusively by
// the order service; it carries no business rules of its own.
type Repository interface {
	// Insert stores a new order, allocating its id. The stored copy is returned.
	Insert(ctx context.Context, o *Order) (*Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	// List returns a snapshot of all orders in insertion order.
	List(ctx context.Context) ([]*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id int64) error
	ListByProduct(ctx context.Context, productID int64) ([]*Order, error)
}
