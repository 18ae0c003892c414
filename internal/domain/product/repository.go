package product

import "context"

type Repository interface {
	// Insert stores a new product, allocating its id. The stored copy is returned.
	Insert(ctx context.Context, p *Product) (*Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	// List returns a snapshot of all products in insertion order.
	List(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}
