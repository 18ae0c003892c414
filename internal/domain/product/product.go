package product

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("product: not found")
	ErrSKUExists       = errors.New("product: sku already in use")
	ErrInvalidSKU      = errors.New("product: sku is required")
	ErrInvalidPrice    = errors.New("product: price must be greater than zero")
	ErrInvalidStock    = errors.New("product: stock must be zero or greater")
	ErrInvalidQuantity = errors.New("product: quantity must be greater than zero")
	ErrHasActiveOrders = errors.New("product: referenced by pending or paid orders")
)

// InsufficientStockError reports a reservation that exceeds the available stock.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product: insufficient stock: available %d, requested %d", e.Available, e.Requested)
}

type Product struct {
	ID    int64
	SKU   string
	Name  string
	Price float64
	Stock int
}

func New(sku, name string, price float64, stock int) (*Product, error) {
	if sku == "" {
		return nil, ErrInvalidSKU
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	return &Product{
		SKU:   sku,
		Name:  name,
		Price: price,
		Stock: stock,
	}, nil
}

// Reserve removes quantity units from stock, failing if not enough are available.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.Stock {
		return &InsufficientStockError{Available: p.Stock, Requested: quantity}
	}
	p.Stock -= quantity
	return nil
}

// Restock returns previously reserved units to stock.
func (p *Product) Restock(quantity int) {
	if quantity <= 0 {
		return
	}
	p.Stock += quantity
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Patch enumerates the updatable product fields. Nil fields are left untouched;
// each supplied field is validated independently.
type Patch struct {
	SKU   *string
	Name  *string
	Price *float64
	Stock *int
}

func (p *Product) Apply(patch Patch) error {
	if patch.SKU != nil && *patch.SKU == "" {
		return ErrInvalidSKU
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return ErrInvalidPrice
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return ErrInvalidStock
	}

	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	return nil
}
