package catalog

import (
	"context"
	"time"
)

// Product is a catalog entry. ID and CreatedAt are assigned at creation
// and never change.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	Name        *string
	Price       *float64
	Description *string
}

type Store interface {
	// List returns all products in insertion order.
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, p Product) error
	// Update applies the patch and returns the updated product.
	// The bool is false when no product has the id.
	Update(ctx context.Context, id string, patch Patch) (Product, bool, error)
	// Delete reports false when no product has the id.
	Delete(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}
