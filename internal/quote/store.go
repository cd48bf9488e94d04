package quote

import (
	"context"
	"time"
)

// LineItem carries a point-in-time copy of the product's name and price.
// Deleting or repricing the catalog product later does not touch it.
type LineItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

// Quote is immutable after creation; the only mutation is deletion.
// Total is computed once at creation, never recomputed.
type Quote struct {
	ID        string     `json:"id"`
	Client    string     `json:"client"`
	Notes     string     `json:"notes"`
	Items     []LineItem `json:"items"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Store interface {
	// List returns all quotes in insertion order.
	List(ctx context.Context) ([]Quote, error)
	Create(ctx context.Context, q Quote) error
	// Get reports false when no quote has the id.
	Get(ctx context.Context, id string) (Quote, bool, error)
	// Delete reports false when no quote has the id.
	Delete(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}
