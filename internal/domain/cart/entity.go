// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// CartItem represents one distinct product line in the cart
type CartItem struct {
	ID       int     `json:"id"` // product id, unique within the cart
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"imageUrl"`
}

// Snapshot is the persisted shape of a session's cart. Every mutation writes
// a full snapshot to durable storage; a reload rehydrates from it.
type Snapshot struct {
	SessionID string     `json:"sessionId"`
	CartItems []CartItem `json:"cartItems"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Totals represents calculated cart totals. They are recomputed on every
// read; the client-side subtotal here excludes shipping and tax, which only
// the commerce platform's estimate knows.
type Totals struct {
	ItemCount     int     `json:"itemCount"`     // Number of unique lines
	TotalQuantity int     `json:"totalQuantity"` // Sum of all quantities
	TotalPrice    float64 `json:"totalPrice"`    // Sum of price × quantity
}

// Totals computes the snapshot's derived totals
func (s *Snapshot) Totals() Totals {
	var totals Totals

	totals.ItemCount = len(s.CartItems)
	for _, item := range s.CartItems {
		totals.TotalQuantity += item.Quantity
		totals.TotalPrice += item.Price * float64(item.Quantity)
	}

	return totals
}

// Find returns the line with the given product id, or nil
func (s *Snapshot) Find(productID int) *CartItem {
	for i := range s.CartItems {
		if s.CartItems[i].ID == productID {
			return &s.CartItems[i]
		}
	}
	return nil
}
