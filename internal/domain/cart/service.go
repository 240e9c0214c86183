// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/your-org/bookshop-storefront/internal/infrastructure/storage"
)

// sessionTTL bounds how long an untouched cart survives in storage
const sessionTTL = 24 * time.Hour

// Subscriber is notified after every cart mutation, once the new snapshot
// has been persisted
type Subscriber func(sessionID string, snapshot *Snapshot)

// Service maintains the authoritative, persisted set of items each session
// intends to purchase
type Service struct {
	store storage.Store

	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewService creates a new cart service
func NewService(store storage.Store) *Service {
	return &Service{
		store: store,
	}
}

// Subscribe registers a subscriber for cart mutations
func (s *Service) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// GetCart retrieves the session's cart, rehydrating from storage. A session
// without a stored snapshot gets an empty cart, not an error.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*Snapshot, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart")
	}

	var snapshot Snapshot
	err := s.store.Load(ctx, cartKey(sessionID), &snapshot)
	if err == storage.ErrNotFound {
		now := time.Now().UTC()
		return &Snapshot{
			SessionID: sessionID,
			CartItems: []CartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	return &snapshot, nil
}

// AddToCart adds an item to the cart. If a line with the same product id
// already exists its quantity is increased by the incoming quantity;
// otherwise a new line is inserted. A non-positive incoming quantity
// defaults to 1.
func (s *Service) AddToCart(ctx context.Context, sessionID string, item CartItem) (*Snapshot, error) {
	snapshot, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	if existing := snapshot.Find(item.ID); existing != nil {
		existing.Quantity += quantity
	} else {
		item.Quantity = quantity
		snapshot.CartItems = append(snapshot.CartItems, item)
	}

	if err := s.save(ctx, sessionID, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line. An absent product id is a no-op, not an error.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, productID, quantity int) (*Snapshot, error) {
	snapshot, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	changed := false
	for i := range snapshot.CartItems {
		if snapshot.CartItems[i].ID != productID {
			continue
		}
		if quantity <= 0 {
			snapshot.CartItems = append(snapshot.CartItems[:i], snapshot.CartItems[i+1:]...)
		} else {
			snapshot.CartItems[i].Quantity = quantity
		}
		changed = true
		break
	}

	if !changed {
		return snapshot, nil
	}

	if err := s.save(ctx, sessionID, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// RemoveFromCart deletes the line with the given product id
func (s *Service) RemoveFromCart(ctx context.Context, sessionID string, productID int) (*Snapshot, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, 0)
}

// ClearCart empties the cart, invoked after successful order placement
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, cartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	now := time.Now().UTC()
	s.notify(sessionID, &Snapshot{
		SessionID: sessionID,
		CartItems: []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	return nil
}

func (s *Service) save(ctx context.Context, sessionID string, snapshot *Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, cartKey(sessionID), snapshot, sessionTTL); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	s.notify(sessionID, snapshot)
	return nil
}

func (s *Service) notify(sessionID string, snapshot *Snapshot) {
	s.mu.RLock()
	subscribers := s.subscribers
	s.mu.RUnlock()

	for _, fn := range subscribers {
		fn(sessionID, snapshot)
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}
