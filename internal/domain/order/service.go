// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/your-org/bookshop-storefront/internal/infrastructure/storage"
)

// sessionTTL bounds how long an abandoned draft survives in storage
const sessionTTL = 24 * time.Hour

// Subscriber is notified after every draft mutation, once the new snapshot
// has been persisted
type Subscriber func(sessionID string, snapshot *Snapshot)

// Service accumulates partial order information across checkout steps and
// exposes it for validation, estimation, and final submission
type Service struct {
	store storage.Store

	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewService creates a new order draft service
func NewService(store storage.Store) *Service {
	return &Service{
		store: store,
	}
}

// Subscribe registers a subscriber for draft mutations
func (s *Service) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Get retrieves the session's draft and progress, rehydrating from storage.
// A session without a stored snapshot gets the documented defaults.
func (s *Service) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for order draft")
	}

	var snapshot Snapshot
	err := s.store.Load(ctx, draftKey(sessionID), &snapshot)
	if err == storage.ErrNotFound {
		return &Snapshot{
			SessionID:    sessionID,
			Order:        DefaultDraft(),
			ProgressStep: ProgressStep{Current: 0},
			UpdatedAt:    time.Now().UTC(),
		}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to retrieve order draft: %w", err)
	}

	return &snapshot, nil
}

// SetOrder shallow-merges the patch into the current draft. Field values are
// not validated here; the checkout flow validates at transition time.
func (s *Service) SetOrder(ctx context.Context, sessionID string, patch DraftPatch) (*Snapshot, error) {
	snapshot, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	snapshot.Order.apply(patch)

	if err := s.save(ctx, sessionID, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// SetProgressStep stores the current wizard position, clamped to the valid
// step range
func (s *Service) SetProgressStep(ctx context.Context, sessionID string, step int) (*Snapshot, error) {
	snapshot, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if step < 0 {
		step = 0
	}
	if step > MaxProgressStep {
		step = MaxProgressStep
	}
	snapshot.ProgressStep.Current = step

	if err := s.save(ctx, sessionID, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ResetOrder restores all fields to defaults and progress to step 0,
// regardless of prior state
func (s *Service) ResetOrder(ctx context.Context, sessionID string) (*Snapshot, error) {
	snapshot := &Snapshot{
		SessionID:    sessionID,
		Order:        DefaultDraft(),
		ProgressStep: ProgressStep{Current: 0},
	}

	if err := s.save(ctx, sessionID, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *Service) save(ctx context.Context, sessionID string, snapshot *Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, draftKey(sessionID), snapshot, sessionTTL); err != nil {
		return fmt.Errorf("failed to persist order draft: %w", err)
	}

	s.mu.RLock()
	subscribers := s.subscribers
	s.mu.RUnlock()

	for _, fn := range subscribers {
		fn(sessionID, snapshot)
	}
	return nil
}

func draftKey(sessionID string) string {
	return fmt.Sprintf("order:session:%s", sessionID)
}
