package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pickzo/pickzo-client/internal/api"
	"github.com/pickzo/pickzo-client/internal/notify"
	"github.com/pickzo/pickzo-client/internal/session"
)

// Service reconciles the local cart view with the server's cart of
// record. Every mutation is confirm-then-apply: the view changes only
// after the server acknowledged, so it can never drift ahead of the
// authoritative state. A failed call leaves the view exactly as it was
// and surfaces one error notification.
type Service struct {
	mu       sync.Mutex
	gw       Gateway
	sessions *session.Store
	notes    *notify.Channel
	snap     *Snapshot
	log      *slog.Logger
	items    []CartItem
}

func NewService(gw Gateway, sessions *session.Store, notes *notify.Channel, snap *Snapshot, log *slog.Logger) *Service {
	s := &Service{gw: gw, sessions: sessions, notes: notes, snap: snap, log: log}
	if snap != nil {
		// pre-network render from the last known snapshot
		s.items = snap.Load()
	}
	return s
}

// Refresh replaces the view with the server cart. On failure the
// previous view is kept.
func (s *Service) Refresh(ctx context.Context) error {
	items, err := s.gw.Fetch(ctx)
	if err != nil {
		s.log.Debug("cart refresh failed", "err", err)
		s.notes.Errorf("Failed to load cart items. Please try again.")
		return err
	}
	s.replace(items)
	return nil
}

// Add requires an active session; without one no request is issued and
// the caller redirects to login. On success the server's returned cart
// replaces the view.
func (s *Service) Add(ctx context.Context, productID string, quantity int) error {
	if _, ok := s.sessions.Load(); !ok {
		s.notes.Errorf("Please login to add to cart.")
		return api.ErrUnauthenticated
	}
	if quantity < 1 {
		quantity = 1
	}

	items, err := s.gw.Add(ctx, productID, quantity)
	if err != nil {
		s.notes.Errorf("Failed to add to cart. Please try again.")
		return err
	}
	s.replace(items)
	s.notes.Successf("Product added to cart!")
	return nil
}

// ChangeQuantity sends the new quantity and applies it on success only.
// A target below 1 is a local no-op: no request, no error, the quantity
// shown never drops under 1.
func (s *Service) ChangeQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	if err := s.gw.UpdateQuantity(ctx, itemID, quantity); err != nil {
		s.notes.Errorf("Failed to update quantity.")
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.saveSnapshotLocked()
	s.mu.Unlock()
	return nil
}

// Remove deletes server-side first, then drops the line from the view.
func (s *Service) Remove(ctx context.Context, itemID string) error {
	if err := s.gw.Remove(ctx, itemID); err != nil {
		s.notes.Errorf("Failed to remove item.")
		return err
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.saveSnapshotLocked()
	s.mu.Unlock()
	return nil
}

// Clear is a no-op when the cart is already empty.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	empty := len(s.items) == 0
	s.mu.Unlock()
	if empty {
		return nil
	}

	if err := s.gw.Clear(ctx); err != nil {
		s.notes.Errorf("Failed to clear cart. Please try again.")
		return err
	}
	s.replace(nil)
	return nil
}

// Items returns a copy of the current view.
func (s *Service) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total is recomputed on every call, never cached; carts are small.
func (s *Service) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Len returns the number of lines in the view.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// ResetLocal drops the view and the snapshot without touching the
// server. Used on logout.
func (s *Service) ResetLocal() {
	s.mu.Lock()
	s.items = nil
	if s.snap != nil {
		s.snap.Clear()
	}
	s.mu.Unlock()
}

func (s *Service) replace(items []CartItem) {
	s.mu.Lock()
	s.items = items
	s.saveSnapshotLocked()
	s.mu.Unlock()
}

func (s *Service) saveSnapshotLocked() {
	if s.snap != nil {
		s.snap.Save(s.items)
	}
}
