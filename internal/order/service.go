package order

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/pickzo/pickzo-client/internal/notify"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrNotCancellable  = errors.New("only placed orders can be cancelled")
	ErrNotReorderable  = errors.New("only cancelled orders can be reordered")
	ErrNothingSelected = errors.New("no orders selected")
	ErrNoPendingAction = errors.New("no action awaiting confirmation")
	ErrActionPending   = errors.New("another action is awaiting confirmation")
)

type ActionKind int

const (
	ActionCancel ActionKind = iota
	ActionReorder
	ActionBulkDelete
)

// PendingAction is what the confirmation prompt shows: the kind, the
// target order for single-order actions, and the selection size for a
// bulk delete.
type PendingAction struct {
	Kind    ActionKind
	OrderID string
	Count   int
}

type actionState int

const (
	stateIdle actionState = iota
	stateAwaitingConfirmation
	stateInFlight
)

// Service holds the mirrored order list, the selection set, and the one
// pending destructive action. Destructive actions are two-phase: a
// Request* call parks the action awaiting confirmation, Confirm fires
// it, and only a successful outcome re-fetches the list in full. The
// list is never patched partially.
type Service struct {
	mu       sync.Mutex
	gw       Gateway
	notes    *notify.Channel
	log      *slog.Logger
	orders   []Order
	selected map[string]struct{}
	state    actionState
	pending  PendingAction
}

func NewService(gw Gateway, notes *notify.Channel, log *slog.Logger) *Service {
	return &Service{
		gw:       gw,
		notes:    notes,
		log:      log,
		selected: make(map[string]struct{}),
	}
}

// Refresh replaces the mirrored list wholesale and clears the
// selection. On failure the previous list is kept.
func (s *Service) Refresh(ctx context.Context) error {
	orders, err := s.gw.List(ctx)
	if err != nil {
		s.log.Debug("orders refresh failed", "err", err)
		s.notes.Errorf("Could not load orders.")
		return err
	}

	s.mu.Lock()
	s.orders = orders
	s.selected = make(map[string]struct{})
	s.mu.Unlock()
	return nil
}

func (s *Service) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Service) ToggleSelect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	if s.findLocked(id) != nil {
		s.selected[id] = struct{}{}
	}
}

// SelectAll selects every order, or clears the selection when
// everything is already selected.
func (s *Service) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) == len(s.orders) && len(s.orders) > 0 {
		s.selected = make(map[string]struct{})
		return
	}
	for _, ord := range s.orders {
		s.selected[ord.ID] = struct{}{}
	}
}

func (s *Service) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	return ids
}

// RequestCancel parks a cancel action for confirmation. Only a Placed
// order can be cancelled.
func (s *Service) RequestCancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateIdle {
		return ErrActionPending
	}
	ord := s.findLocked(id)
	if ord == nil {
		return ErrNotFound
	}
	if ord.Status != StatusPlaced {
		return ErrNotCancellable
	}
	s.state = stateAwaitingConfirmation
	s.pending = PendingAction{Kind: ActionCancel, OrderID: id}
	return nil
}

// RequestReorder parks a reorder action. Only a Cancelled order can be
// re-placed.
func (s *Service) RequestReorder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateIdle {
		return ErrActionPending
	}
	ord := s.findLocked(id)
	if ord == nil {
		return ErrNotFound
	}
	if ord.Status != StatusCancelled {
		return ErrNotReorderable
	}
	s.state = stateAwaitingConfirmation
	s.pending = PendingAction{Kind: ActionReorder, OrderID: id}
	return nil
}

// RequestBulkDelete parks a delete of the current selection. An empty
// selection is rejected locally with one notification and zero network
// calls.
func (s *Service) RequestBulkDelete() error {
	s.mu.Lock()
	if s.state != stateIdle {
		s.mu.Unlock()
		return ErrActionPending
	}
	count := len(s.selected)
	if count == 0 {
		s.mu.Unlock()
		s.notes.Errorf("No orders selected to delete.")
		return ErrNothingSelected
	}
	s.state = stateAwaitingConfirmation
	s.pending = PendingAction{Kind: ActionBulkDelete, Count: count}
	s.mu.Unlock()
	return nil
}

// Pending returns the action awaiting confirmation, if any.
func (s *Service) Pending() (PendingAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, s.state == stateAwaitingConfirmation
}

// Dismiss abandons the pending action and returns to idle.
func (s *Service) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateAwaitingConfirmation {
		s.state = stateIdle
		s.pending = PendingAction{}
	}
}

// Confirm fires the pending action. Only on success is the order list
// re-fetched in full and the selection cleared; a failure leaves the
// mirrored list untouched. Either outcome returns the controller to
// idle.
func (s *Service) Confirm(ctx context.Context) error {
	s.mu.Lock()
	if s.state != stateAwaitingConfirmation {
		s.mu.Unlock()
		return ErrNoPendingAction
	}
	action := s.pending
	var ids []string
	if action.Kind == ActionBulkDelete {
		for id := range s.selected {
			ids = append(ids, id)
		}
	}
	s.state = stateInFlight
	s.mu.Unlock()

	var err error
	var success string
	switch action.Kind {
	case ActionCancel:
		err = s.gw.Cancel(ctx, action.OrderID)
		success = "Order cancelled successfully!"
	case ActionReorder:
		err = s.gw.Reorder(ctx, action.OrderID)
		success = "Reorder placed successfully!"
	case ActionBulkDelete:
		err = s.gw.BulkDelete(ctx, ids)
		success = "Selected order(s) deleted successfully!"
	}

	s.mu.Lock()
	s.state = stateIdle
	s.pending = PendingAction{}
	s.mu.Unlock()

	if err != nil {
		s.log.Debug("order action failed", "kind", int(action.Kind), "err", err)
		if action.Kind == ActionBulkDelete {
			s.notes.Errorf("Failed to delete selected order(s). Please try again.")
		} else {
			s.notes.Errorf("Operation failed. Please try again.")
		}
		return err
	}

	s.notes.Successf(success)
	return s.Refresh(ctx)
}

func (s *Service) findLocked(id string) *Order {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return &s.orders[i]
		}
	}
	return nil
}
