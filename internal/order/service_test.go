package order

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/pickzo/pickzo-client/internal/notify"
)

type fakeGateway struct {
	orders      []Order
	fail        bool
	listCalls   int
	actionCalls int
	deletedIDs  []string
}

var errFake = errors.New("boom")

func (f *fakeGateway) List(ctx context.Context) ([]Order, error) {
	f.listCalls++
	if f.fail {
		return nil, errFake
	}
	return append([]Order(nil), f.orders...), nil
}

func (f *fakeGateway) Cancel(ctx context.Context, id string) error {
	f.actionCalls++
	if f.fail {
		return errFake
	}
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = StatusCancelled
		}
	}
	return nil
}

func (f *fakeGateway) Reorder(ctx context.Context, id string) error {
	f.actionCalls++
	if f.fail {
		return errFake
	}
	f.orders = append(f.orders, Order{ID: id + "-replay", Status: StatusPlaced})
	return nil
}

func (f *fakeGateway) BulkDelete(ctx context.Context, ids []string) error {
	f.actionCalls++
	if f.fail {
		return errFake
	}
	f.deletedIDs = append([]string(nil), ids...)
	doomed := map[string]struct{}{}
	for _, id := range ids {
		doomed[id] = struct{}{}
	}
	kept := f.orders[:0]
	for _, ord := range f.orders {
		if _, gone := doomed[ord.ID]; !gone {
			kept = append(kept, ord)
		}
	}
	f.orders = kept
	return nil
}

func seededService(t *testing.T, orders []Order) (*Service, *fakeGateway, *notify.Channel) {
	t.Helper()
	gw := &fakeGateway{orders: orders}
	notes := notify.New(time.Hour)
	svc := NewService(gw, notes, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return svc, gw, notes
}

func threeOrders() []Order {
	return []Order{
		{ID: "o1", Status: StatusPlaced, TotalAmount: 100},
		{ID: "o2", Status: StatusCancelled, TotalAmount: 200},
		{ID: "o3", Status: StatusPlaced, TotalAmount: 300},
	}
}

func TestBulkDeleteEmptySelection(t *testing.T) {
	svc, gw, notes := seededService(t, threeOrders())
	before := gw.actionCalls + gw.listCalls

	if err := svc.RequestBulkDelete(); !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
	if gw.actionCalls+gw.listCalls != before {
		t.Fatalf("empty-selection delete must issue zero network calls")
	}
	msg := notes.Current()
	if msg == nil || msg.Kind != notify.Error {
		t.Fatalf("expected exactly one error notification, got %+v", msg)
	}
	if _, pending := svc.Pending(); pending {
		t.Fatalf("controller must stay idle")
	}
}

func TestBulkDeleteTwoOfThree(t *testing.T) {
	svc, gw, _ := seededService(t, threeOrders())

	svc.ToggleSelect("o1")
	svc.ToggleSelect("o2")
	if err := svc.RequestBulkDelete(); err != nil {
		t.Fatalf("RequestBulkDelete: %v", err)
	}

	pending, ok := svc.Pending()
	if !ok || pending.Kind != ActionBulkDelete || pending.Count != 2 {
		t.Fatalf("unexpected pending action %+v ok=%v", pending, ok)
	}

	if err := svc.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if gw.actionCalls != 1 {
		t.Fatalf("expected exactly one bulk-delete call, got %d", gw.actionCalls)
	}
	sort.Strings(gw.deletedIDs)
	if len(gw.deletedIDs) != 2 || gw.deletedIDs[0] != "o1" || gw.deletedIDs[1] != "o2" {
		t.Fatalf("unexpected deleted ids %v", gw.deletedIDs)
	}

	// success re-fetches the list in full and clears the selection
	orders := svc.Orders()
	if len(orders) != 1 || orders[0].ID != "o3" {
		t.Fatalf("expected refreshed list with o3 only, got %+v", orders)
	}
	if len(svc.Selection()) != 0 {
		t.Fatalf("expected selection cleared after success")
	}
}

func TestCancelLifecycle(t *testing.T) {
	svc, _, notes := seededService(t, threeOrders())

	if err := svc.RequestCancel("o2"); !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("cancelled order must not be cancellable, got %v", err)
	}
	if err := svc.RequestCancel("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.RequestCancel("o1"); err != nil {
		t.Fatalf("RequestCancel: %v", err)
	}
	// a second request while one is parked is rejected
	if err := svc.RequestCancel("o3"); !errors.Is(err, ErrActionPending) {
		t.Fatalf("expected ErrActionPending, got %v", err)
	}

	if err := svc.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	for _, ord := range svc.Orders() {
		if ord.ID == "o1" && ord.Status != StatusCancelled {
			t.Fatalf("expected o1 cancelled after refresh, got %s", ord.Status)
		}
	}
	msg := notes.Current()
	if msg == nil || msg.Kind != notify.Success {
		t.Fatalf("expected success notification, got %+v", msg)
	}

	// terminal outcome returned the controller to idle
	if _, pending := svc.Pending(); pending {
		t.Fatalf("expected idle after confirm")
	}
}

func TestDismissAbandonsPendingAction(t *testing.T) {
	svc, gw, _ := seededService(t, threeOrders())

	if err := svc.RequestReorder("o2"); err != nil {
		t.Fatalf("RequestReorder: %v", err)
	}
	svc.Dismiss()
	if _, pending := svc.Pending(); pending {
		t.Fatalf("expected idle after dismiss")
	}
	if err := svc.Confirm(context.Background()); !errors.Is(err, ErrNoPendingAction) {
		t.Fatalf("expected ErrNoPendingAction, got %v", err)
	}
	if gw.actionCalls != 0 {
		t.Fatalf("dismissed action must never reach the network")
	}
}

func TestReorderRequiresCancelledSource(t *testing.T) {
	svc, _, _ := seededService(t, threeOrders())
	if err := svc.RequestReorder("o1"); !errors.Is(err, ErrNotReorderable) {
		t.Fatalf("expected ErrNotReorderable for a placed order, got %v", err)
	}
}

func TestFailedActionLeavesListUntouched(t *testing.T) {
	svc, gw, notes := seededService(t, threeOrders())

	svc.ToggleSelect("o1")
	if err := svc.RequestBulkDelete(); err != nil {
		t.Fatalf("RequestBulkDelete: %v", err)
	}

	gw.fail = true
	if err := svc.Confirm(context.Background()); err == nil {
		t.Fatalf("expected confirm failure")
	}
	if len(svc.Orders()) != 3 {
		t.Fatalf("failed action must not touch the mirrored list")
	}
	msg := notes.Current()
	if msg == nil || msg.Kind != notify.Error {
		t.Fatalf("expected error notification, got %+v", msg)
	}
	if _, pending := svc.Pending(); pending {
		t.Fatalf("failure must still return to idle")
	}
}

func TestSelectAllTogglesEverything(t *testing.T) {
	svc, _, _ := seededService(t, threeOrders())

	svc.SelectAll()
	if len(svc.Selection()) != 3 {
		t.Fatalf("expected all selected, got %v", svc.Selection())
	}
	// selecting all again clears
	svc.SelectAll()
	if len(svc.Selection()) != 0 {
		t.Fatalf("expected selection cleared, got %v", svc.Selection())
	}

	svc.ToggleSelect("missing")
	if len(svc.Selection()) != 0 {
		t.Fatalf("unknown ids must not be selectable")
	}
}

func TestRefreshFailureKeepsList(t *testing.T) {
	svc, gw, _ := seededService(t, threeOrders())
	gw.fail = true
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh failure")
	}
	if len(svc.Orders()) != 3 {
		t.Fatalf("failed refresh must keep the previous list")
	}
}
