package cart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pickzo/pickzo-client/internal/api"
	"github.com/pickzo/pickzo-client/internal/localstore"
	"github.com/pickzo/pickzo-client/internal/notify"
	"github.com/pickzo/pickzo-client/internal/session"
)

// fakeGateway is an in-memory cart of record. Every method counts its
// calls so tests can assert that rejected operations never reach the
// network.
type fakeGateway struct {
	items []CartItem
	fail  bool
	calls int
}

var errFake = errors.New("boom")

func (f *fakeGateway) Fetch(ctx context.Context) ([]CartItem, error) {
	f.calls++
	if f.fail {
		return nil, errFake
	}
	return append([]CartItem(nil), f.items...), nil
}

func (f *fakeGateway) Add(ctx context.Context, productID string, qty int) ([]CartItem, error) {
	f.calls++
	if f.fail {
		return nil, errFake
	}
	f.items = append(f.items, CartItem{ID: "i-" + productID, ProductID: productID, Title: productID, Price: 10, Quantity: qty})
	return append([]CartItem(nil), f.items...), nil
}

func (f *fakeGateway) UpdateQuantity(ctx context.Context, itemID string, qty int) error {
	f.calls++
	if f.fail {
		return errFake
	}
	for i := range f.items {
		if f.items[i].ID == itemID {
			f.items[i].Quantity = qty
		}
	}
	return nil
}

func (f *fakeGateway) Remove(ctx context.Context, itemID string) error {
	f.calls++
	if f.fail {
		return errFake
	}
	return nil
}

func (f *fakeGateway) Clear(ctx context.Context) error {
	f.calls++
	if f.fail {
		return errFake
	}
	f.items = nil
	return nil
}

func testStores(t *testing.T, loggedIn bool) (*session.Store, *Snapshot) {
	t.Helper()
	local, err := localstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("localstore: %v", err)
	}
	sessions := session.NewStore(local)
	if loggedIn {
		if err := sessions.Set(session.Session{Token: "tok", UserID: "u1", DisplayName: "Demo"}); err != nil {
			t.Fatalf("session set: %v", err)
		}
	}
	return sessions, NewSnapshot(local)
}

func newTestService(t *testing.T, gw Gateway, loggedIn bool) (*Service, *notify.Channel) {
	t.Helper()
	sessions, snap := testStores(t, loggedIn)
	notes := notify.New(time.Hour)
	return NewService(gw, sessions, notes, snap, slog.New(slog.NewTextHandler(io.Discard, nil))), notes
}

func TestRefreshReplacesView(t *testing.T) {
	gw := &fakeGateway{items: []CartItem{{ID: "a", Title: "Thing", Price: 100, Quantity: 2}}}
	svc, _ := newTestService(t, gw, true)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	items := svc.Items()
	if len(items) != 1 || items[0].ID != "a" || items[0].Quantity != 2 {
		t.Fatalf("unexpected view %+v", items)
	}
	if svc.Total() != 200 {
		t.Fatalf("expected total 200, got %v", svc.Total())
	}
}

func TestRefreshFailureKeepsPreviousView(t *testing.T) {
	gw := &fakeGateway{items: []CartItem{{ID: "a", Price: 100, Quantity: 2}}}
	svc, notes := newTestService(t, gw, true)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	gw.fail = true
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh failure")
	}
	if len(svc.Items()) != 1 {
		t.Fatalf("failed refresh must not clobber the view: %+v", svc.Items())
	}
	msg := notes.Current()
	if msg == nil || msg.Kind != notify.Error {
		t.Fatalf("expected an error notification, got %+v", msg)
	}
}

func TestAddWithoutSessionIssuesNoCall(t *testing.T) {
	gw := &fakeGateway{}
	svc, notes := newTestService(t, gw, false)

	err := svc.Add(context.Background(), "p1", 1)
	if !errors.Is(err, api.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("expected zero network calls, got %d", gw.calls)
	}
	msg := notes.Current()
	if msg == nil || msg.Kind != notify.Error {
		t.Fatalf("expected an error notification, got %+v", msg)
	}
}

func TestAddAppliesServerRepresentation(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw, true)

	if err := svc.Add(context.Background(), "p1", 2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	items := svc.Items()
	if len(items) != 1 || items[0].ProductID != "p1" || items[0].Quantity != 2 {
		t.Fatalf("unexpected view %+v", items)
	}
}

func TestDecrementFromOneIsLocalNoop(t *testing.T) {
	gw := &fakeGateway{items: []CartItem{{ID: "a", Price: 100, Quantity: 1}}}
	svc, _ := newTestService(t, gw, true)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	before := gw.calls

	if err := svc.ChangeQuantity(context.Background(), "a", 0); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if gw.calls != before {
		t.Fatalf("no-op must not issue a network call")
	}
	if svc.Items()[0].Quantity != 1 {
		t.Fatalf("quantity must stay 1, got %d", svc.Items()[0].Quantity)
	}
}

func TestQuantityChangeConfirmThenApply(t *testing.T) {
	gw := &fakeGateway{items: []CartItem{{ID: "a", Price: 100, Quantity: 2}}}
	svc, notes := newTestService(t, gw, true)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// success: the requested quantity lands in the view, total follows
	if err := svc.ChangeQuantity(context.Background(), "a", 3); err != nil {
		t.Fatalf("ChangeQuantity: %v", err)
	}
	if got := svc.Items()[0].Quantity; got != 3 {
		t.Fatalf("expected quantity 3, got %d", got)
	}
	if svc.Total() != 300 {
		t.Fatalf("expected total 300, got %v", svc.Total())
	}

	// failure: the view is untouched and an error notification fires
	gw.fail = true
	if err := svc.ChangeQuantity(context.Background(), "a", 4); err == nil {
		t.Fatalf("expected failure")
	}
	if got := svc.Items()[0].Quantity; got != 3 {
		t.Fatalf("failed update must not change the view, got %d", got)
	}
	msg := notes.Current()
	if msg == nil || msg.Kind != notify.Error {
		t.Fatalf("expected an error notification, got %+v", msg)
	}
}

func TestRemoveDropsLineOnlyOnSuccess(t *testing.T) {
	gw := &fakeGateway{items: []CartItem{{ID: "a", Quantity: 1}, {ID: "b", Quantity: 1}}}
	svc, _ := newTestService(t, gw, true)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	gw.fail = true
	if err := svc.Remove(context.Background(), "a"); err == nil {
		t.Fatalf("expected failure")
	}
	if svc.Len() != 2 {
		t.Fatalf("failed remove must keep the line, have %d", svc.Len())
	}

	gw.fail = false
	if err := svc.Remove(context.Background(), "a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	items := svc.Items()
	if len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("unexpected view after remove %+v", items)
	}
}

func TestClearEmptyCartIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw, true)

	if err := svc.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("clearing an empty cart must not issue a call")
	}
}

func TestSnapshotSurvivesRestart(t *testing.T) {
	local, err := localstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("localstore: %v", err)
	}
	sessions := session.NewStore(local)
	if err := sessions.Set(session.Session{Token: "tok", UserID: "u1", DisplayName: "Demo"}); err != nil {
		t.Fatalf("session set: %v", err)
	}
	notes := notify.New(time.Hour)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	gw := &fakeGateway{items: []CartItem{{ID: "a", Title: "Thing", Price: 50, Quantity: 2}}}
	first := NewService(gw, sessions, notes, NewSnapshot(local), log)
	if err := first.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// a new service over the same state dir renders the snapshot
	// before any network call
	second := NewService(&fakeGateway{}, sessions, notes, NewSnapshot(local), log)
	items := second.Items()
	if len(items) != 1 || items[0].ID != "a" || items[0].Quantity != 2 {
		t.Fatalf("expected snapshot view, got %+v", items)
	}

	second.ResetLocal()
	third := NewService(&fakeGateway{}, sessions, notes, NewSnapshot(local), log)
	if len(third.Items()) != 0 {
		t.Fatalf("expected empty view after local reset")
	}
}
