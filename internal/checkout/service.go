package checkout

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pickzo/pickzo-client/internal/api"
	"github.com/pickzo/pickzo-client/internal/cart"
	"github.com/pickzo/pickzo-client/internal/notify"
	"github.com/pickzo/pickzo-client/internal/order"
	"github.com/pickzo/pickzo-client/internal/session"
)

var (
	ErrNoItems        = errors.New("order has no items")
	ErrEmptyAddress   = errors.New("address is required")
	ErrInvalidPhone   = errors.New("valid 10-digit phone number is required")
	ErrUnknownPayment = errors.New("unknown payment method")
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

type Gateway interface {
	Place(ctx context.Context, req Request) (Receipt, error)
}

// Service places orders. Validation happens before any network call;
// a rejected request never leaves the process.
type Service struct {
	gw       Gateway
	sessions *session.Store
	notes    *notify.Channel
	log      *slog.Logger
}

func NewService(gw Gateway, sessions *session.Store, notes *notify.Channel, log *slog.Logger) *Service {
	return &Service{gw: gw, sessions: sessions, notes: notes, log: log}
}

func (s *Service) PlaceOrder(ctx context.Context, req Request) (Receipt, error) {
	if _, ok := s.sessions.Load(); !ok {
		s.notes.Errorf("Please login before buying.")
		return Receipt{}, api.ErrUnauthenticated
	}
	if err := validate(req); err != nil {
		return Receipt{}, err
	}

	receipt, err := s.gw.Place(ctx, req)
	if err != nil {
		s.log.Debug("order placement failed", "err", err)
		s.notes.Errorf(failureMessage(err))
		return Receipt{}, err
	}
	s.notes.Successf("Order placed successfully!")
	return receipt, nil
}

// FromCart builds a request covering the whole cart view.
func FromCart(items []cart.CartItem, address, phone string, method order.PaymentMethod) Request {
	req := Request{Address: address, Phone: phone, PaymentMethod: method}
	for _, it := range items {
		req.Items = append(req.Items, Item{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
		req.TotalAmount += it.Price * float64(it.Quantity)
	}
	return req
}

func validate(req Request) error {
	if len(req.Items) == 0 {
		return ErrNoItems
	}
	if strings.TrimSpace(req.Address) == "" {
		return ErrEmptyAddress
	}
	if !phonePattern.MatchString(strings.TrimSpace(req.Phone)) {
		return ErrInvalidPhone
	}
	if !order.ValidPaymentMethod(req.PaymentMethod) {
		return ErrUnknownPayment
	}
	return nil
}

func failureMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && !apiErr.ServerFault() && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Order failed. Try again."
}
