package product

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("product not found")

// Gateway describes the catalog operations of the remote API.
type Gateway interface {
	List(ctx context.Context, search string) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
}

// Service provides read-only catalog browsing. No session is required.
type Service struct {
	gw Gateway
}

func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

func (s *Service) List(ctx context.Context, search string) ([]Product, error) {
	return s.gw.List(ctx, strings.TrimSpace(search))
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if strings.TrimSpace(id) == "" {
		return Product{}, ErrNotFound
	}
	return s.gw.Get(ctx, id)
}
