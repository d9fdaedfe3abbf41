package product

import (
	"context"
	"errors"
	"net/url"

	"github.com/pickzo/pickzo-client/internal/api"
)

// HTTPGateway reads the catalog endpoints through the shared client.
type HTTPGateway struct {
	client *api.Client
}

func NewHTTPGateway(c *api.Client) *HTTPGateway {
	return &HTTPGateway{client: c}
}

func (g *HTTPGateway) List(ctx context.Context, search string) ([]Product, error) {
	path := "/products"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}

	var payload []wireProduct
	if err := g.client.Get(ctx, path, &payload); err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(payload))
	for _, w := range payload {
		products = append(products, w.normalize())
	}
	return products, nil
}

func (g *HTTPGateway) Get(ctx context.Context, id string) (Product, error) {
	var payload wireProduct
	if err := g.client.Get(ctx, "/products/"+url.PathEscape(id), &payload); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == 404 {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return payload.normalize(), nil
}

// wireProduct tolerates the divergent shapes the API serves.
type wireProduct struct {
	MongoID     string  `json:"_id"`
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

func (w wireProduct) normalize() Product {
	id := w.MongoID
	if id == "" {
		id = w.ID
	}
	title := w.Title
	if title == "" {
		title = w.Name
	}
	return Product{
		ID:          id,
		Title:       title,
		Name:        w.Name,
		Price:       w.Price,
		Description: w.Description,
		Image:       w.Image,
		Category:    w.Category,
	}
}
