package order

import (
	"context"
	"net/url"
	"time"

	"github.com/pickzo/pickzo-client/internal/api"
)

type HTTPGateway struct {
	client *api.Client
}

func NewHTTPGateway(c *api.Client) *HTTPGateway {
	return &HTTPGateway{client: c}
}

// wireOrder tolerates items carrying the title directly or nested under
// product. Normalization happens here, once, at the boundary.
type wireOrder struct {
	MongoID       string  `json:"_id"`
	ID            string  `json:"id"`
	TotalAmount   float64 `json:"totalAmount"`
	Address       string  `json:"address"`
	PaymentMethod string  `json:"paymentMethod"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
	Items         []struct {
		Title    string `json:"title"`
		Quantity int    `json:"quantity"`
		Product  *struct {
			MongoID string `json:"_id"`
			ID      string `json:"id"`
			Title   string `json:"title"`
			Name    string `json:"name"`
		} `json:"product"`
		ProductID string `json:"productId"`
	} `json:"items"`
}

func (w wireOrder) normalize() Order {
	ord := Order{
		ID:            w.MongoID,
		TotalAmount:   w.TotalAmount,
		Address:       w.Address,
		PaymentMethod: PaymentMethod(w.PaymentMethod),
		Status:        Status(w.Status),
	}
	if ord.ID == "" {
		ord.ID = w.ID
	}
	if w.CreatedAt != "" {
		// tolerate both RFC3339 and its fractional variant; an
		// unparseable timestamp renders as the zero time
		if t, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
			ord.CreatedAt = t
		}
	}
	ord.Items = make([]OrderItem, 0, len(w.Items))
	for _, it := range w.Items {
		item := OrderItem{Title: it.Title, Quantity: it.Quantity, ProductID: it.ProductID}
		if it.Product != nil {
			if item.Title == "" {
				item.Title = it.Product.Title
			}
			if item.Title == "" {
				item.Title = it.Product.Name
			}
			if item.ProductID == "" {
				item.ProductID = it.Product.MongoID
			}
			if item.ProductID == "" {
				item.ProductID = it.Product.ID
			}
		}
		if item.Title == "" {
			item.Title = "No Title"
		}
		ord.Items = append(ord.Items, item)
	}
	return ord
}

func (g *HTTPGateway) List(ctx context.Context) ([]Order, error) {
	var payload []wireOrder
	if err := g.client.Get(ctx, "/orders", &payload); err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(payload))
	for _, w := range payload {
		orders = append(orders, w.normalize())
	}
	return orders, nil
}

func (g *HTTPGateway) Cancel(ctx context.Context, id string) error {
	return g.client.Put(ctx, "/orders/cancel/"+url.PathEscape(id), nil, nil)
}

func (g *HTTPGateway) Reorder(ctx context.Context, id string) error {
	return g.client.Post(ctx, "/orders/reorder/"+url.PathEscape(id), nil, nil)
}

func (g *HTTPGateway) BulkDelete(ctx context.Context, ids []string) error {
	return g.client.Delete(ctx, "/orders/delete", map[string]any{"orderIds": ids}, nil)
}
