package cart

import (
	"context"
	"net/url"

	"github.com/pickzo/pickzo-client/internal/api"
)

type HTTPGateway struct {
	client *api.Client
}

func NewHTTPGateway(c *api.Client) *HTTPGateway {
	return &HTTPGateway{client: c}
}

// cartEnvelope is the {"cartItems": [...]} wrapper the API uses.
type cartEnvelope struct {
	CartItems []wireCartItem `json:"cartItems"`
}

// wireCartItem tolerates both flat items and items nesting the product.
type wireCartItem struct {
	MongoID   string  `json:"_id"`
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
	Product   *struct {
		MongoID string  `json:"_id"`
		ID      string  `json:"id"`
		Title   string  `json:"title"`
		Name    string  `json:"name"`
		Price   float64 `json:"price"`
		Image   string  `json:"image"`
	} `json:"product"`
}

func (w wireCartItem) normalize() CartItem {
	item := CartItem{
		ID:        firstNonEmpty(w.MongoID, w.ID),
		ProductID: w.ProductID,
		Title:     firstNonEmpty(w.Title, w.Name),
		Price:     w.Price,
		Quantity:  w.Quantity,
		Image:     w.Image,
	}
	if w.Product != nil {
		if item.ProductID == "" {
			item.ProductID = firstNonEmpty(w.Product.MongoID, w.Product.ID)
		}
		if item.Title == "" {
			item.Title = firstNonEmpty(w.Product.Title, w.Product.Name)
		}
		if item.Price == 0 {
			item.Price = w.Product.Price
		}
		if item.Image == "" {
			item.Image = w.Product.Image
		}
	}
	return item
}

func normalizeAll(payload []wireCartItem) []CartItem {
	items := make([]CartItem, 0, len(payload))
	for _, w := range payload {
		items = append(items, w.normalize())
	}
	return items
}

func (g *HTTPGateway) Fetch(ctx context.Context) ([]CartItem, error) {
	var payload cartEnvelope
	if err := g.client.Get(ctx, "/cart", &payload); err != nil {
		return nil, err
	}
	return normalizeAll(payload.CartItems), nil
}

func (g *HTTPGateway) Add(ctx context.Context, productID string, quantity int) ([]CartItem, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	var payload cartEnvelope
	if err := g.client.Post(ctx, "/cart/add", body, &payload); err != nil {
		return nil, err
	}
	return normalizeAll(payload.CartItems), nil
}

func (g *HTTPGateway) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	body := map[string]any{"itemId": itemID, "quantity": quantity}
	return g.client.Put(ctx, "/cart/update-quantity", body, nil)
}

func (g *HTTPGateway) Remove(ctx context.Context, itemID string) error {
	return g.client.Delete(ctx, "/cart/remove/"+url.PathEscape(itemID), nil, nil)
}

func (g *HTTPGateway) Clear(ctx context.Context) error {
	return g.client.Delete(ctx, "/cart", nil, nil)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
