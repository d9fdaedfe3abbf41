package checkout

import (
	"context"

	"github.com/pickzo/pickzo-client/internal/api"
)

type HTTPGateway struct {
	client *api.Client
}

func NewHTTPGateway(c *api.Client) *HTTPGateway {
	return &HTTPGateway{client: c}
}

func (g *HTTPGateway) Place(ctx context.Context, req Request) (Receipt, error) {
	var payload struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := g.client.Post(ctx, "/orders/buy", req, &payload); err != nil {
		return Receipt{}, err
	}
	id := payload.MongoID
	if id == "" {
		id = payload.ID
	}
	return Receipt{OrderID: id}, nil
}
