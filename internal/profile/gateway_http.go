package profile

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

func (g *HTTPGateway) Get(ctx context.Context) (Profile, error) {
	var p Profile
	if err := g.client.Get(ctx, "/users/profile", &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (g *HTTPGateway) Update(ctx context.Context, p Profile) (Profile, error) {
	var updated Profile
	if err := g.client.Put(ctx, "/users/profile", p, &updated); err != nil {
		return Profile{}, err
	}
	return updated, nil
}
