package auth

import (
	"context"
	"errors"

	"github.com/pickzo/pickzo-client/internal/api"
	"github.com/pickzo/pickzo-client/internal/session"
)

type HTTPGateway struct {
	client *api.Client
}

func NewHTTPGateway(c *api.Client) *HTTPGateway {
	return &HTTPGateway{client: c}
}

func (g *HTTPGateway) Login(ctx context.Context, identifier, password string) (session.Session, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	var payload struct {
		Token string `json:"token"`
		User  struct {
			MongoID string `json:"_id"`
			ID      string `json:"id"`
			Name    string `json:"name"`
			Email   string `json:"email"`
		} `json:"user"`
	}
	if err := g.client.Post(ctx, "/auth/login", body, &payload); err != nil {
		return session.Session{}, err
	}

	userID := payload.User.MongoID
	if userID == "" {
		userID = payload.User.ID
	}
	name := payload.User.Name
	if name == "" {
		name = payload.User.Email
	}
	if payload.Token == "" || userID == "" {
		return session.Session{}, errors.New("auth: invalid login response")
	}
	return session.Session{Token: payload.Token, UserID: userID, DisplayName: name}, nil
}
