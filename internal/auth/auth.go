// Package auth exchanges credentials for a session and owns the
// session lifecycle rules: created on successful login, cleared on
// logout or on a server-signaled expiry.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/pickzo/pickzo-client/internal/api"
	"github.com/pickzo/pickzo-client/internal/notify"
	"github.com/pickzo/pickzo-client/internal/session"
)

var ErrMissingCredentials = errors.New("identifier and password are required")

type Gateway interface {
	Login(ctx context.Context, identifier, password string) (session.Session, error)
}

type Service struct {
	gw       Gateway
	sessions *session.Store
	notes    *notify.Channel
	log      *slog.Logger
}

func NewService(gw Gateway, sessions *session.Store, notes *notify.Channel, log *slog.Logger) *Service {
	return &Service{gw: gw, sessions: sessions, notes: notes, log: log}
}

// Login authenticates and persists the resulting session.
func (s *Service) Login(ctx context.Context, identifier, password string) (session.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return session.Session{}, ErrMissingCredentials
	}

	sess, err := s.gw.Login(ctx, identifier, password)
	if err != nil {
		s.notes.Errorf(loginFailureMessage(err))
		return session.Session{}, err
	}
	if err := s.sessions.Set(sess); err != nil {
		return session.Session{}, err
	}
	s.log.Debug("logged in", "user", sess.UserID)
	s.notes.Successf("Login successful")
	return sess, nil
}

// Logout removes the persisted credential. Other processes watching
// the session pick this up as the logout signal.
func (s *Service) Logout() error {
	return s.sessions.Clear()
}

func loginFailureMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && !apiErr.ServerFault() && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, api.ErrUnauthenticated) {
		return "Invalid email or password"
	}
	return "Login failed"
}
