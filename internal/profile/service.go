package profile

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pickzo/pickzo-client/internal/api"
	"github.com/pickzo/pickzo-client/internal/notify"
	"github.com/pickzo/pickzo-client/internal/session"
)

var (
	ErrInvalidPhone = errors.New("phone must be exactly 10 digits")
	ErrInvalidEmail = errors.New("malformed email address")
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type Gateway interface {
	Get(ctx context.Context) (Profile, error)
	Update(ctx context.Context, p Profile) (Profile, error)
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

func (s *Service) Get(ctx context.Context) (Profile, error) {
	p, err := s.gw.Get(ctx)
	if err != nil {
		return Profile{}, s.translate(err)
	}
	return p, nil
}

// Update validates locally first; a malformed field never reaches the
// network.
func (s *Service) Update(ctx context.Context, p Profile) (Profile, error) {
	if phone := strings.TrimSpace(p.Phone); phone != "" && !phonePattern.MatchString(phone) {
		return Profile{}, ErrInvalidPhone
	}
	if email := strings.TrimSpace(p.Email); email != "" && !emailPattern.MatchString(email) {
		return Profile{}, ErrInvalidEmail
	}

	updated, err := s.gw.Update(ctx, p)
	if err != nil {
		if !errors.Is(err, api.ErrUnauthenticated) {
			s.notes.Errorf("Failed to update profile. Please try again.")
		}
		return Profile{}, s.translate(err)
	}
	s.notes.Successf("Profile updated successfully!")
	return updated, nil
}

// translate makes session expiry fatal to the current view: the stored
// credential is cleared and the caller redirects to login.
func (s *Service) translate(err error) error {
	if errors.Is(err, api.ErrUnauthenticated) {
		s.log.Debug("session expired")
		_ = s.sessions.Clear()
		s.notes.Errorf("Session expired. Please login again.")
	}
	return err
}
