package session

import (
	"errors"

	"github.com/pickzo/pickzo-client/internal/localstore"
)

const storeKey = "session"

var ErrIncomplete = errors.New("session is missing token, user id or display name")

// Store persists the session in local storage. There is no expiry
// timer; an expired token is detected reactively from a 401 response.
type Store struct {
	local *localstore.Store
}

func NewStore(local *localstore.Store) *Store {
	return &Store{local: local}
}

// Load returns the persisted session. The second return is false when
// no session exists, meaning the unauthenticated view.
func (st *Store) Load() (Session, bool) {
	var s Session
	ok, err := st.local.Get(storeKey, &s)
	if err != nil || !ok || !s.Complete() {
		return Session{}, false
	}
	return s, true
}

func (st *Store) Set(s Session) error {
	if !s.Complete() {
		return ErrIncomplete
	}
	return st.local.Set(storeKey, s)
}

func (st *Store) Clear() error {
	return st.local.Delete(storeKey)
}

// Token implements the bearer token source used by the HTTP client.
func (st *Store) Token() (string, bool) {
	s, ok := st.Load()
	if !ok {
		return "", false
	}
	return s.Token, true
}

// OnExternalChange subscribes to session changes made by other
// processes. The callback receives the session as it now stands; ok is
// false when the credential has been removed, which callers treat as a
// logout signal and reload their view.
func (st *Store) OnExternalChange(fn func(s Session, ok bool)) (func(), error) {
	return st.local.Watch(storeKey, func() {
		s, ok := st.Load()
		fn(s, ok)
	})
}
