package cart

import "github.com/pickzo/pickzo-client/internal/localstore"

const snapshotKey = "cart"

// Snapshot mirrors the cart view into local storage so the client can
// render something before the first network round trip. The server
// stays authoritative: the snapshot is replaced wholesale after every
// refresh and acknowledged mutation, never merged.
type Snapshot struct {
	local *localstore.Store
}

func NewSnapshot(local *localstore.Store) *Snapshot {
	return &Snapshot{local: local}
}

func (s *Snapshot) Load() []CartItem {
	var items []CartItem
	ok, err := s.local.Get(snapshotKey, &items)
	if err != nil || !ok {
		return nil
	}
	return items
}

func (s *Snapshot) Save(items []CartItem) {
	// best effort; a failed snapshot write never fails the mutation
	_ = s.local.Set(snapshotKey, items)
}

func (s *Snapshot) Clear() {
	_ = s.local.Delete(snapshotKey)
}
