// Package session persists the authenticated operator's credentials across
// restarts and page loads. The web server keeps one record per browser
// session (memory or redis), the CLI keeps a single record on disk.
package session

import (
	"context"

	"github.com/corops/cordash/internal/domain"
)

// Store reads and writes one session record. Load of an absent record
// returns an empty session and no error; absence is a valid state, not a
// failure. Save persists all fields in one step so a concurrent Load never
// observes a partially written record.
type Store interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}

// KeyedStore holds many session records addressed by an opaque ID. The web
// server binds one key per browser cookie.
type KeyedStore interface {
	LoadKey(ctx context.Context, id string) (domain.Session, error)
	SaveKey(ctx context.Context, id string, s domain.Session) error
	ClearKey(ctx context.Context, id string) error
}

// Bound adapts a KeyedStore to the single-record Store interface by fixing
// the key.
func Bound(keyed KeyedStore, id string) Store {
	return &boundStore{keyed: keyed, id: id}
}

type boundStore struct {
	keyed KeyedStore
	id    string
}

func (b *boundStore) Load(ctx context.Context) (domain.Session, error) {
	return b.keyed.LoadKey(ctx, b.id)
}

func (b *boundStore) Save(ctx context.Context, s domain.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return b.keyed.SaveKey(ctx, b.id, s)
}

func (b *boundStore) Clear(ctx context.Context) error {
	return b.keyed.ClearKey(ctx, b.id)
}
