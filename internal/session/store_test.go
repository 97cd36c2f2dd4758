package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corops/cordash/internal/domain"
)

func sampleSession() domain.Session {
	return domain.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         &domain.User{Username: "ana"},
	}
}

func TestMemoryStoreSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store := Bound(NewMemoryStore(), "sid-1")

	// Absent session loads as empty, not as an error.
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Empty())

	want := sampleSession()
	require.NoError(t, store.Save(ctx, want))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, loaded)

	// Load returns exactly the last-saved values.
	renewed := want.WithAccessToken("renewed")
	require.NoError(t, store.Save(ctx, renewed))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, renewed, loaded)
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	store := Bound(NewMemoryStore(), "sid-1")

	require.NoError(t, store.Save(ctx, sampleSession()))
	require.NoError(t, store.Clear(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Empty(), "cleared session must have no access, refresh or user")

	// Clearing again is a no-op.
	require.NoError(t, store.Clear(ctx))
}

func TestBoundStoreIsolation(t *testing.T) {
	ctx := context.Background()
	keyed := NewMemoryStore()

	a := Bound(keyed, "sid-a")
	b := Bound(keyed, "sid-b")

	require.NoError(t, a.Save(ctx, sampleSession()))

	loaded, err := b.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Empty(), "sessions must not leak between cookie IDs")
}

func TestBoundStoreRejectsInconsistentSession(t *testing.T) {
	ctx := context.Background()
	store := Bound(NewMemoryStore(), "sid-1")

	err := store.Save(ctx, domain.Session{AccessToken: "tok"})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ValidationError, domainErr.Type)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	keyed := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("sid-%d", i%4)
			store := Bound(keyed, id)
			_ = store.Save(ctx, sampleSession())
			s, err := store.Load(ctx)
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			// A load observes either nothing or a complete record.
			if !s.Empty() && s.Validate() != nil {
				t.Errorf("observed partially written session: %+v", s)
			}
			_ = store.Clear(ctx)
		}(i)
	}
	wg.Wait()
}
