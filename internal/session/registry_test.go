package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikhailRaia/shortify/internal/clipboard"
	"github.com/MikhailRaia/shortify/internal/history"
	"github.com/MikhailRaia/shortify/internal/model"
	"github.com/MikhailRaia/shortify/internal/storage/memory"
	"github.com/MikhailRaia/shortify/internal/ui"
)

type stubShortener struct{}

func (stubShortener) Shorten(_ context.Context, longURL string) (model.Link, error) {
	return model.Link{ShortCode: "abc123", LongURL: longURL}, nil
}

func newFactory(t *testing.T) (Factory, *memory.Storage) {
	t.Helper()
	store := memory.NewStorage()
	return func(clientID string) *ui.Controller {
		h := history.New(store, history.Key(clientID))
		return ui.NewController(stubShortener{}, h, clipboard.NewMemory(), "http://localhost:8080")
	}, store
}

func TestRegistry_GetCreatesOncePerClient(t *testing.T) {
	factory, _ := newFactory(t)
	r := NewRegistry(factory, time.Minute)
	t.Cleanup(r.Close)

	first, created := r.Get("client-a")
	assert.True(t, created)

	again, created := r.Get("client-a")
	assert.False(t, created)
	assert.Same(t, first, again)

	other, _ := r.Get("client-b")
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_HistoryIsolatedPerClient(t *testing.T) {
	factory, _ := newFactory(t)
	r := NewRegistry(factory, time.Minute)
	t.Cleanup(r.Close)
	ctx := context.Background()

	a, _ := r.Get("client-a")
	require.NoError(t, a.Dispatch(ctx, ui.Event{Type: ui.EventSubmit, Value: "https://example.com"}))

	b, _ := r.Get("client-b")
	require.NoError(t, b.Dispatch(ctx, ui.Event{Type: ui.EventLoad}))

	assert.Len(t, a.View().History, 1)
	assert.Empty(t, b.View().History)
}

func TestRegistry_CleanupEvictsIdle(t *testing.T) {
	factory, store := newFactory(t)
	r := NewRegistry(factory, time.Minute)
	t.Cleanup(r.Close)

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	a, _ := r.Get("client-a")
	require.NoError(t, a.Dispatch(context.Background(), ui.Event{Type: ui.EventSubmit, Value: "https://example.com"}))

	now = now.Add(30 * time.Second)
	r.Get("client-b")

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, r.Cleanup())
	assert.Equal(t, 1, r.Len())

	restored, created := r.Get("client-a")
	assert.True(t, created)
	require.NoError(t, restored.Dispatch(context.Background(), ui.Event{Type: ui.EventLoad}))
	assert.Len(t, restored.View().History, 1, "history survives eviction in %d keys", store.Len())
}

func TestRegistry_CleanupLoopStops(t *testing.T) {
	factory, _ := newFactory(t)
	r := NewRegistry(factory, time.Nanosecond)

	r.Get("client-a")

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		r.CleanupLoop(5*time.Millisecond, stop)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)

	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
