// Package history keeps the capped, newest-first list of past shortenings
// as one JSON blob under one storage key.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MikhailRaia/shortify/internal/model"
	"github.com/MikhailRaia/shortify/internal/storage"
)

const (
	// DefaultKey is the storage key of the history blob.
	DefaultKey = "shortifyHistory"

	// DefaultLimit caps the number of remembered links.
	DefaultLimit = 10
)

// History reads and rewrites one history blob.
type History struct {
	store storage.Store
	key   string
	limit int
	now   func() time.Time
}

// Option configures a History.
type Option func(*History)

// WithLimit overrides the number of entries kept.
func WithLimit(limit int) Option {
	return func(h *History) {
		if limit > 0 {
			h.limit = limit
		}
	}
}

// WithClock overrides the clock used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(h *History) {
		h.now = now
	}
}

// New creates a History stored under key.
func New(store storage.Store, key string, opts ...Option) *History {
	h := &History{
		store: store,
		key:   key,
		limit: DefaultLimit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Key returns the storage key of this history, for callers scoping it per client.
func Key(namespace string) string {
	if namespace == "" {
		return DefaultKey
	}
	return DefaultKey + ":" + namespace
}

// Limit returns the maximum number of entries kept.
func (h *History) Limit() int {
	return h.limit
}

// Load returns the stored entries, newest first. A missing or unreadable
// blob yields an empty history.
func (h *History) Load(ctx context.Context) ([]model.HistoryEntry, error) {
	raw, found, err := h.store.Get(ctx, h.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if !found || raw == "" {
		return []model.HistoryEntry{}, nil
	}

	var entries []model.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Warn().Err(err).Str("key", h.key).Msg("Discarding unreadable history")
		return []model.HistoryEntry{}, nil
	}

	if len(entries) > h.limit {
		entries = entries[:h.limit]
	}

	return entries, nil
}

// Add puts link at the front, truncates to the limit and persists the result.
// Entries are never deduplicated.
func (h *History) Add(ctx context.Context, link model.Link) ([]model.HistoryEntry, error) {
	entries, err := h.Load(ctx)
	if err != nil {
		return nil, err
	}

	updated := make([]model.HistoryEntry, 0, len(entries)+1)
	updated = append(updated, model.NewHistoryEntry(link, h.now()))
	updated = append(updated, entries...)
	if len(updated) > h.limit {
		updated = updated[:h.limit]
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := h.store.Set(ctx, h.key, string(data)); err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}

	return updated, nil
}

// Clear drops the whole history.
func (h *History) Clear(ctx context.Context) error {
	if err := h.store.Delete(ctx, h.key); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
