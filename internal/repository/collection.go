// Package repository provides seeded, persisted CRUD access to the entity
// kinds, each stored as one JSON document under its namespaced key.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/starford/fms/internal/apperr"
	"github.com/starford/fms/internal/substrate"
)

// Entity is anything with a stable string identity.
type Entity interface {
	EntityID() string
}

// Collection is an ordered list of entities persisted under one key.
//
// Reads never fail: when the substrate is unavailable or the key has not been
// seeded, the compiled-in defaults are returned. Writes to an unavailable
// substrate are silently dropped.
type Collection[E Entity] struct {
	sub      substrate.Substrate
	key      string
	defaults []byte // JSON-encoded default dataset
	logger   *slog.Logger

	mu sync.Mutex
}

// NewCollection creates a collection over sub. defaults are copied.
func NewCollection[E Entity](sub substrate.Substrate, key string, defaults []E, logger *slog.Logger) *Collection[E] {
	if defaults == nil {
		defaults = []E{}
	}
	raw, err := json.Marshal(defaults)
	if err != nil {
		// Defaults are compiled in; failing to encode them is a programming error.
		panic(fmt.Sprintf("repository: encode defaults for %s: %v", key, err))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[E]{sub: sub, key: key, defaults: raw, logger: logger}
}

// Key returns the namespaced persistence key.
func (c *Collection[E]) Key() string { return c.key }

// EnsureSeeded writes the defaults if nothing is stored under the key yet.
// Calling it any number of times leaves the same stored collection as
// calling it once.
func (c *Collection[E]) EnsureSeeded(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.sub.Get(ctx, c.key)
	switch {
	case err == nil, errors.Is(err, substrate.ErrUnavailable):
		return nil
	case errors.Is(err, substrate.ErrNotFound):
		c.logger.Info("repository: seeding defaults", slog.String("key", c.key))
		return c.writeRaw(ctx, c.defaults)
	default:
		return fmt.Errorf("repository: seed %s: %w", c.key, err)
	}
}

// List returns the whole collection in stored order.
func (c *Collection[E]) List(ctx context.Context) []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Get looks an entity up by id.
func (c *Collection[E]) Get(ctx context.Context, id string) (E, bool) {
	for _, e := range c.List(ctx) {
		if e.EntityID() == id {
			return e, true
		}
	}
	var zero E
	return zero, false
}

// Upsert replaces the entity with the same id in place, or inserts e at the
// head of the collection. The collection is written back in one call.
func (c *Collection[E]) Upsert(ctx context.Context, e E) error {
	if strings.TrimSpace(e.EntityID()) == "" {
		return fmt.Errorf("repository: upsert %s: empty id: %w", c.key, apperr.ErrInvalidInput)
	}
	return c.mutate(ctx, func(items []E) ([]E, error) {
		for i := range items {
			if items[i].EntityID() == e.EntityID() {
				items[i] = e
				return items, nil
			}
		}
		return append([]E{e}, items...), nil
	})
}

// UpsertIf reads the entity stored under id and passes it to fn, with found
// reporting whether it exists. The entity fn returns is upserted; an error
// from fn aborts the write. The read, fn and the write happen under one lock,
// so fn must not call back into the collection.
func (c *Collection[E]) UpsertIf(ctx context.Context, id string, fn func(cur E, found bool) (E, error)) (E, error) {
	var written E
	if strings.TrimSpace(id) == "" {
		return written, fmt.Errorf("repository: upsert %s: empty id: %w", c.key, apperr.ErrInvalidInput)
	}
	err := c.mutate(ctx, func(items []E) ([]E, error) {
		idx := -1
		var cur E
		for i := range items {
			if items[i].EntityID() == id {
				idx, cur = i, items[i]
				break
			}
		}
		next, err := fn(cur, idx >= 0)
		if err != nil {
			return nil, err
		}
		if next.EntityID() != id {
			return nil, fmt.Errorf("repository: upsert %s: id changed from %q to %q: %w", c.key, id, next.EntityID(), apperr.ErrInvalidInput)
		}
		written = next
		if idx >= 0 {
			items[idx] = next
			return items, nil
		}
		return append([]E{next}, items...), nil
	})
	if err != nil {
		var zero E
		return zero, err
	}
	return written, nil
}

// mutate applies fn to the current collection and persists the result.
// The lock is held for the whole read-modify-write.
func (c *Collection[E]) mutate(ctx context.Context, fn func([]E) ([]E, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fn(c.load(ctx))
	if err != nil {
		return err
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("repository: encode %s: %w", c.key, err)
	}
	return c.writeRaw(ctx, raw)
}

// load must be called with c.mu held.
func (c *Collection[E]) load(ctx context.Context) []E {
	data, err := c.sub.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, substrate.ErrUnavailable) && !errors.Is(err, substrate.ErrNotFound) {
			c.logger.Warn("repository: read failed, serving defaults",
				slog.String("key", c.key), slog.String("error", err.Error()))
		}
		return c.cloneDefaults()
	}

	var items []E
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("repository: corrupt collection, reseeding defaults",
			slog.String("key", c.key), slog.String("error", err.Error()))
		if werr := c.writeRaw(ctx, c.defaults); werr != nil {
			c.logger.Error("repository: reseed failed",
				slog.String("key", c.key), slog.String("error", werr.Error()))
		}
		return c.cloneDefaults()
	}
	if items == nil {
		items = []E{}
	}
	return items
}

func (c *Collection[E]) cloneDefaults() []E {
	var out []E
	// Round-tripped from bytes so callers never share memory with the defaults.
	_ = json.Unmarshal(c.defaults, &out)
	if out == nil {
		out = []E{}
	}
	return out
}

func (c *Collection[E]) writeRaw(ctx context.Context, raw []byte) error {
	if err := c.sub.Set(ctx, c.key, raw); err != nil {
		if errors.Is(err, substrate.ErrUnavailable) {
			return nil
		}
		return fmt.Errorf("repository: write %s: %w", c.key, err)
	}
	return nil
}
