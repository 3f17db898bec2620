// Package store keeps the client side copies of the resume and job
// collections. A store is the only writer of its collection and refreshes it
// by reloading everything after a mutation.
package store

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/screener/internal/screening"
)

// Item is anything addressable by a server assigned identifier.
type Item interface {
	Key() screening.ID
}

type LoadFunc[T Item] func(ctx context.Context) ([]T, error)

type Option func(*options)

type options struct {
	optimistic bool
}

// WithOptimisticPatch applies creates and deletes locally before the
// reconciling reload.
func WithOptimisticPatch(enabled bool) Option {
	return func(o *options) {
		o.optimistic = enabled
	}
}

type Collection[T Item] struct {
	name   string
	load   LoadFunc[T]
	logger *zap.Logger
	opts   options

	mu     sync.RWMutex
	items  []T
	loaded bool
	// issued and applied order overlapping loads; an older load never
	// overwrites a newer one.
	issued  uint64
	applied uint64
}

func NewCollection[T Item](name string, load LoadFunc[T], logger *zap.Logger, opts ...Option) *Collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Collection[T]{
		name:   name,
		load:   load,
		logger: logger.With(zap.String("store", name)),
		opts:   o,
		items:  []T{},
	}
}

// LoadAll fetches and replaces the whole collection. On failure the previous
// collection is kept and returned along with the error.
func (c *Collection[T]) LoadAll(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	items, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Warn("loading collection failed, keeping previous",
			zap.Error(err),
			zap.Int("retained", len(c.items)),
		)
		return slices.Clone(c.items), err
	}

	if seq <= c.applied {
		c.logger.Debug("discarding stale load", zap.Uint64("seq", seq), zap.Uint64("applied", c.applied))
		return slices.Clone(c.items), nil
	}

	if items == nil {
		items = []T{}
	}
	c.items = slices.Clone(items)
	c.loaded = true
	c.applied = seq

	c.logger.Debug("collection loaded", zap.Int("count", len(c.items)))

	return slices.Clone(c.items), nil
}

// AfterMutation refreshes the collection. Call it only once the mutating
// request has succeeded.
func (c *Collection[T]) AfterMutation(ctx context.Context) error {
	_, err := c.LoadAll(ctx)
	return err
}

// AfterCreate is AfterMutation preceded by a local append when optimistic
// patching is enabled.
func (c *Collection[T]) AfterCreate(ctx context.Context, item T) error {
	if c.opts.optimistic && !item.Key().IsZero() {
		c.mu.Lock()
		if c.indexOf(item.Key()) == -1 {
			c.items = append(c.items, item)
		}
		c.mu.Unlock()
	}
	return c.AfterMutation(ctx)
}

// AfterDelete is AfterMutation preceded by a local removal when optimistic
// patching is enabled.
func (c *Collection[T]) AfterDelete(ctx context.Context, id screening.ID) error {
	if c.opts.optimistic {
		c.mu.Lock()
		if idx := c.indexOf(id); idx != -1 {
			c.items = slices.Delete(c.items, idx, idx+1)
		}
		c.mu.Unlock()
	}
	return c.AfterMutation(ctx)
}

// Reset forgets the collection, e.g. when the session ends.
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = []T{}
	c.loaded = false
	c.applied = c.issued
}

func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Loaded reports whether at least one load has succeeded since the last reset.
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Collection[T]) Find(id screening.ID) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if idx := c.indexOf(id); idx != -1 {
		return c.items[idx], true
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) IDs() []screening.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]screening.ID, 0, len(c.items))
	for _, item := range c.items {
		ids = append(ids, item.Key())
	}
	return ids
}

func (c *Collection[T]) indexOf(id screening.ID) int {
	return slices.IndexFunc(c.items, func(item T) bool { return item.Key() == id })
}
