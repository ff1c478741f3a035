// Package optimistic implements the snapshot/apply/confirm-or-rollback
// protocol for status-changing actions. A mutation is applied to the
// local record set immediately, the network request follows, and the
// server's answer either confirms the record or restores the snapshot.
// Per-id serialization keeps interleaved optimistic states off the same
// entity; results that outlive their record set are discarded.
package optimistic

import (
	"context"
	"sync"

	"github.com/medisync/medisync-go/internal/observability/metrics"
	"github.com/medisync/medisync-go/pkg/logging"
)

// Action describes one status-changing operation against a record.
type Action[T any] struct {
	// Name labels the action in errors, logs, and metrics.
	Name string
	// Validate runs before anything mutates; a non-nil error rejects
	// the action with zero network calls.
	Validate func(current T) error
	// Apply produces the optimistic local version of the record.
	Apply func(current T) T
	// Send issues the single network request and returns the server's
	// canonical record.
	Send func(ctx context.Context) (T, error)
}

// Config wires a Coordinator.
type Config[T any] struct {
	// IDOf extracts the entity id used for per-id serialization.
	IDOf func(T) int64
	// Refetch, when set, reloads the full record set after every
	// settled action to pick up server-side side effects. Refetch
	// failures are logged, not fatal; the next navigation refetches.
	Refetch func(ctx context.Context) ([]T, error)
	Logger  *logging.Logger
	Metrics *metrics.ClientMetrics
}

// Coordinator owns one screen's record set and serializes optimistic
// actions per entity id. Safe for concurrent use.
type Coordinator[T any] struct {
	cfg Config[T]

	mu       sync.Mutex
	records  []T
	inflight map[int64]string
	gen      uint64
}

// New creates a Coordinator. IDOf is required.
func New[T any](cfg Config[T]) *Coordinator[T] {
	if cfg.IDOf == nil {
		panic("optimistic: Config.IDOf is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Coordinator[T]{
		cfg:      cfg,
		inflight: make(map[int64]string),
	}
}

// Load replaces the record set with a fresh server fetch. Any result
// still in flight against the previous set will be discarded when it
// lands.
func (c *Coordinator[T]) Load(records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append([]T(nil), records...)
	c.inflight = make(map[int64]string)
	c.gen++
}

// Records returns a copy of the current record set, optimistic
// mutations included.
func (c *Coordinator[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.records...)
}

// Get returns the current version of one record.
func (c *Coordinator[T]) Get(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(id); i >= 0 {
		return c.records[i], true
	}
	var zero T
	return zero, false
}

// Run executes one action under the optimistic protocol:
// validate, apply locally, send, then confirm or roll back. The returned
// record is the server's canonical version on success.
func (c *Coordinator[T]) Run(ctx context.Context, id int64, action Action[T]) (T, error) {
	var zero T

	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return zero, &UnknownRecordError{ID: id}
	}
	if pending, busy := c.inflight[id]; busy {
		c.mu.Unlock()
		return zero, &ActionPendingError{ID: id, Pending: pending}
	}
	current := c.records[i]
	if action.Validate != nil {
		if err := action.Validate(current); err != nil {
			c.mu.Unlock()
			return zero, err
		}
	}
	snapshot := current
	c.records[i] = action.Apply(current)
	c.inflight[id] = action.Name
	gen := c.gen
	c.mu.Unlock()

	result, sendErr := action.Send(ctx)

	c.mu.Lock()
	if c.gen != gen {
		// The record set was reloaded while the request was in
		// flight; whatever came back belongs to a dead screen state.
		c.mu.Unlock()
		return zero, ErrSuperseded
	}
	delete(c.inflight, id)
	if sendErr != nil {
		if i := c.index(id); i >= 0 {
			c.records[i] = snapshot
		}
		c.mu.Unlock()
		c.cfg.Logger.Warn("optimistic action rolled back",
			"action", action.Name, "id", id, "error", sendErr)
		c.cfg.Metrics.ObserveRollback(action.Name)
		c.refetch(ctx)
		return zero, sendErr
	}
	if i := c.index(id); i >= 0 {
		c.records[i] = result
	}
	c.mu.Unlock()

	c.refetch(ctx)
	return result, nil
}

func (c *Coordinator[T]) refetch(ctx context.Context) {
	if c.cfg.Refetch == nil {
		return
	}
	records, err := c.cfg.Refetch(ctx)
	if err != nil {
		c.cfg.Logger.Warn("post-action refetch failed", "error", err)
		return
	}
	c.Load(records)
}

// index must be called with c.mu held.
func (c *Coordinator[T]) index(id int64) int {
	for i := range c.records {
		if c.cfg.IDOf(c.records[i]) == id {
			return i
		}
	}
	return -1
}
