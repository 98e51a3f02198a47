package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/tradeflow/internal/view"
)

// DefaultIdleTimeout is how long an untouched calculator is kept.
const DefaultIdleTimeout = 2 * time.Hour

// Factory builds the controller for a new calculator session.
type Factory func() *view.Controller

type entry struct {
	controller *view.Controller
	lastSeen   time.Time
}

// Registry maps calculator ids to their controllers. A fetched rate is
// pushed to every live controller and to each one created afterwards.
type Registry struct {
	factory Factory
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.Mutex
	entries   map[string]*entry
	rate      float64
	rateKnown bool
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		factory: factory,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Get returns the controller for id, creating it on first use.
func (r *Registry) Get(id string) *view.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.lastSeen = r.now()
		return e.controller
	}

	c := r.factory()
	c.Recalculate()
	if r.rateKnown {
		c.ApplyRate(r.rate)
	}
	r.entries[id] = &entry{controller: c, lastSeen: r.now()}
	r.logger.Debug("calculator session created", zap.String("session", id))
	return c
}

// ApplyRate records rate and applies it to every live controller.
func (r *Registry) ApplyRate(rate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rate = rate
	r.rateKnown = true
	for _, e := range r.entries {
		e.controller.ApplyRate(rate)
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict drops sessions untouched for longer than idle and returns how many
// were removed.
func (r *Registry) Evict(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// RunJanitor evicts idle sessions every interval until ctx is cancelled.
func (r *Registry) RunJanitor(ctx context.Context, interval, idle time.Duration) error {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	if interval <= 0 {
		interval = idle / 4
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Evict(idle); n > 0 {
				r.logger.Info("evicted idle calculator sessions", zap.Int("count", n), zap.Int("live", r.Len()))
			}
		}
	}
}
