// ABOUTME: Modem registry holding an immutable snapshot of attached modems.
// ABOUTME: Refreshed periodically from the bus; readers swap-free via atomic pointer.

package modem

import (
	"context"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"
)

// Registry maintains the current set of attached modems. Each refresh
// replaces the whole snapshot atomically, so readers always observe a
// consistent set without locking. A failed refresh keeps the previous
// snapshot: a transient bus outage must not make known modems disappear.
type Registry struct {
	bus      Bus
	interval time.Duration
	logger   *slog.Logger
	snapshot atomic.Pointer[[]Info]
}

// NewRegistry creates a registry refreshed at the given cadence.
func NewRegistry(bus Bus, interval time.Duration, logger *slog.Logger) *Registry {
	r := &Registry{
		bus:      bus,
		interval: interval,
		logger:   logger,
	}
	empty := []Info{}
	r.snapshot.Store(&empty)
	return r
}

// List returns the current snapshot, sorted by path. The returned slice is
// shared and must not be mutated by callers.
func (r *Registry) List() []Info {
	return *r.snapshot.Load()
}

// Refresh queries the bus for the current modem list and swaps in a new
// snapshot. On failure the previous snapshot is retained and the error is
// returned for callers that care (the refresh loop only logs it).
func (r *Registry) Refresh(ctx context.Context) error {
	modems, err := r.bus.ListModems(ctx)
	if err != nil {
		r.logger.Warn("modem refresh failed, keeping previous snapshot", "error", err)
		return err
	}

	sort.Slice(modems, func(i, j int) bool { return modems[i].Path < modems[j].Path })
	r.snapshot.Store(&modems)

	r.logger.Debug("modem snapshot refreshed", "modem_count", len(modems))
	return nil
}

// Run refreshes the registry on its cadence until the context is canceled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = r.Refresh(ctx) // failure already logged
		}
	}
}
