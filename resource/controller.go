// Package resource enforces process-wide limits on search scratch memory and
// on the number of concurrently running searches.
//
// The controller is advisory: callers reserve the memory they are about to
// allocate and release it when the search returns. Reservations are tracked
// even when no hard limit is configured, so MemoryUsage stays meaningful for
// monitoring.
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrMemoryLimitExceeded is returned when a non-blocking reservation would
// push managed memory over the configured limit.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for managed scratch memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxConcurrentSearches caps the number of searches running at once.
	// If 0, concurrency is unlimited.
	MaxConcurrentSearches int64
}

// Controller manages global resources (memory, search concurrency).
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	searchSem *semaphore.Weighted // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.MaxConcurrentSearches > 0 {
		c.searchSem = semaphore.NewWeighted(cfg.MaxConcurrentSearches)
	}

	return c
}

// ReserveMemory reserves scratch memory without blocking. It fails with
// ErrMemoryLimitExceeded when the reservation would exceed the limit; the
// caller is expected to surface that before doing any compute.
func (c *Controller) ReserveMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return fmt.Errorf("%w: requested %d bytes, %d of %d in use",
			ErrMemoryLimitExceeded, bytes, c.memUsed.Load(), c.cfg.MemoryLimitBytes)
	}

	c.memUsed.Add(bytes)

	return nil
}

// AcquireMemory reserves scratch memory, blocking until enough is released
// or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)

	return nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}

	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved memory in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}

	return c.memUsed.Load()
}

// AcquireSearch reserves a search slot, blocking while all slots are busy.
func (c *Controller) AcquireSearch(ctx context.Context) error {
	if c == nil || c.searchSem == nil {
		return nil
	}

	return c.searchSem.Acquire(ctx, 1)
}

// TryAcquireSearch reserves a search slot without blocking.
func (c *Controller) TryAcquireSearch() bool {
	if c == nil || c.searchSem == nil {
		return true
	}

	return c.searchSem.TryAcquire(1)
}

// ReleaseSearch releases a search slot.
func (c *Controller) ReleaseSearch() {
	if c == nil || c.searchSem == nil {
		return
	}

	c.searchSem.Release(1)
}
