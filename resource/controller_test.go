package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.ReserveMemory(50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	require.NoError(t, c.ReserveMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	err := c.ReserveMemory(20)
	require.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Blocking variant times out while the budget is exhausted.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = c.AcquireMemory(ctx, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.ReserveMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestControllerUnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.ReserveMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestControllerSearchSlots(t *testing.T) {
	c := NewController(Config{MaxConcurrentSearches: 2})

	require.NoError(t, c.AcquireSearch(context.Background()))
	require.NoError(t, c.AcquireSearch(context.Background()))

	assert.False(t, c.TryAcquireSearch())

	c.ReleaseSearch()

	assert.True(t, c.TryAcquireSearch())
}

func TestControllerNilIsUnlimited(t *testing.T) {
	var c *Controller

	require.NoError(t, c.ReserveMemory(1<<40))
	require.NoError(t, c.AcquireSearch(context.Background()))
	assert.True(t, c.TryAcquireSearch())
	c.ReleaseSearch()
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(0), c.MemoryUsage())
}
