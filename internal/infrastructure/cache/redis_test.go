package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabled_IsNoop(t *testing.T) {
	ctx := context.Background()
	c := Disabled()

	assert.ErrorIs(t, c.Ping(ctx), ErrUnavailable)
	require.NoError(t, c.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	hit, err := c.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, out)

	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.DeleteByPattern(ctx, "candidates:*"))
	assert.NoError(t, c.Close())
}

func TestDisabled_LockFallsThrough(t *testing.T) {
	ok, release, err := Disabled().TryLock(context.Background(), "interview:invite:lock:x", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, release)
	release()
}

func TestNilCache_IsNoop(t *testing.T) {
	var c *Redis
	hit, err := c.GetJSON(context.Background(), "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.SetJSON(context.Background(), "k", 1, 0))
}
