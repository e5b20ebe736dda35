package plugins

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	c := newMemoryCache()
	ctx := context.Background()

	v, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, c.SetEx(ctx, "k", "v", time.Minute))
	v, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, c.SetEx(ctx, "expired", "v", -time.Second))
	v, err = c.Get(ctx, "expired")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestLimiterGroup(t *testing.T) {
	g := newLimiterGroup()
	l := g.use("user", 1)
	assert.Same(t, l, g.use("user", 100))

	// burst is twice the per minute rate
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	assert.True(t, g.use("other", 0).Allow())
}

func TestSetupUnknownMode(t *testing.T) {
	assert.Panics(t, func() {
		Setup(nil, "unknown")
	})
	assert.ElementsMatch(t, []string{"selfhost", "saas"}, Modes())
}
