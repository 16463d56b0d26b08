package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	t.Parallel()

	var c Cache = Noop{}
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, KeyHome, map[string]int{"a": 1}, 0))

	var out map[string]int
	hit, err := c.Get(ctx, KeyHome, &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, out)
	assert.NoError(t, c.Delete(ctx, KeyHome))
}
