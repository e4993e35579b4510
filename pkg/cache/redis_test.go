package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue/pkg/config"
)

func TestJSON_NilClientAlwaysMisses(t *testing.T) {
	c := NewJSON(nil, "menu")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "public", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	found, err := c.Get(ctx, "public", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, "public"))
}

func TestJSON_NilReceiver(t *testing.T) {
	var c *JSON
	found, err := c.Get(context.Background(), "x", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestNewRedisClient_NoAddr(t *testing.T) {
	assert.Nil(t, NewRedisClient(context.Background(), config.RedisConfig{}))
}
