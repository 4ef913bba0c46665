package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecCacheMiss(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory(ctx)
	defer c.Close()

	invoked := false
	found, val, err := Exec(ctx, ExecConfig{Key: "key"}, c, func(ctx context.Context) (string, bool, error) {
		invoked = true
		return "fresh-value", true, nil
	})
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "fresh-value", val)
	assert.True(t, invoked)

	// Value should now be cached.
	cachedFound, cached, err := Get[string](ctx, c, "key")
	assert.NoError(t, err)
	assert.True(t, cachedFound)
	assert.Equal(t, "fresh-value", cached)
}

func TestExecCacheHit(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory(ctx)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "key", "cached-value", Forever))

	invoked := false
	found, val, err := Exec(ctx, ExecConfig{Key: "key"}, c, func(ctx context.Context) (string, bool, error) {
		invoked = true
		return "fresh-value", true, nil
	})
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "cached-value", val)
	assert.False(t, invoked)
}

func TestExecInvokerError(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory(ctx)
	defer c.Close()

	expectedErr := fmt.Errorf("invoke failed")
	found, val, err := Exec(ctx, ExecConfig{Key: "key"}, c, func(ctx context.Context) (string, bool, error) {
		return "", false, expectedErr
	})
	assert.ErrorIs(t, err, expectedErr)
	assert.False(t, found)
	assert.Equal(t, "", val)

	// Nothing should be cached.
	ok, _, getErr := c.Get(ctx, "key")
	assert.NoError(t, getErr)
	assert.False(t, ok)
}

func TestExecInvokerNotFound(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory(ctx)
	defer c.Close()

	found, val, err := Exec(ctx, ExecConfig{Key: "key"}, c, func(ctx context.Context) (string, bool, error) {
		return "", false, nil
	})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "", val)

	ok, _, cacheErr := c.Get(ctx, "key")
	assert.NoError(t, cacheErr)
	assert.False(t, ok)
}

func TestExecInvokerCalledOnce(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory(ctx)
	defer c.Close()

	callCount := 0
	invoker := func(ctx context.Context) (string, bool, error) {
		callCount++
		return "result", true, nil
	}

	cfg := ExecConfig{Key: "once"}

	// First call — miss — invoker called.
	found, val, err := Exec(ctx, cfg, c, invoker)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "result", val)
	assert.Equal(t, 1, callCount)

	// Second call — hit — invoker NOT called.
	found, val, err = Exec(ctx, cfg, c, invoker)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "result", val)
	assert.Equal(t, 1, callCount)
}

func TestExecWithSQLite(t *testing.T) {
	ctx := context.Background()
	c, err := NewSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer c.Close()

	expected := roster{Title: "Sinnoh", Names: []string{"turtwig"}}
	found, val, execErr := Exec(ctx, ExecConfig{Key: "gen"}, c, func(ctx context.Context) (roster, bool, error) {
		return expected, true, nil
	})
	assert.NoError(t, execErr)
	assert.True(t, found)
	assert.Equal(t, expected, val)

	// Second call should be a cache hit (deserialized via msgpack).
	invoked := false
	found, val, execErr = Exec(ctx, ExecConfig{Key: "gen"}, c, func(ctx context.Context) (roster, bool, error) {
		invoked = true
		return roster{}, true, nil
	})
	assert.NoError(t, execErr)
	assert.True(t, found)
	assert.Equal(t, expected, val)
	assert.False(t, invoked)
}

func TestExecCacheReadError(t *testing.T) {
	ctx := context.Background()
	c := &errorCache{err: fmt.Errorf("disk I/O error")}

	invoked := false
	found, val, err := Exec(ctx, ExecConfig{Key: "key"}, c, func(ctx context.Context) (string, bool, error) {
		invoked = true
		return "value", true, nil
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.False(t, found)
	assert.Equal(t, "", val)
	assert.False(t, invoked, "invoker should not be called when cache returns an error")
}

// errorCache is a test double that always returns an error from Get.
type errorCache struct {
	err error
}

func (e *errorCache) Get(context.Context, string) (bool, any, error) { return false, nil, e.err }
func (e *errorCache) Set(context.Context, string, any, time.Duration) error {
	return e.err
}
func (e *errorCache) Hits(context.Context, string) (bool, int)   { return false, 0 }
func (e *errorCache) Expire(context.Context, string) (bool, error) { return false, e.err }
func (e *errorCache) Close() error                               { return nil }
