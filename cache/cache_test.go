package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T) *Store {
	s, err := New("", "", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestJSONRoundTripAndMiss(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	assert.True(t, s.IsEmbedded())

	var got map[string]int
	assert.ErrorIs(t, s.GetJSON(ctx, "missing", &got), ErrCacheMiss)

	require.NoError(t, s.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
	require.NoError(t, s.GetJSON(ctx, "k", &got))
	assert.Equal(t, 1, got["a"])

	require.NoError(t, s.Delete(ctx, "k"))
	assert.ErrorIs(t, s.GetJSON(ctx, "k", &got), ErrCacheMiss)
}

func TestExpiry(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetJSON(ctx, "short", "v", time.Second))
	s.embedded.FastForward(2 * time.Second)

	var v string
	assert.ErrorIs(t, s.GetJSON(ctx, "short", &v), ErrCacheMiss)
}

func TestIncrStartsWindow(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	n, err := s.Incr(ctx, "hits", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = s.Incr(ctx, "hits", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	s.embedded.FastForward(time.Minute + time.Second)
	n, err = s.Incr(ctx, "hits", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
