package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetMiss(t *testing.T) {
	m := NewMemory(0, 0)

	_, err := m.Get(context.Background(), "posts|")
	assert.True(t, errors.Is(err, ErrMiss))

	_, ok := m.Peek("posts|")
	assert.False(t, ok)
}

func TestMemorySetGet(t *testing.T) {
	m := NewMemory(0, 0)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "posts|", []byte(`[1,2]`), 0))

	got, err := m.Get(ctx, "posts|")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
	assert.Equal(t, 1, m.Len())
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory(0, 0)
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, ok := m.Peek("k")
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _ := m.Peek("k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(0, 0)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryDefaultTTL(t *testing.T) {
	m := NewMemory(10*time.Millisecond, 0)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), -1))
	time.Sleep(30 * time.Millisecond)

	_, ok := m.Peek("k")
	assert.False(t, ok)
}

func TestMemoryDeleteAndFlush(t *testing.T) {
	m := NewMemory(0, 0)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, m.Delete(ctx, "a"))
	require.NoError(t, m.Delete(ctx, "missing"))
	_, ok := m.Peek("a")
	assert.False(t, ok)

	m.Flush()
	assert.Equal(t, 0, m.Len())
}

func TestMemoryCanceledContext(t *testing.T) {
	m := NewMemory(0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Set(ctx, "k", []byte("v"), 0), context.Canceled)
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
