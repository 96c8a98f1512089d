package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	require.False(t, hit)
	require.Nil(t, data)

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))
	_, hit, _ = c.Get(ctx, "key")
	require.False(t, hit, "NullCache should not store data")

	require.NoError(t, c.Delete(ctx, "key"))
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	require.Equal(t, h1, Hash([]byte("hello")))
	require.NotEqual(t, h1, Hash([]byte("world")))
	require.Len(t, h1, 64)
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	s1 := k.SmoothKey("abc", SmoothKeyOpts{Epsilon: "0.5", Precision: 6})
	require.NotEqual(t, s1, k.SmoothKey("abc", SmoothKeyOpts{Epsilon: "0.25", Precision: 6}))
	require.NotEqual(t, s1, k.SmoothKey("abd", SmoothKeyOpts{Epsilon: "0.5", Precision: 6}))
	require.Equal(t, s1, k.SmoothKey("abc", SmoothKeyOpts{Epsilon: "0.5", Precision: 6}))
	require.Regexp(t, `^smooth:[0-9a-f]{64}$`, s1)

	require.NotEqual(t,
		k.SweepKey("abc", SweepKeyOpts{Steps: 4, Precision: 6}),
		k.SweepKey("abc", SweepKeyOpts{Steps: 8, Precision: 6}))

	r1 := k.RenderKey("hash123", RenderKeyOpts{Format: "svg"})
	require.NotEqual(t, r1, k.RenderKey("hash123", RenderKeyOpts{Format: "png"}))
	require.NotEqual(t, r1, k.RenderKey("hash123", RenderKeyOpts{Format: "svg", Pinned: true}))
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "v1.0.0:")

	opts := SmoothKeyOpts{Epsilon: "1", Precision: 6}
	require.Equal(t, "v1.0.0:"+inner.SmoothKey("g", opts), scoped.SmoothKey("g", opts))
	require.Regexp(t, `^v1\.0\.0:sweep:`, scoped.SweepKey("g", SweepKeyOpts{}))
	require.Regexp(t, `^v1\.0\.0:render:`, scoped.RenderKey("g", RenderKeyOpts{Format: "svg"}))
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	require.Regexp(t, `^prefix:smooth:`, scoped.SmoothKey("g", SmoothKeyOpts{}))
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, err)
	defer c.Close()

	_, hit, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, c.Set(ctx, "k", []byte("value"), time.Hour))
	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "value", string(data))

	require.NoError(t, c.Delete(ctx, "k"))
	_, hit, _ = c.Get(ctx, "k")
	require.False(t, hit, "Get after Delete should miss")
	require.NoError(t, c.Delete(ctx, "k"), "Delete of a missing key")
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "old", []byte("x"), time.Nanosecond))
	time.Sleep(2 * time.Millisecond)
	_, hit, _ := c.Get(ctx, "old")
	require.False(t, hit, "expired entry should miss")
	_, err = os.Stat(c.path("old"))
	require.True(t, os.IsNotExist(err), "expired entry should be removed")

	require.NoError(t, c.Set(ctx, "forever", []byte("y"), 0))
	_, hit, _ = c.Get(ctx, "forever")
	require.True(t, hit, "zero ttl should never expire")
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	path := c.path("bad")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, hit, err := c.Get(ctx, "bad")
	require.NoError(t, err)
	require.False(t, hit)
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), time.Hour))
	}

	n, err := c.Clear(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	_, hit, _ := c.Get(ctx, "a")
	require.False(t, hit, "Get after Clear should miss")
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestRetryableError(t *testing.T) {
	require.NoError(t, Retryable(nil))

	err := Retryable(ErrNetwork)
	require.Error(t, err)
	require.True(t, IsRetryable(err))
	require.Equal(t, ErrNetwork.Error(), err.Error())

	require.False(t, IsRetryable(ErrNotFound))
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 1, calls, "non-retryable errors stop immediately")

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	require.ErrorIs(t, err, context.Canceled)
}
