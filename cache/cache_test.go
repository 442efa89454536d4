package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting(calls *atomic.Int32, value string, err error) FetchFunc[string] {
	return func(ctx context.Context) (string, error) {
		calls.Add(1)
		return value, err
	}
}

func TestGetOrFetchIsIdempotentWithinTTL(t *testing.T) {
	var calls atomic.Int32
	c := New[string](time.Hour, zerolog.Nop())
	ctx := context.Background()

	first, err := c.GetOrFetch(ctx, "k", counting(&calls, "v1", nil))
	require.NoError(t, err)
	second, err := c.GetOrFetch(ctx, "k", counting(&calls, "v2", nil))
	require.NoError(t, err)

	assert.Equal(t, "v1", first)
	assert.Equal(t, "v1", second, "fresh entry must be served without refetching")
	assert.EqualValues(t, 1, calls.Load())
}

func TestGetOrFetchRefreshesAfterExpiry(t *testing.T) {
	var calls atomic.Int32
	c := New[string](20*time.Millisecond, zerolog.Nop())
	ctx := context.Background()

	_, err := c.GetOrFetch(ctx, "k", counting(&calls, "v1", nil))
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	got, err := c.GetOrFetch(ctx, "k", counting(&calls, "v2", nil))
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.EqualValues(t, 2, calls.Load())
}

func TestForceRefreshBypassesFreshness(t *testing.T) {
	var calls atomic.Int32
	c := New[string](time.Hour, zerolog.Nop())
	ctx := context.Background()

	_, err := c.GetOrFetch(ctx, "k", counting(&calls, "v1", nil))
	require.NoError(t, err)

	got, err := c.ForceRefresh(ctx, "k", counting(&calls, "v2", nil))
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.EqualValues(t, 2, calls.Load())
}

func TestEmptyFetchKeepsPriorEntry(t *testing.T) {
	c := New(time.Hour, zerolog.Nop(), WithEmptyCheck(func(v string) bool { return v == "" }))
	ctx := context.Background()

	_, err := c.GetOrFetch(ctx, "k", func(ctx context.Context) (string, error) { return "v1", nil })
	require.NoError(t, err)

	got, err := c.ForceRefresh(ctx, "k", func(ctx context.Context) (string, error) { return "", nil })
	require.NoError(t, err)
	assert.Equal(t, "v1", got, "empty refresh must serve the prior entry")

	stored, ok := c.Peek("k")
	require.True(t, ok)
	assert.Equal(t, "v1", stored, "empty refresh must not replace the stored entry")
}

func TestEmptyFetchWithoutPriorEntry(t *testing.T) {
	c := New(time.Hour, zerolog.Nop(), WithEmptyCheck(func(v string) bool { return v == "" }))

	_, err := c.GetOrFetch(context.Background(), "k", func(ctx context.Context) (string, error) { return "", nil })
	assert.ErrorIs(t, err, ErrNoData)
	assert.Zero(t, c.Len(), "an absent entry must stay absent")
}

func TestFailedFetchFallsBackToStale(t *testing.T) {
	c := New[string](20*time.Millisecond, zerolog.Nop())
	ctx := context.Background()

	_, err := c.GetOrFetch(ctx, "k", func(ctx context.Context) (string, error) { return "v1", nil })
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	got, err := c.GetOrFetch(ctx, "k", func(ctx context.Context) (string, error) {
		return "", errors.New("upstream down")
	})
	require.NoError(t, err, "stale data beats no data")
	assert.Equal(t, "v1", got)
}

func TestFailedFetchWithoutPriorEntry(t *testing.T) {
	c := New[string](time.Hour, zerolog.Nop())
	boom := errors.New("upstream down")

	_, err := c.GetOrFetch(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	var calls atomic.Int32
	c := New[string](time.Hour, zerolog.Nop())
	ctx := context.Background()

	_, err := c.GetOrFetch(ctx, "k", counting(&calls, "v1", nil))
	require.NoError(t, err)

	c.Invalidate("k")

	got, err := c.GetOrFetch(ctx, "k", counting(&calls, "v2", nil))
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.EqualValues(t, 2, calls.Load())
}

func TestConcurrentMissesShareOneFetch(t *testing.T) {
	var calls atomic.Int32
	c := New[string](time.Hour, zerolog.Nop())
	ctx := context.Background()

	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "v1", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrFetch(ctx, "k", fetch)
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load(), "concurrent misses must collapse into one fetch")
	for i, v := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "v1", v)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	c := New[string](time.Hour, zerolog.Nop())
	ctx := context.Background()

	_, err := c.GetOrFetch(ctx, "a", func(ctx context.Context) (string, error) { return "va", nil })
	require.NoError(t, err)
	_, err = c.GetOrFetch(ctx, "b", func(ctx context.Context) (string, error) { return "vb", nil })
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	c.Invalidate("a")
	_, okA := c.Peek("a")
	vb, okB := c.Peek("b")
	assert.False(t, okA)
	require.True(t, okB)
	assert.Equal(t, "vb", vb)
}
