package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetOrLoad_Hit(t *testing.T) {
	c := New[int](5 * time.Minute)
	loads := 0
	load := func(ctx context.Context) (int, error) {
		loads++
		return 42, nil
	}

	v, err := c.GetOrLoad(context.Background(), "stats", load)
	assert.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.GetOrLoad(context.Background(), "stats", load)
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, loads)
}

func TestGetOrLoad_Expiry(t *testing.T) {
	c := New[int](time.Minute)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	loads := 0
	load := func(ctx context.Context) (int, error) {
		loads++
		return loads, nil
	}

	v, _ := c.GetOrLoad(context.Background(), "k", load)
	assert.Equal(t, 1, v)

	clock = clock.Add(2 * time.Minute)
	v, _ = c.GetOrLoad(context.Background(), "k", load)
	assert.Equal(t, 2, v)
}

func TestGetOrLoad_NoCaching(t *testing.T) {
	c := New[int](0)
	loads := 0
	load := func(ctx context.Context) (int, error) {
		loads++
		return loads, nil
	}

	c.GetOrLoad(context.Background(), "k", load)
	c.GetOrLoad(context.Background(), "k", load)
	assert.Equal(t, 2, loads)
}

func TestGetOrLoad_Error(t *testing.T) {
	c := New[string](time.Minute)
	_, err := c.GetOrLoad(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "", fmt.Errorf("db error")
	})
	assert.EqualError(t, err, "db error")

	// Errors are not cached
	v, err := c.GetOrLoad(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestGetOrLoad_Stampede(t *testing.T) {
	c := New[int](time.Minute)
	var loads int32
	start := make(chan struct{})
	load := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&loads, 1)
		time.Sleep(20 * time.Millisecond)
		return 7, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := c.GetOrLoad(context.Background(), "k", load)
			assert.NoError(t, err)
			assert.Equal(t, 7, v)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestInvalidate(t *testing.T) {
	c := New[int](time.Minute)
	loads := 0
	load := func(ctx context.Context) (int, error) {
		loads++
		return loads, nil
	}

	c.GetOrLoad(context.Background(), "k", load)
	c.Invalidate("k")
	v, _ := c.GetOrLoad(context.Background(), "k", load)
	assert.Equal(t, 2, v)
}
