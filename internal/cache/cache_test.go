package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/procurelens/procurelens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache(t *testing.T) {
	t.Run("miss on empty cache", func(t *testing.T) {
		c := NewTTLCache()
		_, ok := c.Get("missing")
		assert.False(t, ok)
	})

	t.Run("round trip within TTL", func(t *testing.T) {
		c := NewTTLCache()
		want := model.CategoryAssignment{
			Category:   "IT Software",
			Confidence: 0.9,
			Method:     model.MethodRule,
		}

		c.Set("k", want, time.Hour)

		got, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("expired entry misses", func(t *testing.T) {
		c := NewTTLCache()
		now := time.Now()
		c.now = func() time.Time { return now }

		c.Set("k", model.CategoryAssignment{Category: "Travel"}, 24*time.Hour)

		now = now.Add(25 * time.Hour)
		_, ok := c.Get("k")
		assert.False(t, ok)
	})

	t.Run("last writer wins", func(t *testing.T) {
		c := NewTTLCache()
		c.Set("k", model.CategoryAssignment{Category: "A"}, time.Hour)
		c.Set("k", model.CategoryAssignment{Category: "B"}, time.Hour)

		got, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, "B", got.Category)
	})

	t.Run("concurrent writers agree", func(t *testing.T) {
		c := NewTTLCache()
		want := model.CategoryAssignment{Category: "Travel", Confidence: 0.8, Method: model.MethodRule}

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Set("shared", want, time.Hour)
				_, _ = c.Get("shared")
			}()
		}
		wg.Wait()

		got, ok := c.Get("shared")
		require.True(t, ok)
		assert.Equal(t, want, got)
	})
}
