// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	t.Run("set and get", func(t *testing.T) {
		c.Set("k", "v")
		value, found := c.Get("k")
		assert.True(t, found)
		assert.Equal(t, "v", value)
	})

	t.Run("negative entry", func(t *testing.T) {
		c.Set("negative", nil)
		value, found := c.Get("negative")
		assert.True(t, found)
		assert.Nil(t, value)
	})

	t.Run("delete", func(t *testing.T) {
		c.Set("gone", "v")
		c.Delete("gone")
		_, found := c.Get("gone")
		assert.False(t, found)
	})

	t.Run("miss", func(t *testing.T) {
		_, found := c.Get("never-set")
		assert.False(t, found)
	})
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(20 * time.Millisecond)

	c.Set("k", "v")
	time.Sleep(40 * time.Millisecond)

	_, found := c.Get("k")
	assert.False(t, found)
}
