package dedupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_GetPut(t *testing.T) {
	clock := newFakeClock()
	c := NewCache[int](time.Minute, 0, clock.Now)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestCache_ExpiresAtTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewCache[int](time.Minute, 0, clock.Now)
	c.Put("a", 1)

	clock.Advance(59 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "Get does not remove; Sweep does")
}

func TestCache_Sweep(t *testing.T) {
	clock := newFakeClock()
	c := NewCache[string](time.Minute, 0, clock.Now)
	c.Put("old1", "x")
	c.Put("old2", "y")
	clock.Advance(30 * time.Second)
	c.Put("fresh", "z")
	clock.Advance(45 * time.Second)

	assert.Equal(t, 2, c.Sweep())
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("fresh")
	assert.True(t, ok)
	assert.Zero(t, c.Sweep())
}

func TestCache_EvictsOldestWhenFull(t *testing.T) {
	clock := newFakeClock()
	c := NewCache[int](time.Hour, 2, clock.Now)
	c.Put("a", 1)
	clock.Advance(time.Second)
	c.Put("b", 2)
	clock.Advance(time.Second)
	c.Put("c", 3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	clock := newFakeClock()
	c := NewCache[int](time.Hour, 2, clock.Now)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("b", 3)

	assert.Equal(t, 2, c.Len())
	v, _ := c.Get("b")
	assert.Equal(t, 3, v)
}
