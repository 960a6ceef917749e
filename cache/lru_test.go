package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contoso-labs/handbook-assistant/config"
	"github.com/contoso-labs/handbook-assistant/schema"
)

func results(score int) []schema.ScoredChunk {
	return []schema.ScoredChunk{{Chunk: schema.Chunk{Index: 0, Text: "chunk"}, Score: score}}
}

func TestLRU_GetSet(t *testing.T) {
	c := NewLRU(4, time.Minute)

	_, ok := c.Get("vacation")
	assert.False(t, ok)

	c.Set("vacation", results(2), 0)
	got, ok := c.Get("vacation")
	require.True(t, ok)
	assert.Equal(t, 2, got[0].Score)

	// overwrite keeps a single entry
	c.Set("vacation", results(5), 0)
	got, ok = c.Get("vacation")
	require.True(t, ok)
	assert.Equal(t, 5, got[0].Score)
}

func TestLRU_EvictsOldest(t *testing.T) {
	c := NewLRU(2, time.Minute)
	c.Set("a", results(1), 0)
	c.Set("b", results(2), 0)

	// touch "a" so "b" is the eviction candidate
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", results(3), 0)
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRU_TTLExpiry(t *testing.T) {
	c := NewLRU(4, time.Minute)
	c.Set("k", results(1), time.Nanosecond)
	time.Sleep(2 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestLRU_Purge(t *testing.T) {
	c := NewLRU(4, time.Minute)
	for i := 0; i < 4; i++ {
		c.Set(fmt.Sprintf("k%d", i), results(i), 0)
	}
	c.Purge()
	for i := 0; i < 4; i++ {
		_, ok := c.Get(fmt.Sprintf("k%d", i))
		assert.False(t, ok)
	}
}

func TestNewFromConfig(t *testing.T) {
	assert.Nil(t, NewFromConfig(nil))
	assert.Nil(t, NewFromConfig(&config.CacheConfig{Enable: false}))
	assert.NotNil(t, NewFromConfig(&config.CacheConfig{Enable: true, MaxEntries: 8, TTLSeconds: 60}))
}
