package cache

import (
	"testing"
	"time"

	"albion-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBattleCacheCaseInsensitive(t *testing.T) {
	c := newBattleCache(4, time.Minute)
	c.Put("Black Flag", 20, []domain.PlayerBattleRecord{{Name: "Alice"}})

	got, ok := c.Get("  black flag ", 20)
	require.True(t, ok)
	assert.Equal(t, "Alice", got[0].Name)

	_, ok = c.Get("Black Flag", 0)
	assert.False(t, ok, "minGP is part of the key")
}

func TestBattleCacheExpires(t *testing.T) {
	c := newBattleCache(4, 20*time.Millisecond)
	c.Put("Alpha", 0, nil)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("Alpha", 0)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestBattleCacheEvictsOldest(t *testing.T) {
	c := newBattleCache(2, time.Minute)
	c.Put("a", 0, nil)
	c.Put("b", 0, nil)
	c.Put("c", 0, nil)

	_, ok := c.Get("a", 0)
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}
