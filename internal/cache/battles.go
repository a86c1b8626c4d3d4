package cache

import (
	"fmt"
	"strings"
	"time"

	"albion-tracker/internal/config"
	"albion-tracker/internal/constants"
	"albion-tracker/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// BattleCache holds the last upstream battle fetch per guild and minGP.
type BattleCache struct {
	lru *expirable.LRU[string, []domain.PlayerBattleRecord]
}

func NewBattleCache(cfg *config.Config) *BattleCache {
	ttl := cfg.BattleCacheTTL
	if ttl <= 0 {
		ttl = constants.BattleCacheTTL
	}
	return newBattleCache(constants.BattleCacheSize, ttl)
}

func newBattleCache(size int, ttl time.Duration) *BattleCache {
	return &BattleCache{
		lru: expirable.NewLRU[string, []domain.PlayerBattleRecord](size, nil, ttl),
	}
}

// Key normalises the guild name so lookups are case-insensitive.
func Key(guildName string, minGP int) string {
	return fmt.Sprintf("%s:%d", strings.ToLower(strings.TrimSpace(guildName)), minGP)
}

func (c *BattleCache) Get(guildName string, minGP int) ([]domain.PlayerBattleRecord, bool) {
	return c.lru.Get(Key(guildName, minGP))
}

func (c *BattleCache) Put(guildName string, minGP int, records []domain.PlayerBattleRecord) {
	c.lru.Add(Key(guildName, minGP), records)
}

func (c *BattleCache) Len() int {
	return c.lru.Len()
}
