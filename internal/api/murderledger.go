package api

import (
	"context"
	"fmt"
	"net/url"

	"albion-tracker/internal/config"
	"albion-tracker/internal/constants"
	"albion-tracker/internal/domain"

	"github.com/valyala/fasthttp"
)

// MurderLedgerClient reads per-player battle totals for a guild.
type MurderLedgerClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewMurderLedgerClient(cfg *config.Config) *MurderLedgerClient {
	return &MurderLedgerClient{
		baseURL: cfg.MurderLedgerURL,
		client:  newHTTPClient(constants.BattleFetchTimeout),
	}
}

type LedgerPlayersResponse struct {
	Players []LedgerPlayer `json:"players"`
}

type LedgerPlayer struct {
	Name         string       `json:"name"`
	Battles      int          `json:"battles"`
	Kills        int          `json:"kills"`
	Deaths       int          `json:"deaths"`
	AverageIP    float64      `json:"avg_ip"`
	TotalTank    string       `json:"total_tank"`
	TotalHealer  string       `json:"total_healer"`
	TotalSupport string       `json:"total_support"`
	TotalMelee   string       `json:"total_melee"`
	TotalRange   string       `json:"total_range"`
	Damage       float64      `json:"damage_done"`
	Healing      float64      `json:"healing_done"`
	KillFame     float64      `json:"kill_fame"`
	UsedItems    []LedgerItem `json:"used_items"`
}

type LedgerItem struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

func (p LedgerPlayer) Record() domain.PlayerBattleRecord {
	items := make([]domain.ItemUsage, len(p.UsedItems))
	for i, it := range p.UsedItems {
		items[i] = domain.ItemUsage{Type: it.Type, Count: it.Count}
	}
	return domain.PlayerBattleRecord{
		Name:         p.Name,
		Battles:      p.Battles,
		Kills:        p.Kills,
		Deaths:       p.Deaths,
		AverageIP:    p.AverageIP,
		TotalTank:    p.TotalTank,
		TotalHealer:  p.TotalHealer,
		TotalSupport: p.TotalSupport,
		TotalMelee:   p.TotalMelee,
		TotalRange:   p.TotalRange,
		TotalDamage:  p.Damage,
		TotalHealing: p.Healing,
		TotalFame:    p.KillFame,
		UsedItems:    items,
	}
}

// GetGuildPlayers returns battle records for every player the ledger saw in
// the guild over the lookback window, filtered to battles of at least minGP
// participants. Players with no battles are not returned.
func (c *MurderLedgerClient) GetGuildPlayers(ctx context.Context, guildName string, lookbackDays, minGP int) ([]domain.PlayerBattleRecord, error) {
	u := fmt.Sprintf("%s/api/guilds/%s/player-stats?lookback_days=%d&min_group_size=%d",
		c.baseURL, url.PathEscape(guildName), lookbackDays, minGP)

	resp, err := doRequest[LedgerPlayersResponse](ctx, c.client, u)
	if err != nil {
		return nil, fmt.Errorf("guild %s: %w", guildName, err)
	}

	records := make([]domain.PlayerBattleRecord, 0, len(resp.Players))
	for _, p := range resp.Players {
		records = append(records, p.Record())
	}
	return records, nil
}
