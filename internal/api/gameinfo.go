package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"albion-tracker/internal/config"
	"albion-tracker/internal/constants"
	"albion-tracker/internal/domain"

	"github.com/valyala/fasthttp"
)

var ErrGuildNotFound = errors.New("guild not found")

// GameInfoClient talks to the official Albion game-info API.
type GameInfoClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewGameInfoClient(cfg *config.Config) *GameInfoClient {
	return &GameInfoClient{
		baseURL: cfg.GameInfoURL,
		client:  newHTTPClient(constants.GameInfoTimeout),
	}
}

type SearchResponse struct {
	Guilds []GuildSearchHit `json:"guilds"`
}

type GuildSearchHit struct {
	ID           string `json:"Id"`
	Name         string `json:"Name"`
	AllianceName string `json:"AllianceName"`
}

type GuildResponse struct {
	ID          string `json:"Id"`
	Name        string `json:"Name"`
	KillFame    int64  `json:"killFame"`
	DeathFame   int64  `json:"DeathFame"`
	MemberCount int    `json:"MemberCount"`
}

func (c *GameInfoClient) SearchGuild(ctx context.Context, name string) (*GuildSearchHit, error) {
	u := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(name))
	resp, err := doRequest[SearchResponse](ctx, c.client, u)
	if err != nil {
		return nil, err
	}
	for _, g := range resp.Guilds {
		if strings.EqualFold(g.Name, name) {
			return &g, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrGuildNotFound, name)
}

func (c *GameInfoClient) GetGuild(ctx context.Context, id string) (*GuildResponse, error) {
	u := fmt.Sprintf("%s/guilds/%s", c.baseURL, url.PathEscape(id))
	return doRequest[GuildResponse](ctx, c.client, u)
}

// LookupGuild resolves a guild by name and returns its fame totals and
// member count.
func (c *GameInfoClient) LookupGuild(ctx context.Context, name string) (*domain.GuildInfo, error) {
	hit, err := c.SearchGuild(ctx, name)
	if err != nil {
		return nil, err
	}
	guild, err := c.GetGuild(ctx, hit.ID)
	if err != nil {
		return nil, err
	}
	return &domain.GuildInfo{
		KillFame:    guild.KillFame,
		DeathFame:   guild.DeathFame,
		MemberCount: guild.MemberCount,
	}, nil
}
