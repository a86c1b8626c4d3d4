package api

import (
	"context"
	"net"
	"testing"
	"time"

	"albion-tracker/internal/config"
	"albion-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// serve starts handler on an in-memory listener and returns a client that
// dials it.
func serve(t *testing.T, handler fasthttp.RequestHandler) *fasthttp.Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	go func() {
		_ = fasthttp.Serve(ln, handler)
	}()
	t.Cleanup(func() { ln.Close() })

	client := newHTTPClient(time.Second)
	client.Dial = func(addr string) (net.Conn, error) {
		return ln.Dial()
	}
	return client
}

func testConfig() *config.Config {
	return &config.Config{
		MurderLedgerURL: "http://ledger.test",
		GameInfoURL:     "http://gameinfo.test/api/gameinfo",
	}
}

func TestGetGuildPlayers(t *testing.T) {
	var gotPath, gotQuery string
	ledger := NewMurderLedgerClient(testConfig())
	ledger.client = serve(t, func(ctx *fasthttp.RequestCtx) {
		gotPath = string(ctx.Path())
		gotQuery = string(ctx.QueryArgs().QueryString())
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"players":[{
			"name":"Alice","battles":12,"kills":30,"deaths":6,"avg_ip":1320.5,
			"total_tank":"0","total_healer":"10","total_support":"0",
			"total_melee":"90000","total_range":"1200",
			"damage_done":91200,"healing_done":10,"kill_fame":450000,
			"used_items":[{"type":"T8_2H_CLAYMORE","count":9}]
		}]}`)
	})

	records, err := ledger.GetGuildPlayers(context.Background(), "Black Flag", 28, 20)
	require.NoError(t, err)

	assert.Equal(t, "/api/guilds/Black Flag/player-stats", gotPath)
	assert.Equal(t, "lookback_days=28&min_group_size=20", gotQuery)

	require.Len(t, records, 1)
	assert.Equal(t, domain.PlayerBattleRecord{
		Name:         "Alice",
		Battles:      12,
		Kills:        30,
		Deaths:       6,
		AverageIP:    1320.5,
		TotalTank:    "0",
		TotalHealer:  "10",
		TotalSupport: "0",
		TotalMelee:   "90000",
		TotalRange:   "1200",
		TotalDamage:  91200,
		TotalHealing: 10,
		TotalFame:    450000,
		UsedItems:    []domain.ItemUsage{{Type: "T8_2H_CLAYMORE", Count: 9}},
	}, records[0])
}

func TestGetGuildPlayersStatusError(t *testing.T) {
	ledger := NewMurderLedgerClient(testConfig())
	ledger.client = serve(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusBadGateway)
	})

	_, err := ledger.GetGuildPlayers(context.Background(), "Alpha", 28, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamStatus)
	assert.NotErrorIs(t, err, ErrUpstreamTimeout)
	assert.EqualError(t, err, "guild Alpha: upstream returned an error status: 502")
}

func TestGetGuildPlayersTimeout(t *testing.T) {
	ledger := NewMurderLedgerClient(testConfig())
	ledger.client = serve(t, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(300 * time.Millisecond)
		ctx.SetBodyString(`{"players":[]}`)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ledger.GetGuildPlayers(ctx, "Alpha", 28, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamTimeout)
}

func TestGetGuildPlayersBadJSON(t *testing.T) {
	ledger := NewMurderLedgerClient(testConfig())
	ledger.client = serve(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"players":`)
	})

	_, err := ledger.GetGuildPlayers(context.Background(), "Alpha", 28, 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUpstreamStatus)
}

func TestLookupGuild(t *testing.T) {
	gameinfo := NewGameInfoClient(testConfig())
	gameinfo.client = serve(t, func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/api/gameinfo/search":
			assert.Equal(t, "black flag", string(ctx.QueryArgs().Peek("q")))
			ctx.SetBodyString(`{"guilds":[
				{"Id":"g-2","Name":"Black Flags"},
				{"Id":"g-1","Name":"Black Flag"}
			]}`)
		case "/api/gameinfo/guilds/g-1":
			ctx.SetBodyString(`{"Id":"g-1","Name":"Black Flag","killFame":123456,"DeathFame":654,"MemberCount":87}`)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	})

	info, err := gameinfo.LookupGuild(context.Background(), "black flag")
	require.NoError(t, err)
	assert.Equal(t, &domain.GuildInfo{KillFame: 123456, DeathFame: 654, MemberCount: 87}, info)
}

func TestLookupGuildNotFound(t *testing.T) {
	gameinfo := NewGameInfoClient(testConfig())
	gameinfo.client = serve(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"guilds":[{"Id":"g-2","Name":"Someone Else"}]}`)
	})

	_, err := gameinfo.LookupGuild(context.Background(), "Black Flag")
	assert.ErrorIs(t, err, ErrGuildNotFound)
}
