package attendance

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"

	"albion-tracker/internal/domain"
	"albion-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func TestParsePlayers(t *testing.T) {
	players, err := ParsePlayers(strings.NewReader("Alice\n\n# officers\n  Bob  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, players)
}

func testClient(t *testing.T, handler fasthttp.RequestHandler) *fasthttp.Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = fasthttp.Serve(ln, handler) }()
	t.Cleanup(func() { ln.Close() })
	return &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }}
}

func TestPost(t *testing.T) {
	client := testClient(t, func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "/api/attendance", string(ctx.Path()))
		var req service.AttendanceRequest
		require.NoError(t, json.Unmarshal(ctx.PostBody(), &req))
		assert.Equal(t, "Alpha", req.GuildName)
		assert.Equal(t, 20, req.MinGP)

		body, _ := json.Marshal(service.AttendanceResponse{
			Players: []domain.PlayerRanking{{Rank: 1, Name: "Alice"}},
		})
		ctx.SetBody(body)
	})

	resp, err := Post(context.Background(), client, "http://tracker.test/", service.AttendanceRequest{
		GuildName:  "Alpha",
		PlayerList: []string{"Alice"},
		MinGP:      20,
	})
	require.NoError(t, err)
	require.Len(t, resp.Players, 1)
	assert.Equal(t, "Alice", resp.Players[0].Name)
}

func TestPostServerError(t *testing.T) {
	client := testClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"error":"Request timed out while fetching battle data","players":[]}`)
	})

	_, err := Post(context.Background(), client, "http://tracker.test", service.AttendanceRequest{GuildName: "Alpha"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
