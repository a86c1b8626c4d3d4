// Package attendance implements the attendance command.
package attendance

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"albion-tracker/internal/output"
	"albion-tracker/internal/service"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Command posts a player list to a running server and prints the ranking.
type Command struct {
	Server      string        `default:"http://localhost:8080" env:"ALBION_SERVER" help:"Tracker server base URL."`
	MinGP       int           `default:"0" help:"Minimum group size of counted battles." name:"min-gp"`
	PlayersFile string        `help:"File with one player name per line; '-' reads stdin." name:"players-file" type:"path"`
	Timeout     time.Duration `default:"90s" help:"Request timeout."`

	Guild   string   `arg:"" help:"Guild name."`
	Players []string `arg:"" help:"Player names." optional:""`
}

func (c *Command) Run(log zerolog.Logger) error {
	players := c.Players
	if c.PlayersFile != "" {
		fromFile, err := readPlayers(c.PlayersFile)
		if err != nil {
			return err
		}
		players = append(players, fromFile...)
	}
	if players == nil {
		players = []string{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	resp, err := Post(ctx, &fasthttp.Client{}, c.Server, service.AttendanceRequest{
		GuildName:  c.Guild,
		PlayerList: players,
		MinGP:      c.MinGP,
	})
	if err != nil {
		return err
	}
	log.Debug().Int("players", len(resp.Players)).Bool("cached", resp.Cached).Msg("attendance received")

	fmt.Fprintf(os.Stdout, "Global average attendance: %.1f\n", resp.GlobalAverageAttendance)
	if resp.SimilarGuild != nil {
		fmt.Fprintf(os.Stdout, "Similar guild: %s (%d members)\n", resp.SimilarGuild.GuildName, resp.SimilarGuild.GuildSize)
	}
	if resp.BestGuild != nil {
		fmt.Fprintf(os.Stdout, "Best guild: %s (%d members)\n", resp.BestGuild.GuildName, resp.BestGuild.GuildSize)
	}
	return output.Table(os.Stdout, output.RankingHeaders, output.RankingRows(resp.Players))
}

// Post sends req to the server's attendance endpoint.
func Post(ctx context.Context, client *fasthttp.Client, server string, req service.AttendanceRequest) (*service.AttendanceResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq := fasthttp.AcquireRequest()
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(strings.TrimRight(server, "/") + "/api/attendance")
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/json")
	httpReq.SetBody(body)

	if deadline, ok := ctx.Deadline(); ok {
		err = client.DoDeadline(httpReq, httpResp, deadline)
	} else {
		err = client.Do(httpReq, httpResp)
	}
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	var resp service.AttendanceResponse
	if err := json.Unmarshal(httpResp.Body(), &resp); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", httpResp.StatusCode(), err)
	}
	if httpResp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", httpResp.StatusCode(), resp.Error)
	}
	return &resp, nil
}

func readPlayers(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close() //nolint:errcheck // read-only
		r = f
	}
	return ParsePlayers(r)
}

// ParsePlayers reads one name per line, skipping blanks and # comments.
func ParsePlayers(r io.Reader) ([]string, error) {
	var players []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		players = append(players, line)
	}
	return players, sc.Err()
}
