// Package main implements albionctl, a command line client for the
// attendance tracker.
package main

import (
	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"albion-tracker/cmd/albionctl/attendance"
	"albion-tracker/cmd/albionctl/history"
	"albion-tracker/internal/logger"
)

type cli struct {
	Verbose bool `help:"Enable debug logging." short:"v"`

	Attendance attendance.Command `cmd:"" help:"Rank a guild's players by attendance and performance."`
	History    history.Command    `cmd:"" help:"Show stored monthly statistics for a guild."`
}

func main() {
	c := &cli{}
	ctx := kong.Parse(c,
		kong.Name("albionctl"),
		kong.Description("Albion Online guild attendance tools."),
		kong.UsageOnError(),
	)

	level := zerolog.WarnLevel
	if c.Verbose {
		level = zerolog.DebugLevel
	}
	ctx.FatalIfErrorf(ctx.Run(logger.SetLevel(level)))
}
