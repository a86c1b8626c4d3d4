// Package history implements the history command.
package history

import (
	"context"
	"os"

	"albion-tracker/internal/config"
	"albion-tracker/internal/database"
	"albion-tracker/internal/db"
	"albion-tracker/internal/output"
	"albion-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// Command reads stored statistics straight from the database file.
type Command struct {
	DB    string `default:"albion.db" env:"DB_PATH" help:"SQLite database path." type:"path"`
	MinGP int    `default:"0" help:"Minimum group size bucket." name:"min-gp"`
	Limit int    `default:"12" help:"Months to show."`

	Guild string `arg:"" help:"Guild name."`
}

func (c *Command) Run(log zerolog.Logger) error {
	ctx := context.Background()

	sqlDB, err := database.New(&config.Config{DBPath: c.DB}, log)
	if err != nil {
		return err
	}
	defer sqlDB.Close() //nolint:errcheck // Nothing to do with error on program exit.

	repo := repository.NewGuildStatisticsRepository(sqlDB, db.New(sqlDB), log)
	rows, err := repo.History(ctx, c.Guild, c.MinGP, c.Limit)
	if err != nil {
		return err
	}
	return output.Table(os.Stdout, output.HistoryHeaders, output.HistoryRows(rows))
}
