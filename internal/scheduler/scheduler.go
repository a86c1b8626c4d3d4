package scheduler

import (
	"context"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New builds the process-wide job scheduler and ties it to the fx lifecycle.
func New(lc fx.Lifecycle, logger zerolog.Logger) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sched.Start()
			logger.Info().Int("jobs", len(sched.Jobs())).Msg("scheduler started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("stopping scheduler")
			return sched.Shutdown()
		},
	})
	return sched, nil
}

var Module = fx.Provide(New)
