package notify

import (
	"albion-tracker/internal/constants"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// RegisterEviction schedules EvictStale on sched.
func RegisterEviction(sched gocron.Scheduler, registry *Registry, logger zerolog.Logger) error {
	_, err := sched.NewJob(
		gocron.DurationJob(constants.EvictionPeriod),
		gocron.NewTask(func() {
			registry.EvictStale()
		}),
		gocron.WithName("evict-stale-subscribers"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	logger.Debug().Dur("period", constants.EvictionPeriod).Msg("subscriber eviction scheduled")
	return nil
}
