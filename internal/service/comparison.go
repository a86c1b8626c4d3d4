package service

import (
	"context"
	"errors"

	"albion-tracker/internal/constants"
	"albion-tracker/internal/domain"
	"albion-tracker/internal/repository"
	"albion-tracker/internal/results"

	"golang.org/x/sync/errgroup"
)

type comparisons struct {
	globalAverage results.OperationResult[float64, error]
	similar       results.OperationResult[*domain.GuildStatistics, error]
	best          results.OperationResult[*domain.GuildStatistics, error]
}

func (c comparisons) allFailed() bool {
	return c.globalAverage.IsFailure() && c.similar.IsFailure() && c.best.IsFailure()
}

func (c comparisons) firstError() error {
	switch {
	case c.globalAverage.IsFailure():
		return *c.globalAverage.Failure
	case c.similar.IsFailure():
		return *c.similar.Failure
	case c.best.IsFailure():
		return *c.best.Failure
	}
	return nil
}

// loadComparisons runs the three comparison queries concurrently. Each one
// settles on its own; a failure in one never cancels the others.
func (s *AttendanceService) loadComparisons(ctx context.Context, stats domain.GuildStatistics) comparisons {
	ctx, span := s.tracer.Start(ctx, "AttendanceService.loadComparisons")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, constants.ComparisonTimeout)
	defer cancel()

	log := s.requestLogger(ctx)
	var out comparisons

	g := new(errgroup.Group)
	g.Go(func() error {
		avg, err := s.store.GlobalAverageAttendance(ctx, stats.MinGP, stats.Month)
		if err != nil {
			log.Warn().Err(err).Msg("global average attendance query failed")
			s.metrics.StoreFailures.WithLabelValues("global_average").Inc()
		}
		out.globalAverage = results.From(avg, err)
		return nil
	})
	g.Go(func() error {
		similar, err := optional(s.store.FindSimilarGuild(ctx, stats.MinGP, stats.Month, stats.GuildSize, stats.GuildName))
		if err != nil {
			log.Warn().Err(err).Msg("similar guild query failed")
			s.metrics.StoreFailures.WithLabelValues("similar_guild").Inc()
		}
		out.similar = results.From(similar, err)
		return nil
	})
	g.Go(func() error {
		best, err := optional(s.store.FindBestGuild(ctx, stats.MinGP, stats.Month, stats.GuildSize))
		if err != nil {
			log.Warn().Err(err).Msg("best guild query failed")
			s.metrics.StoreFailures.WithLabelValues("best_guild").Inc()
		}
		out.best = results.From(best, err)
		return nil
	})
	_ = g.Wait()

	return out
}

// optional turns "no matching guild" into a successful nil.
func optional(stats *domain.GuildStatistics, err error) (*domain.GuildStatistics, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return stats, err
}

func (s *AttendanceService) persist(ctx context.Context, stats domain.GuildStatistics) results.OperationResult[domain.GuildStatistics, error] {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	stored, err := s.store.Upsert(ctx, stats)
	return results.From(stored, err)
}
