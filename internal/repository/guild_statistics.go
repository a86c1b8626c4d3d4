package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"albion-tracker/internal/constants"
	"albion-tracker/internal/database"
	"albion-tracker/internal/db"
	"albion-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("guild statistics not found")

const monthLayout = "2006-01"

type GuildStatisticsRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
	now     func() time.Time
}

func NewGuildStatisticsRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *GuildStatisticsRepository {
	return &GuildStatisticsRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
		now:     time.Now,
	}
}

// Upsert keeps one row per guild, minGP and calendar month: the current
// month's row is updated in place when it exists, otherwise a new row is
// inserted. Rows from other months, earlier or later, are never touched.
// The lookup and the write share a transaction, so a concurrent writer that
// loses the race fails with a busy error and gets the one retry.
func (r *GuildStatisticsRepository) Upsert(ctx context.Context, stats domain.GuildStatistics) (domain.GuildStatistics, error) {
	now := r.now().UTC()
	stats.Month = domain.MonthOf(now)
	stats.UpdatedAt = now

	return database.WithRetry(ctx, r.logger, "upsert_guild_statistics", func(ctx context.Context) (domain.GuildStatistics, error) {
		return r.upsert(ctx, stats)
	})
}

func (r *GuildStatisticsRepository) upsert(ctx context.Context, stats domain.GuildStatistics) (domain.GuildStatistics, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.GuildStatistics{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	month := stats.Month.Format(monthLayout)

	inserted := false
	current, err := q.GetGuildStatisticsForMonth(ctx, stats.GuildName, int64(stats.MinGP), month)
	switch {
	case err == nil:
		stats.ID = current.ID
		stats.CreatedAt = current.CreatedAt
		// the stored spelling of the name is kept
		stats.GuildName = current.GuildName

		if err := q.UpdateGuildStatistics(ctx, toRow(stats)); err != nil {
			return domain.GuildStatistics{}, fmt.Errorf("failed to update statistics %s: %w", stats.ID, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		id, err := gonanoid.New()
		if err != nil {
			return domain.GuildStatistics{}, fmt.Errorf("failed to generate nanoid: %w", err)
		}
		stats.ID = id
		stats.CreatedAt = stats.UpdatedAt
		inserted = true

		if err := q.InsertGuildStatistics(ctx, toRow(stats)); err != nil {
			return domain.GuildStatistics{}, fmt.Errorf("failed to insert statistics for %s: %w", stats.GuildName, err)
		}
	default:
		return domain.GuildStatistics{}, fmt.Errorf("failed to load %s statistics for %s: %w", month, stats.GuildName, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.GuildStatistics{}, fmt.Errorf("failed to commit statistics for %s: %w", stats.GuildName, err)
	}

	r.logger.Debug().
		Str("id", stats.ID).
		Str("guild", stats.GuildName).
		Int("min_gp", stats.MinGP).
		Str("month", month).
		Bool("inserted", inserted).
		Msg("guild statistics stored")
	return stats, nil
}

// FindSimilarGuild picks the highest kill-fame guild of the month whose size
// is within 80-120% of size, excluding the guild itself.
func (r *GuildStatisticsRepository) FindSimilarGuild(ctx context.Context, minGP int, month time.Time, size int, excludeName string) (*domain.GuildStatistics, error) {
	params := db.FindSimilarGuildParams{
		MinGp:       int64(minGP),
		Month:       domain.MonthOf(month).Format(monthLayout),
		MinSize:     float64(size) * constants.SimilarSizeLow,
		MaxSize:     float64(size) * constants.SimilarSizeHigh,
		ExcludeName: excludeName,
	}
	row, err := database.WithRetry(ctx, r.logger, "find_similar_guild", func(ctx context.Context) (db.GuildStatistic, error) {
		return r.queries.FindSimilarGuild(ctx, params)
	})
	return single(row, err)
}

// FindBestGuild picks the top guild of the month by kill fame, then
// attendance, then size. A positive sizeHint restricts candidates to 50-200%
// of it.
func (r *GuildStatisticsRepository) FindBestGuild(ctx context.Context, minGP int, month time.Time, sizeHint int) (*domain.GuildStatistics, error) {
	params := db.FindBestGuildParams{
		MinGp:   int64(minGP),
		Month:   domain.MonthOf(month).Format(monthLayout),
		MinSize: 0,
		MaxSize: math.MaxInt64,
	}
	if sizeHint > 0 {
		params.MinSize = float64(sizeHint) * constants.BestSizeLow
		params.MaxSize = float64(sizeHint) * constants.BestSizeHigh
	}
	row, err := database.WithRetry(ctx, r.logger, "find_best_guild", func(ctx context.Context) (db.GuildStatistic, error) {
		return r.queries.FindBestGuild(ctx, params)
	})
	return single(row, err)
}

// GlobalAverageAttendance averages attendance over every guild with a
// positive attendance for the month and minGP. No rows yields 0.
func (r *GuildStatisticsRepository) GlobalAverageAttendance(ctx context.Context, minGP int, month time.Time) (float64, error) {
	return database.WithRetry(ctx, r.logger, "global_average_attendance", func(ctx context.Context) (float64, error) {
		return r.queries.GetGlobalAverageAttendance(ctx, int64(minGP), domain.MonthOf(month).Format(monthLayout))
	})
}

func (r *GuildStatisticsRepository) History(ctx context.Context, guildName string, minGP, limit int) ([]domain.GuildStatistics, error) {
	if limit <= 0 {
		limit = constants.StatisticsHistoryLimit
	}
	rows, err := database.WithRetry(ctx, r.logger, "list_guild_statistics", func(ctx context.Context) ([]db.GuildStatistic, error) {
		return r.queries.ListGuildStatistics(ctx, db.ListGuildStatisticsParams{
			GuildName: guildName,
			MinGp:     int64(minGP),
			Limit:     int64(limit),
		})
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.GuildStatistics, len(rows))
	for i, row := range rows {
		result[i] = fromRow(row)
	}
	return result, nil
}

func (r *GuildStatisticsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func single(row db.GuildStatistic, err error) (*domain.GuildStatistics, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	stats := fromRow(row)
	return &stats, nil
}

func toRoleColumns(s domain.RoleStats) db.RoleColumns {
	return db.RoleColumns{
		AvgKd:               s.AverageKD,
		AvgIp:               s.AverageIP,
		AvgKillContribution: s.AverageKillContribution,
		AvgDamage:           s.AverageDamage,
		AvgHealing:          s.AverageHealing,
		AvgFame:             s.AverageFame,
		PlayerCount:         int64(s.PlayerCount),
	}
}

func fromRoleColumns(c db.RoleColumns) domain.RoleStats {
	return domain.RoleStats{
		AverageKD:               c.AvgKd,
		AverageIP:               c.AvgIp,
		AverageKillContribution: c.AvgKillContribution,
		AverageDamage:           c.AvgDamage,
		AverageHealing:          c.AvgHealing,
		AverageFame:             c.AvgFame,
		PlayerCount:             int(c.PlayerCount),
	}
}

func toRow(s domain.GuildStatistics) db.GuildStatistic {
	return db.GuildStatistic{
		ID:                s.ID,
		GuildName:         s.GuildName,
		MinGp:             int64(s.MinGP),
		Month:             s.Month.Format(monthLayout),
		GuildSize:         int64(s.GuildSize),
		KillFame:          s.KillFame,
		DeathFame:         s.DeathFame,
		AverageAttendance: s.AverageAttendance,
		Dps:               toRoleColumns(s.Roles.DPS),
		Tank:              toRoleColumns(s.Roles.Tank),
		Healer:            toRoleColumns(s.Roles.Healer),
		Support:           toRoleColumns(s.Roles.Support),
		Utility:           toRoleColumns(s.Roles.Utility),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func fromRow(row db.GuildStatistic) domain.GuildStatistics {
	month, err := time.ParseInLocation(monthLayout, row.Month, time.UTC)
	if err != nil {
		month = time.Time{}
	}
	return domain.GuildStatistics{
		ID:                row.ID,
		GuildName:         row.GuildName,
		MinGP:             int(row.MinGp),
		Month:             month,
		GuildSize:         int(row.GuildSize),
		KillFame:          row.KillFame,
		DeathFame:         row.DeathFame,
		AverageAttendance: row.AverageAttendance,
		Roles: domain.RoleBreakdown{
			DPS:     fromRoleColumns(row.Dps),
			Tank:    fromRoleColumns(row.Tank),
			Healer:  fromRoleColumns(row.Healer),
			Support: fromRoleColumns(row.Support),
			Utility: fromRoleColumns(row.Utility),
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
