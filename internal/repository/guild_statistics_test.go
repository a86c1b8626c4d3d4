package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"albion-tracker/internal/config"
	"albion-tracker/internal/database"
	"albion-tracker/internal/db"
	"albion-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, now time.Time) *GuildStatisticsRepository {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "albion.db")}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo := NewGuildStatisticsRepository(sqlDB, db.New(sqlDB), zerolog.Nop())
	repo.now = func() time.Time { return now }
	return repo
}

func statsFor(name string, size int, killFame int64, attendance float64) domain.GuildStatistics {
	return domain.GuildStatistics{
		GuildName:         name,
		MinGP:             20,
		GuildSize:         size,
		KillFame:          killFame,
		DeathFame:         killFame / 2,
		AverageAttendance: attendance,
		Roles: domain.RoleBreakdown{
			DPS:    domain.RoleStats{AverageKD: 2, AverageIP: 1300, AverageDamage: 5000, PlayerCount: size},
			Healer: domain.RoleStats{AverageIP: 1250, AverageHealing: 9000, PlayerCount: 1},
		},
	}
}

var october = time.Date(2026, time.October, 18, 14, 30, 0, 0, time.UTC)

func rowsForMonth(t *testing.T, repo *GuildStatisticsRepository, name string, minGP int, month time.Time) []domain.GuildStatistics {
	t.Helper()
	history, err := repo.History(context.Background(), name, minGP, 0)
	require.NoError(t, err)

	var rows []domain.GuildStatistics
	for _, row := range history {
		if row.Month.Equal(domain.MonthOf(month)) {
			rows = append(rows, row)
		}
	}
	return rows
}

func TestUpsertSameMonthUpdatesInPlace(t *testing.T) {
	repo := newTestRepository(t, october)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, statsFor("Alpha", 40, 1000, 10))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, domain.MonthOf(october), first.Month)

	repo.now = func() time.Time { return october.Add(72 * time.Hour) }
	second, err := repo.Upsert(ctx, statsFor("alpha", 42, 2500, 14))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	rows := rowsForMonth(t, repo, "ALPHA", 20, october)
	require.Len(t, rows, 1)

	latest := rows[0]
	assert.Equal(t, "Alpha", latest.GuildName)
	assert.Equal(t, 42, latest.GuildSize)
	assert.Equal(t, int64(2500), latest.KillFame)
	assert.InDelta(t, 14.0, latest.AverageAttendance, 1e-9)
	assert.InDelta(t, 9000.0, latest.Roles.Healer.AverageHealing, 1e-9)
	assert.True(t, latest.UpdatedAt.After(latest.CreatedAt))
}

func TestUpsertNewMonthInserts(t *testing.T) {
	repo := newTestRepository(t, october)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, statsFor("Alpha", 40, 1000, 10))
	require.NoError(t, err)

	november := time.Date(2026, time.November, 2, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return november }
	second, err := repo.Upsert(ctx, statsFor("Alpha", 40, 1200, 11))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	history, err := repo.History(ctx, "alpha", 20, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.MonthOf(november), history[0].Month)
	assert.Equal(t, domain.MonthOf(october), history[1].Month)
}

func TestUpsertSeparatesMinGPBuckets(t *testing.T) {
	repo := newTestRepository(t, october)
	ctx := context.Background()

	zvz := statsFor("Alpha", 40, 1000, 10)
	all := statsFor("Alpha", 40, 1000, 25)
	all.MinGP = 0

	_, err := repo.Upsert(ctx, zvz)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, all)
	require.NoError(t, err)

	for _, minGP := range []int{0, 20} {
		assert.Len(t, rowsForMonth(t, repo, "Alpha", minGP, october), 1, "minGP %d", minGP)
	}
}

func TestUpsertIgnoresLaterMonths(t *testing.T) {
	november := time.Date(2026, time.November, 2, 9, 0, 0, 0, time.UTC)
	repo := newTestRepository(t, november)
	ctx := context.Background()

	future, err := repo.Upsert(ctx, statsFor("Alpha", 40, 1000, 10))
	require.NoError(t, err)

	// clock moved back a month
	repo.now = func() time.Time { return october }
	first, err := repo.Upsert(ctx, statsFor("Alpha", 41, 1100, 11))
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, statsFor("Alpha", 42, 1200, 12))
	require.NoError(t, err)

	assert.NotEqual(t, future.ID, first.ID)
	assert.Equal(t, first.ID, second.ID)

	rows := rowsForMonth(t, repo, "Alpha", 20, october)
	require.Len(t, rows, 1)
	assert.Equal(t, 42, rows[0].GuildSize)

	later := rowsForMonth(t, repo, "Alpha", 20, november)
	require.Len(t, later, 1)
	assert.Equal(t, 40, later[0].GuildSize)
}

func TestFindGuildNotFound(t *testing.T) {
	repo := newTestRepository(t, october)

	_, err := repo.FindBestGuild(context.Background(), 20, october, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPeerSelection(t *testing.T) {
	repo := newTestRepository(t, october)
	ctx := context.Background()

	seed := []domain.GuildStatistics{
		statsFor("Target", 50, 9000, 12),
		statsFor("Close", 55, 3000, 9),
		statsFor("CloseStronger", 45, 4000, 7),
		statsFor("Inactive", 50, 8000, 0),
		statsFor("NoFame", 50, 0, 8),
		statsFor("Huge", 200, 50000, 30),
		statsFor("Double", 100, 20000, 18),
	}
	for _, s := range seed {
		_, err := repo.Upsert(ctx, s)
		require.NoError(t, err)
	}

	t.Run("similar excludes target and idle guilds", func(t *testing.T) {
		similar, err := repo.FindSimilarGuild(ctx, 20, october, 50, "target")
		require.NoError(t, err)
		assert.Equal(t, "CloseStronger", similar.GuildName)
	})

	t.Run("similar with no candidates", func(t *testing.T) {
		_, err := repo.FindSimilarGuild(ctx, 20, october, 5, "Target")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("similar is scoped to month", func(t *testing.T) {
		_, err := repo.FindSimilarGuild(ctx, 20, october.AddDate(0, 1, 0), 50, "Target")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("best within size band", func(t *testing.T) {
		best, err := repo.FindBestGuild(ctx, 20, october, 50)
		require.NoError(t, err)
		assert.Equal(t, "Double", best.GuildName)
	})

	t.Run("best without size hint", func(t *testing.T) {
		best, err := repo.FindBestGuild(ctx, 20, october, 0)
		require.NoError(t, err)
		assert.Equal(t, "Huge", best.GuildName)
	})

	t.Run("global average ignores zero attendance", func(t *testing.T) {
		avg, err := repo.GlobalAverageAttendance(ctx, 20, october)
		require.NoError(t, err)
		// 12, 9, 7, 8, 30, 18
		assert.InDelta(t, 84.0/6.0, avg, 1e-9)
	})

	t.Run("global average with no rows", func(t *testing.T) {
		avg, err := repo.GlobalAverageAttendance(ctx, 99, october)
		require.NoError(t, err)
		assert.Zero(t, avg)
	})
}

func TestBestGuildTieBreaks(t *testing.T) {
	repo := newTestRepository(t, october)
	ctx := context.Background()

	for _, s := range []domain.GuildStatistics{
		statsFor("Small", 30, 5000, 10),
		statsFor("Big", 60, 5000, 10),
		statsFor("Busy", 40, 5000, 11),
	} {
		_, err := repo.Upsert(ctx, s)
		require.NoError(t, err)
	}

	best, err := repo.FindBestGuild(ctx, 20, october, 0)
	require.NoError(t, err)
	assert.Equal(t, "Busy", best.GuildName)

	_, err = repo.Upsert(ctx, statsFor("Busy", 40, 5000, 10))
	require.NoError(t, err)

	best, err = repo.FindBestGuild(ctx, 20, october, 0)
	require.NoError(t, err)
	assert.Equal(t, "Big", best.GuildName)
}

func TestPing(t *testing.T) {
	repo := newTestRepository(t, october)
	assert.NoError(t, repo.Ping(context.Background()))
}
