package db

import (
	"context"
)

const getGuildStatisticsForMonth = `SELECT
    id, guild_name, min_gp, month, guild_size, kill_fame, death_fame, average_attendance,
    dps_avg_kd, dps_avg_ip, dps_avg_kill_contribution, dps_avg_damage, dps_avg_healing,
    dps_avg_fame, dps_player_count, tank_avg_kd, tank_avg_ip, tank_avg_kill_contribution,
    tank_avg_damage, tank_avg_healing, tank_avg_fame, tank_player_count, healer_avg_kd,
    healer_avg_ip, healer_avg_kill_contribution, healer_avg_damage, healer_avg_healing,
    healer_avg_fame, healer_player_count, support_avg_kd, support_avg_ip,
    support_avg_kill_contribution, support_avg_damage, support_avg_healing,
    support_avg_fame, support_player_count, utility_avg_kd, utility_avg_ip,
    utility_avg_kill_contribution, utility_avg_damage, utility_avg_healing,
    utility_avg_fame, utility_player_count, created_at, updated_at
FROM guild_statistics
WHERE lower(guild_name) = lower(?) AND min_gp = ? AND month = ?
ORDER BY updated_at DESC
LIMIT 1;
`

func (q *Queries) GetGuildStatisticsForMonth(ctx context.Context, guildName string, minGp int64, month string) (GuildStatistic, error) {
	row := q.db.QueryRowContext(ctx, getGuildStatisticsForMonth, guildName, minGp, month)
	return scanGuildStatistic(row)
}

const insertGuildStatistics = `INSERT INTO guild_statistics (
    id, guild_name, min_gp, month, guild_size, kill_fame, death_fame, average_attendance,
    dps_avg_kd, dps_avg_ip, dps_avg_kill_contribution, dps_avg_damage, dps_avg_healing,
    dps_avg_fame, dps_player_count, tank_avg_kd, tank_avg_ip, tank_avg_kill_contribution,
    tank_avg_damage, tank_avg_healing, tank_avg_fame, tank_player_count, healer_avg_kd,
    healer_avg_ip, healer_avg_kill_contribution, healer_avg_damage, healer_avg_healing,
    healer_avg_fame, healer_player_count, support_avg_kd, support_avg_ip,
    support_avg_kill_contribution, support_avg_damage, support_avg_healing,
    support_avg_fame, support_player_count, utility_avg_kd, utility_avg_ip,
    utility_avg_kill_contribution, utility_avg_damage, utility_avg_healing,
    utility_avg_fame, utility_player_count, created_at, updated_at
) VALUES (
    ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
    ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
);
`

func (q *Queries) InsertGuildStatistics(ctx context.Context, arg GuildStatistic) error {
	args := []interface{}{arg.ID, arg.GuildName, arg.MinGp, arg.Month, arg.GuildSize, arg.KillFame, arg.DeathFame, arg.AverageAttendance}
	args = appendRoleArgs(args, arg)
	args = append(args, arg.CreatedAt, arg.UpdatedAt)
	_, err := q.db.ExecContext(ctx, insertGuildStatistics, args...)
	return err
}

const updateGuildStatistics = `UPDATE guild_statistics SET
    month = ?, guild_size = ?, kill_fame = ?, death_fame = ?, average_attendance = ?,
    dps_avg_kd = ?, dps_avg_ip = ?, dps_avg_kill_contribution = ?, dps_avg_damage = ?,
    dps_avg_healing = ?, dps_avg_fame = ?, dps_player_count = ?, tank_avg_kd = ?,
    tank_avg_ip = ?, tank_avg_kill_contribution = ?, tank_avg_damage = ?,
    tank_avg_healing = ?, tank_avg_fame = ?, tank_player_count = ?, healer_avg_kd = ?,
    healer_avg_ip = ?, healer_avg_kill_contribution = ?, healer_avg_damage = ?,
    healer_avg_healing = ?, healer_avg_fame = ?, healer_player_count = ?,
    support_avg_kd = ?, support_avg_ip = ?, support_avg_kill_contribution = ?,
    support_avg_damage = ?, support_avg_healing = ?, support_avg_fame = ?,
    support_player_count = ?, utility_avg_kd = ?, utility_avg_ip = ?,
    utility_avg_kill_contribution = ?, utility_avg_damage = ?, utility_avg_healing = ?,
    utility_avg_fame = ?, utility_player_count = ?, updated_at = ?
WHERE id = ?;
`

func (q *Queries) UpdateGuildStatistics(ctx context.Context, arg GuildStatistic) error {
	args := []interface{}{arg.Month, arg.GuildSize, arg.KillFame, arg.DeathFame, arg.AverageAttendance}
	args = appendRoleArgs(args, arg)
	args = append(args, arg.UpdatedAt, arg.ID)
	_, err := q.db.ExecContext(ctx, updateGuildStatistics, args...)
	return err
}

const findSimilarGuild = `SELECT
    id, guild_name, min_gp, month, guild_size, kill_fame, death_fame, average_attendance,
    dps_avg_kd, dps_avg_ip, dps_avg_kill_contribution, dps_avg_damage, dps_avg_healing,
    dps_avg_fame, dps_player_count, tank_avg_kd, tank_avg_ip, tank_avg_kill_contribution,
    tank_avg_damage, tank_avg_healing, tank_avg_fame, tank_player_count, healer_avg_kd,
    healer_avg_ip, healer_avg_kill_contribution, healer_avg_damage, healer_avg_healing,
    healer_avg_fame, healer_player_count, support_avg_kd, support_avg_ip,
    support_avg_kill_contribution, support_avg_damage, support_avg_healing,
    support_avg_fame, support_player_count, utility_avg_kd, utility_avg_ip,
    utility_avg_kill_contribution, utility_avg_damage, utility_avg_healing,
    utility_avg_fame, utility_player_count, created_at, updated_at
FROM guild_statistics
WHERE min_gp = ? AND month = ?
  AND guild_size >= ? AND guild_size <= ?
  AND lower(guild_name) <> lower(?)
  AND average_attendance > 0
  AND kill_fame > 0
ORDER BY kill_fame DESC, average_attendance DESC
LIMIT 1;
`

type FindSimilarGuildParams struct {
	MinGp       int64
	Month       string
	MinSize     float64
	MaxSize     float64
	ExcludeName string
}

func (q *Queries) FindSimilarGuild(ctx context.Context, arg FindSimilarGuildParams) (GuildStatistic, error) {
	row := q.db.QueryRowContext(ctx, findSimilarGuild,
		arg.MinGp,
		arg.Month,
		arg.MinSize,
		arg.MaxSize,
		arg.ExcludeName,
	)
	return scanGuildStatistic(row)
}

const findBestGuild = `SELECT
    id, guild_name, min_gp, month, guild_size, kill_fame, death_fame, average_attendance,
    dps_avg_kd, dps_avg_ip, dps_avg_kill_contribution, dps_avg_damage, dps_avg_healing,
    dps_avg_fame, dps_player_count, tank_avg_kd, tank_avg_ip, tank_avg_kill_contribution,
    tank_avg_damage, tank_avg_healing, tank_avg_fame, tank_player_count, healer_avg_kd,
    healer_avg_ip, healer_avg_kill_contribution, healer_avg_damage, healer_avg_healing,
    healer_avg_fame, healer_player_count, support_avg_kd, support_avg_ip,
    support_avg_kill_contribution, support_avg_damage, support_avg_healing,
    support_avg_fame, support_player_count, utility_avg_kd, utility_avg_ip,
    utility_avg_kill_contribution, utility_avg_damage, utility_avg_healing,
    utility_avg_fame, utility_player_count, created_at, updated_at
FROM guild_statistics
WHERE min_gp = ? AND month = ?
  AND guild_size >= ? AND guild_size <= ?
ORDER BY kill_fame DESC, average_attendance DESC, guild_size DESC
LIMIT 1;
`

type FindBestGuildParams struct {
	MinGp   int64
	Month   string
	MinSize float64
	MaxSize float64
}

func (q *Queries) FindBestGuild(ctx context.Context, arg FindBestGuildParams) (GuildStatistic, error) {
	row := q.db.QueryRowContext(ctx, findBestGuild,
		arg.MinGp,
		arg.Month,
		arg.MinSize,
		arg.MaxSize,
	)
	return scanGuildStatistic(row)
}

const getGlobalAverageAttendance = `SELECT CAST(COALESCE(AVG(average_attendance), 0) AS REAL)
FROM guild_statistics
WHERE min_gp = ? AND month = ? AND average_attendance > 0;
`

func (q *Queries) GetGlobalAverageAttendance(ctx context.Context, minGp int64, month string) (float64, error) {
	row := q.db.QueryRowContext(ctx, getGlobalAverageAttendance, minGp, month)
	var avg float64
	err := row.Scan(&avg)
	return avg, err
}

const listGuildStatistics = `SELECT
    id, guild_name, min_gp, month, guild_size, kill_fame, death_fame, average_attendance,
    dps_avg_kd, dps_avg_ip, dps_avg_kill_contribution, dps_avg_damage, dps_avg_healing,
    dps_avg_fame, dps_player_count, tank_avg_kd, tank_avg_ip, tank_avg_kill_contribution,
    tank_avg_damage, tank_avg_healing, tank_avg_fame, tank_player_count, healer_avg_kd,
    healer_avg_ip, healer_avg_kill_contribution, healer_avg_damage, healer_avg_healing,
    healer_avg_fame, healer_player_count, support_avg_kd, support_avg_ip,
    support_avg_kill_contribution, support_avg_damage, support_avg_healing,
    support_avg_fame, support_player_count, utility_avg_kd, utility_avg_ip,
    utility_avg_kill_contribution, utility_avg_damage, utility_avg_healing,
    utility_avg_fame, utility_player_count, created_at, updated_at
FROM guild_statistics
WHERE lower(guild_name) = lower(?) AND min_gp = ?
ORDER BY month DESC, updated_at DESC
LIMIT ?;
`

type ListGuildStatisticsParams struct {
	GuildName string
	MinGp     int64
	Limit     int64
}

func (q *Queries) ListGuildStatistics(ctx context.Context, arg ListGuildStatisticsParams) ([]GuildStatistic, error) {
	rows, err := q.db.QueryContext(ctx, listGuildStatistics, arg.GuildName, arg.MinGp, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GuildStatistic
	for rows.Next() {
		i, err := scanGuildStatistic(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func roleDest(r *RoleColumns) []interface{} {
	return []interface{}{&r.AvgKd, &r.AvgIp, &r.AvgKillContribution, &r.AvgDamage, &r.AvgHealing, &r.AvgFame, &r.PlayerCount}
}

func roleArgs(r RoleColumns) []interface{} {
	return []interface{}{r.AvgKd, r.AvgIp, r.AvgKillContribution, r.AvgDamage, r.AvgHealing, r.AvgFame, r.PlayerCount}
}

func appendRoleArgs(args []interface{}, arg GuildStatistic) []interface{} {
	for _, r := range []RoleColumns{arg.Dps, arg.Tank, arg.Healer, arg.Support, arg.Utility} {
		args = append(args, roleArgs(r)...)
	}
	return args
}

func scanGuildStatistic(s scanner) (GuildStatistic, error) {
	var i GuildStatistic
	dest := []interface{}{&i.ID, &i.GuildName, &i.MinGp, &i.Month, &i.GuildSize, &i.KillFame, &i.DeathFame, &i.AverageAttendance}
	for _, r := range []*RoleColumns{&i.Dps, &i.Tank, &i.Healer, &i.Support, &i.Utility} {
		dest = append(dest, roleDest(r)...)
	}
	dest = append(dest, &i.CreatedAt, &i.UpdatedAt)
	err := s.Scan(dest...)
	return i, err
}
