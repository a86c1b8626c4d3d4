package scoring

import (
	"strings"
	"time"

	"albion-tracker/internal/domain"
)

type AggregateInput struct {
	GuildName string
	MinGP     int
	Players   []domain.PlayerBattleRecord
	// GuildInfo is optional external metadata. Without it the guild size is
	// the number of players.
	GuildInfo *domain.GuildInfo
	Now       time.Time
}

// KDRatio returns kills per death, treating zero deaths as one.
func KDRatio(kills, deaths int) float64 {
	if deaths < 1 {
		deaths = 1
	}
	return float64(kills) / float64(deaths)
}

// Average returns the arithmetic mean, or 0 for an empty slice.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// KillContribution is the share of the guild's kills, in percent.
func KillContribution(kills, guildKills int) float64 {
	if guildKills <= 0 {
		return 0
	}
	return float64(kills) / float64(guildKills) * 100
}

type roleSamples struct {
	kd, ip, contribution, damage, healing, fame []float64
}

func (s *roleSamples) stats() domain.RoleStats {
	return domain.RoleStats{
		AverageKD:               Average(s.kd),
		AverageIP:               Average(s.ip),
		AverageKillContribution: Average(s.contribution),
		AverageDamage:           Average(s.damage),
		AverageHealing:          Average(s.healing),
		AverageFame:             Average(s.fame),
		PlayerCount:             len(s.kd),
	}
}

// BuildGuildStatistics partitions players by role and averages each role's
// metrics. Roles with no players get zero for every average.
func BuildGuildStatistics(in AggregateInput) domain.GuildStatistics {
	var guildKills int
	battles := make([]float64, 0, len(in.Players))
	for _, p := range in.Players {
		guildKills += p.Kills
		battles = append(battles, float64(p.Battles))
	}

	samples := make(map[domain.Role]*roleSamples, len(domain.Roles))
	for _, role := range domain.Roles {
		samples[role] = &roleSamples{}
	}

	for _, p := range in.Players {
		s := samples[ClassifyRole(p)]
		s.kd = append(s.kd, KDRatio(p.Kills, p.Deaths))
		s.ip = append(s.ip, p.AverageIP)
		s.contribution = append(s.contribution, KillContribution(p.Kills, guildKills))
		s.damage = append(s.damage, p.TotalDamage)
		s.healing = append(s.healing, p.TotalHealing)
		s.fame = append(s.fame, p.TotalFame)
	}

	stats := domain.GuildStatistics{
		GuildName:         strings.TrimSpace(in.GuildName),
		MinGP:             in.MinGP,
		Month:             domain.MonthOf(in.Now),
		GuildSize:         len(in.Players),
		AverageAttendance: Average(battles),
	}
	if in.GuildInfo != nil {
		stats.KillFame = in.GuildInfo.KillFame
		stats.DeathFame = in.GuildInfo.DeathFame
		if in.GuildInfo.MemberCount > 0 {
			stats.GuildSize = in.GuildInfo.MemberCount
		}
	}

	for _, role := range domain.Roles {
		stats.Roles.Set(role, samples[role].stats())
	}
	return stats
}
