package scoring

import (
	"math"

	"albion-tracker/internal/domain"
)

const (
	// ReferenceIP normalizes item power to a factor around 1.
	ReferenceIP = 1200.0
	// KDCap bounds how much a high kill/death ratio can contribute.
	KDCap = 5.0
	// KDNormalizer maps the capped ratio onto the kd factor.
	KDNormalizer = 2.0
)

// kdWeight applies the role's reliance on kill/death ratio.
func kdWeight(role domain.Role, kdFactor float64) float64 {
	switch role {
	case domain.RoleTank:
		return kdFactor*0.5 + 0.5
	case domain.RoleHealer:
		return 1
	case domain.RoleSupport:
		return kdFactor*0.3 + 0.7
	default:
		return kdFactor
	}
}

// PerformanceScore combines output per guild member with kill/death and item
// power factors. value is healing for healers and damage for everyone else.
func PerformanceScore(role domain.Role, value, kd, avgIP float64, guildSize int) float64 {
	if guildSize <= 0 {
		return 0
	}
	kdFactor := math.Min(kd, KDCap) / KDNormalizer
	ipFactor := avgIP / ReferenceIP
	return (value / float64(guildSize)) * kdWeight(role, kdFactor) * ipFactor
}

// RoleOutput is the quantity a role is judged on.
func RoleOutput(role domain.Role, damage, healing float64) float64 {
	if role == domain.RoleHealer {
		return healing
	}
	return damage
}

// GuildPerformance scores a guild's averages for one role.
func GuildPerformance(stats domain.GuildStatistics, role domain.Role) float64 {
	rs := stats.Roles.For(role)
	return PerformanceScore(role, RoleOutput(role, rs.AverageDamage, rs.AverageHealing), rs.AverageKD, rs.AverageIP, stats.GuildSize)
}

// PlayerPerformance scores a single player with the same formula, using the
// player's own totals against their guild's size.
func PlayerPerformance(rec domain.PlayerBattleRecord, role domain.Role, guildSize int) float64 {
	return PerformanceScore(role, RoleOutput(role, rec.TotalDamage, rec.TotalHealing), KDRatio(rec.Kills, rec.Deaths), rec.AverageIP, guildSize)
}
