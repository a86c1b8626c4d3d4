package scoring

import (
	"testing"

	"albion-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestPerformanceScore(t *testing.T) {
	tests := []struct {
		name      string
		role      domain.Role
		value     float64
		kd        float64
		avgIP     float64
		guildSize int
		want      float64
	}{
		// base = 12000/10 = 1200, ipFactor = 1, kdFactor = 3/2 = 1.5
		{"dps uses kd factor", domain.RoleDPS, 12000, 3, 1200, 10, 1800},
		{"utility uses kd factor", domain.RoleUtility, 12000, 3, 1200, 10, 1800},
		{"tank half weighted", domain.RoleTank, 12000, 3, 1200, 10, 1200 * 1.25},
		{"healer ignores kd", domain.RoleHealer, 12000, 3, 1200, 10, 1200},
		{"support lightly weighted", domain.RoleSupport, 12000, 3, 1200, 10, 1200 * 1.15},
		{"kd capped at five", domain.RoleDPS, 12000, 50, 1200, 10, 1200 * 2.5},
		{"item power scales", domain.RoleHealer, 12000, 0, 600, 10, 600},
		{"zero guild size", domain.RoleDPS, 12000, 3, 1200, 0, 0},
		{"negative guild size", domain.RoleDPS, 12000, 3, 1200, -4, 0},
		{"zero kd zeroes dps", domain.RoleDPS, 12000, 0, 1200, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PerformanceScore(tt.role, tt.value, tt.kd, tt.avgIP, tt.guildSize), 1e-9)
		})
	}
}

func TestGuildPerformanceUsesHealingForHealers(t *testing.T) {
	stats := domain.GuildStatistics{GuildSize: 10}
	stats.Roles.Healer = domain.RoleStats{AverageDamage: 99999, AverageHealing: 5000, AverageKD: 1, AverageIP: 1200}
	stats.Roles.DPS = domain.RoleStats{AverageDamage: 5000, AverageHealing: 99999, AverageKD: 2, AverageIP: 1200}

	assert.InDelta(t, 500.0, GuildPerformance(stats, domain.RoleHealer), 1e-9)
	assert.InDelta(t, 500.0, GuildPerformance(stats, domain.RoleDPS), 1e-9)
}

func TestPlayerPerformance(t *testing.T) {
	rec := domain.PlayerBattleRecord{Kills: 4, Deaths: 0, AverageIP: 1200, TotalDamage: 1000, TotalHealing: 3000}
	// kd 4 -> factor 2
	assert.InDelta(t, 200.0, PlayerPerformance(rec, domain.RoleDPS, 10), 1e-9)
	assert.InDelta(t, 300.0, PlayerPerformance(rec, domain.RoleHealer, 10), 1e-9)
}
