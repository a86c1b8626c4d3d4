package scoring

import (
	"sort"
	"strings"

	"albion-tracker/internal/domain"
)

const TopItemCount = 3

// Tier thresholds as multiples of the global average attendance and the
// similar guild's performance score.
const (
	TierSAttendance  = 1.5
	TierSPerformance = 1.2
	TierAAttendance  = 1.0
	TierAPerformance = 1.0
	TierBAttendance  = 0.5
	TierBPerformance = 0.8
)

type RankInput struct {
	Players []domain.PlayerBattleRecord
	// Missing holds lower-cased names of players that were backfilled with
	// placeholders.
	Missing                 map[string]struct{}
	Current                 domain.GuildStatistics
	Similar                 *domain.GuildStatistics
	Best                    *domain.GuildStatistics
	GlobalAverageAttendance float64
}

// Backfill appends a placeholder for every requested name the provider did
// not return. Names match case-insensitively; fetched order is preserved and
// placeholders follow in request order.
func Backfill(fetched []domain.PlayerBattleRecord, requested []string) ([]domain.PlayerBattleRecord, map[string]struct{}) {
	seen := make(map[string]struct{}, len(fetched))
	for _, p := range fetched {
		seen[strings.ToLower(p.Name)] = struct{}{}
	}

	out := make([]domain.PlayerBattleRecord, 0, len(fetched)+len(requested))
	out = append(out, fetched...)
	missing := make(map[string]struct{})
	for _, name := range requested {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		missing[key] = struct{}{}
		out = append(out, domain.Placeholder(strings.TrimSpace(name)))
	}
	return out, missing
}

// AttendancePercentage is the player's battle count relative to the global
// average, expressed as percent above (or below) it.
func AttendancePercentage(battles int, globalAverage float64) float64 {
	if globalAverage == 0 {
		return 0
	}
	return float64(battles)/globalAverage*100 - 100
}

// AssignTier buckets a player by attendance and performance. With no similar
// guild similarScore is 0, so any positive score passes the performance half
// of each check and a zero score never does.
func AssignTier(battles int, performanceScore, globalAverage, similarScore float64) domain.Tier {
	b := float64(battles)
	switch {
	case b >= TierSAttendance*globalAverage && performanceScore > TierSPerformance*similarScore:
		return domain.TierS
	case b >= TierAAttendance*globalAverage && performanceScore > TierAPerformance*similarScore:
		return domain.TierA
	case b >= TierBAttendance*globalAverage && performanceScore > TierBPerformance*similarScore:
		return domain.TierB
	default:
		return domain.TierC
	}
}

func comparisonFor(stats *domain.GuildStatistics, role domain.Role) *domain.GuildComparison {
	if stats == nil {
		return nil
	}
	rs := stats.Roles.For(role)
	return &domain.GuildComparison{
		KD:               rs.AverageKD,
		GuildName:        stats.GuildName,
		GuildSize:        stats.GuildSize,
		AverageIP:        rs.AverageIP,
		Performance:      RoleOutput(role, rs.AverageDamage, rs.AverageHealing),
		PerformanceScore: GuildPerformance(*stats, role),
	}
}

func topItems(items []domain.ItemUsage) []domain.ItemUsage {
	sorted := make([]domain.ItemUsage, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	if len(sorted) > TopItemCount {
		sorted = sorted[:TopItemCount]
	}
	return sorted
}

func missingRanking(name string) domain.PlayerRanking {
	return domain.PlayerRanking{
		Name:                 name,
		Role:                 domain.RoleUtility,
		Tier:                 domain.TierC,
		AttendanceComparison: -100,
		TopItems:             []domain.ItemUsage{},
	}
}

// RankPlayers scores, tiers and orders every player. The result is sorted by
// attendance then performance score, both descending, and ranks are the
// 1-based positions after sorting.
func RankPlayers(in RankInput) []domain.PlayerRanking {
	rankings := make([]domain.PlayerRanking, 0, len(in.Players))

	for _, p := range in.Players {
		if _, ok := in.Missing[strings.ToLower(p.Name)]; ok {
			rankings = append(rankings, missingRanking(p.Name))
			continue
		}

		role := ClassifyRole(p)
		score := PlayerPerformance(p, role, in.Current.GuildSize)

		var similarScore float64
		if in.Similar != nil {
			similarScore = GuildPerformance(*in.Similar, role)
		}

		current := in.Current
		rankings = append(rankings, domain.PlayerRanking{
			Name:                 p.Name,
			Role:                 role,
			Tier:                 AssignTier(p.Battles, score, in.GlobalAverageAttendance, similarScore),
			Kills:                p.Kills,
			Deaths:               p.Deaths,
			AverageIP:            p.AverageIP,
			TotalAttendance:      p.Battles,
			AttendanceComparison: AttendancePercentage(p.Battles, in.GlobalAverageAttendance),
			TopItems:             topItems(p.UsedItems),
			Comparison: &domain.PlayerComparison{
				Current: comparisonFor(&current, role),
				Similar: comparisonFor(in.Similar, role),
				Best:    comparisonFor(in.Best, role),
			},
			Damage:           p.TotalDamage,
			Healing:          p.TotalHealing,
			PerformanceScore: score,
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].TotalAttendance != rankings[j].TotalAttendance {
			return rankings[i].TotalAttendance > rankings[j].TotalAttendance
		}
		return rankings[i].PerformanceScore > rankings[j].PerformanceScore
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings
}
