// Package scoring holds the attendance pipeline's pure computations: role
// classification, guild aggregation, performance scoring and player ranking.
// Nothing in this package performs I/O.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"albion-tracker/internal/domain"
)

// parseTotal reads a provider category total. Anything unparsable counts as 0.
func parseTotal(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

// ClassifyRole picks the dominant role from the record's category totals.
// Candidates are checked in Tank, Healer, Support, DPS, Utility order and a
// later candidate only wins if strictly larger, so exact ties go to the
// earlier one. Utility (0) wins when no total is positive.
func ClassifyRole(rec domain.PlayerBattleRecord) domain.Role {
	candidates := []struct {
		role  domain.Role
		value float64
	}{
		{domain.RoleTank, parseTotal(rec.TotalTank)},
		{domain.RoleHealer, parseTotal(rec.TotalHealer)},
		{domain.RoleSupport, parseTotal(rec.TotalSupport)},
		{domain.RoleDPS, math.Max(parseTotal(rec.TotalMelee), parseTotal(rec.TotalRange))},
		{domain.RoleUtility, 0},
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.value > best.value {
			best = c
		}
	}
	if best.value <= 0 {
		return domain.RoleUtility
	}
	return best.role
}
