package scoring

import (
	"testing"

	"albion-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
)

func record(tank, healer, support, melee, rng string) domain.PlayerBattleRecord {
	return domain.PlayerBattleRecord{
		TotalTank:    tank,
		TotalHealer:  healer,
		TotalSupport: support,
		TotalMelee:   melee,
		TotalRange:   rng,
	}
}

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.PlayerBattleRecord
		want domain.Role
	}{
		{"all zero", record("0", "0", "0", "0", "0"), domain.RoleUtility},
		{"all negative", record("-1", "-2", "-3", "-4", "-5"), domain.RoleUtility},
		{"empty strings", record("", "", "", "", ""), domain.RoleUtility},
		{"garbage strings", record("abc", "NaN", "x", "", "--"), domain.RoleUtility},
		{"tank dominant", record("500", "100", "100", "200", "300"), domain.RoleTank},
		{"healer dominant", record("100", "900", "100", "200", "300"), domain.RoleHealer},
		{"support dominant", record("100", "100", "700", "200", "300"), domain.RoleSupport},
		{"melee dominant", record("100", "100", "100", "800", "300"), domain.RoleDPS},
		{"range dominant", record("100", "100", "100", "200", "800"), domain.RoleDPS},
		{"melee and range tied highest", record("100", "100", "100", "800", "800"), domain.RoleDPS},
		{"tank ties healer goes to tank", record("400", "400", "0", "0", "0"), domain.RoleTank},
		{"healer ties dps goes to healer", record("0", "400", "0", "400", "0"), domain.RoleHealer},
		{"support ties dps goes to support", record("0", "0", "400", "0", "400"), domain.RoleSupport},
		{"decimal totals", record("10.5", "10.25", "0", "0", "0"), domain.RoleTank},
		{"whitespace padded", record(" 5 ", "1", "1", "1", "1"), domain.RoleTank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRole(tt.rec))
		})
	}
}

func TestParseTotal(t *testing.T) {
	assert.Equal(t, 0.0, parseTotal(""))
	assert.Equal(t, 0.0, parseTotal("not a number"))
	assert.Equal(t, 0.0, parseTotal("NaN"))
	assert.Equal(t, 12.5, parseTotal("12.5"))
	assert.Equal(t, -3.0, parseTotal("-3"))
}
