package domain

import (
	"time"
)

type Role string

const (
	RoleDPS     Role = "DPS"
	RoleTank    Role = "Tank"
	RoleHealer  Role = "Healer"
	RoleSupport Role = "Support"
	RoleUtility Role = "Utility"
)

// Roles in classifier candidate order.
var Roles = []Role{RoleTank, RoleHealer, RoleSupport, RoleDPS, RoleUtility}

type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

type ItemUsage struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// PlayerBattleRecord is one player's combat totals over the lookback window.
// Category totals arrive as numeric strings from the battle-data provider.
type PlayerBattleRecord struct {
	Name         string      `json:"name"`
	Battles      int         `json:"battles"`
	Kills        int         `json:"kills"`
	Deaths       int         `json:"deaths"`
	AverageIP    float64     `json:"averageIp"`
	TotalTank    string      `json:"totalTank"`
	TotalHealer  string      `json:"totalHealer"`
	TotalSupport string      `json:"totalSupport"`
	TotalMelee   string      `json:"totalMelee"`
	TotalRange   string      `json:"totalRange"`
	TotalDamage  float64     `json:"totalDamage"`
	TotalHealing float64     `json:"totalHealing"`
	TotalFame    float64     `json:"totalFame"`
	UsedItems    []ItemUsage `json:"usedItems"`
}

// Placeholder returns the zero-valued record used for requested players the
// provider returned nothing for.
func Placeholder(name string) PlayerBattleRecord {
	return PlayerBattleRecord{
		Name:         name,
		TotalTank:    "0",
		TotalHealer:  "0",
		TotalSupport: "0",
		TotalMelee:   "0",
		TotalRange:   "0",
	}
}

type GuildInfo struct {
	KillFame    int64 `json:"killFame"`
	DeathFame   int64 `json:"deathFame"`
	MemberCount int   `json:"memberCount"`
}

type RoleStats struct {
	AverageKD               float64 `json:"averageKd"`
	AverageIP               float64 `json:"averageIp"`
	AverageKillContribution float64 `json:"averageKillContribution"`
	AverageDamage           float64 `json:"averageDamage"`
	AverageHealing          float64 `json:"averageHealing"`
	AverageFame             float64 `json:"averageFame"`
	PlayerCount             int     `json:"playerCount"`
}

type RoleBreakdown struct {
	DPS     RoleStats `json:"dps"`
	Tank    RoleStats `json:"tank"`
	Healer  RoleStats `json:"healer"`
	Support RoleStats `json:"support"`
	Utility RoleStats `json:"utility"`
}

func (b RoleBreakdown) For(role Role) RoleStats {
	switch role {
	case RoleDPS:
		return b.DPS
	case RoleTank:
		return b.Tank
	case RoleHealer:
		return b.Healer
	case RoleSupport:
		return b.Support
	default:
		return b.Utility
	}
}

func (b *RoleBreakdown) Set(role Role, stats RoleStats) {
	switch role {
	case RoleDPS:
		b.DPS = stats
	case RoleTank:
		b.Tank = stats
	case RoleHealer:
		b.Healer = stats
	case RoleSupport:
		b.Support = stats
	default:
		b.Utility = stats
	}
}

type GuildStatistics struct {
	ID                string        `json:"id"`
	GuildName         string        `json:"guildName"`
	MinGP             int           `json:"minGP"`
	Month             time.Time     `json:"month"`
	GuildSize         int           `json:"guildSize"`
	KillFame          int64         `json:"killFame"`
	DeathFame         int64         `json:"deathFame"`
	AverageAttendance float64       `json:"averageAttendance"`
	Roles             RoleBreakdown `json:"roles"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

type GuildComparison struct {
	KD               float64 `json:"kd"`
	GuildName        string  `json:"guildName"`
	GuildSize        int     `json:"guildSize"`
	AverageIP        float64 `json:"avgIP"`
	Performance      float64 `json:"performance"`
	PerformanceScore float64 `json:"performanceScore"`
}

type PlayerComparison struct {
	Current *GuildComparison `json:"current"`
	Similar *GuildComparison `json:"similar"`
	Best    *GuildComparison `json:"best"`
}

type PlayerRanking struct {
	Rank                 int               `json:"rank"`
	Name                 string            `json:"name"`
	Role                 Role              `json:"role"`
	Tier                 Tier              `json:"tier"`
	Kills                int               `json:"kills"`
	Deaths               int               `json:"deaths"`
	AverageIP            float64           `json:"avgIP"`
	TotalAttendance      int               `json:"totalAttendance"`
	AttendanceComparison float64           `json:"attendanceComparison"`
	TopItems             []ItemUsage       `json:"topItems"`
	Comparison           *PlayerComparison `json:"comparison"`
	Damage               float64           `json:"damage"`
	Healing              float64           `json:"healing"`
	PerformanceScore     float64           `json:"performanceScore"`
}

// MonthOf truncates t to 00:00 UTC on the first day of its month.
func MonthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
