package db

import (
	"time"
)

type RoleColumns struct {
	AvgKd               float64
	AvgIp               float64
	AvgKillContribution float64
	AvgDamage           float64
	AvgHealing          float64
	AvgFame             float64
	PlayerCount         int64
}

type GuildStatistic struct {
	ID                string
	GuildName         string
	MinGp             int64
	Month             string
	GuildSize         int64
	KillFame          int64
	DeathFame         int64
	AverageAttendance float64
	Dps               RoleColumns
	Tank              RoleColumns
	Healer            RoleColumns
	Support           RoleColumns
	Utility           RoleColumns
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
