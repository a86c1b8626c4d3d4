// Package output renders CLI results.
package output

import (
	"fmt"
	"io"
	"strconv"

	"albion-tracker/internal/domain"

	"github.com/olekukonko/tablewriter"
)

// Table renders a bordered ASCII table to the given writer.
func Table(w io.Writer, headers []string, rows [][]string) error {
	t := tablewriter.NewWriter(w)
	t.Header(toAny(headers)...)
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

func toAny(s []string) []any {
	result := make([]any, len(s))
	for i, v := range s {
		result[i] = v
	}
	return result
}

var RankingHeaders = []string{"#", "Player", "Role", "Tier", "Battles", "vs Avg", "K/D", "IP", "Score"}

func RankingRows(players []domain.PlayerRanking) [][]string {
	rows := make([][]string, len(players))
	for i, p := range players {
		rows[i] = []string{
			strconv.Itoa(p.Rank),
			p.Name,
			string(p.Role),
			string(p.Tier),
			strconv.Itoa(p.TotalAttendance),
			fmt.Sprintf("%+.0f%%", p.AttendanceComparison),
			fmt.Sprintf("%d/%d", p.Kills, p.Deaths),
			fmt.Sprintf("%.0f", p.AverageIP),
			fmt.Sprintf("%.2f", p.PerformanceScore),
		}
	}
	return rows
}

var HistoryHeaders = []string{"Month", "Guild", "Min GP", "Size", "Kill Fame", "Death Fame", "Avg Attendance"}

func HistoryRows(stats []domain.GuildStatistics) [][]string {
	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{
			s.Month.Format("2006-01"),
			s.GuildName,
			strconv.Itoa(s.MinGP),
			strconv.Itoa(s.GuildSize),
			strconv.FormatInt(s.KillFame, 10),
			strconv.FormatInt(s.DeathFame, 10),
			fmt.Sprintf("%.1f", s.AverageAttendance),
		}
	}
	return rows
}
