// Package report shapes aggregation output into the flat, named tables
// consumed by export renderers (spreadsheet, PDF, terminal). It is a pure
// data-shaping step; formatting bytes is the renderer's job.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/opskpi/tattrack/internal/analytics"
	"github.com/opskpi/tattrack/internal/tat"
)

// Period labels the date range and workspace a report covers.
type Period struct {
	From           string // ISO date, inclusive
	To             string // ISO date, inclusive
	WorkspaceEmail string
}

// Label renders the period as a human-readable range, e.g.
// "Mar 1, 2026 - Mar 31, 2026". Unparseable dates fall back to the raw
// strings.
func (p Period) Label() string {
	return fmt.Sprintf("%s - %s", prettyDate(p.From), prettyDate(p.To))
}

func prettyDate(iso string) string {
	d, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return d.Format("Jan 2, 2006")
}

// Table is a named 2-D grid of cells.
type Table struct {
	Name string
	Rows [][]string
}

// Assemble packages a report into the four export tables: Summary, Agent
// Stats, Doc Types and Daily Trends. Agent rows are ordered by transaction
// count descending; ties keep roster order.
func Assemble(rep analytics.Report, period Period, generatedAt time.Time) []Table {
	return []Table{
		summaryTable(rep.Totals, period, generatedAt),
		agentTable(rep.PerAgent, period),
		docTypeTable(rep.PerDocType, period),
		dailyTable(rep.Daily, period),
	}
}

func summaryTable(t analytics.Totals, period Period, generatedAt time.Time) Table {
	return Table{
		Name: "Summary",
		Rows: [][]string{
			{"Performance Analytics Report"},
			{fmt.Sprintf("Period: %s", period.Label())},
			{fmt.Sprintf("Workspace: %s", period.WorkspaceEmail)},
			{fmt.Sprintf("Generated: %s", generatedAt.Format("Jan 2, 2006 15:04"))},
			{},
			{"Metric", "Value"},
			{"Total Transactions", fmt.Sprintf("%d", t.TotalTx)},
			{"Done", fmt.Sprintf("%d", t.Done)},
			{"Pending", fmt.Sprintf("%d", t.Pending)},
			{"No Doc", fmt.Sprintf("%d", t.NoDoc)},
			{"Average AHT", tat.ShortDuration(int(t.OverallAHT))},
			{"Completion Rate", fmt.Sprintf("%.1f%%", t.CompletionRate)},
		},
	}
}

func agentTable(stats []analytics.AgentStats, period Period) Table {
	ordered := make([]analytics.AgentStats, len(stats))
	copy(ordered, stats)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TotalTx > ordered[j].TotalTx
	})

	rows := [][]string{
		{"Agent Statistics"},
		{fmt.Sprintf("Period: %s", period.Label())},
		{},
		{"Agent Name", "Total TX", "Done", "Pending", "No Doc", "AHT", "Completion Rate"},
	}
	for _, a := range ordered {
		rows = append(rows, []string{
			a.Name,
			fmt.Sprintf("%d", a.TotalTx),
			fmt.Sprintf("%d", a.Done),
			fmt.Sprintf("%d", a.Pending),
			fmt.Sprintf("%d", a.NoDoc),
			tat.ShortDuration(int(a.AHTMinutes)),
			fmt.Sprintf("%.1f%%", a.CompletionRate),
		})
	}
	return Table{Name: "Agent Stats", Rows: rows}
}

func docTypeTable(stats []analytics.DocTypeStats, period Period) Table {
	rows := [][]string{
		{"Doc Type Statistics"},
		{fmt.Sprintf("Period: %s", period.Label())},
		{},
		{"Type", "Count", "Avg TAT"},
	}
	for _, dt := range stats {
		rows = append(rows, []string{
			dt.Name,
			fmt.Sprintf("%d", dt.Count),
			tat.ShortDuration(int(dt.AvgTAT)),
		})
	}
	return Table{Name: "Doc Types", Rows: rows}
}

func dailyTable(trends []analytics.DailyTrend, period Period) Table {
	rows := [][]string{
		{"Daily Transaction Trends"},
		{fmt.Sprintf("Period: %s", period.Label())},
		{},
		{"Date", "Total", "Done", "Pending", "No Doc", "Avg AHT"},
	}
	for _, d := range trends {
		rows = append(rows, []string{
			d.Date,
			fmt.Sprintf("%d", d.Total),
			fmt.Sprintf("%d", d.Done),
			fmt.Sprintf("%d", d.Pending),
			fmt.Sprintf("%d", d.NoDoc),
			tat.ShortDuration(int(d.AvgAHT)),
		})
	}
	return Table{Name: "Daily Trends", Rows: rows}
}
