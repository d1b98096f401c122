package report

import (
	"testing"
	"time"

	"github.com/opskpi/tattrack/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPeriod = Period{
	From:           "2026-03-01",
	To:             "2026-03-31",
	WorkspaceEmail: "team@example.com",
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "Mar 1, 2026 - Mar 31, 2026", testPeriod.Label())

	raw := Period{From: "garbage", To: "2026-03-31"}
	assert.Equal(t, "garbage - Mar 31, 2026", raw.Label())
}

func TestAssemble_TableSet(t *testing.T) {
	tables := Assemble(analytics.Report{}, testPeriod, time.Now())

	require.Len(t, tables, 4)
	assert.Equal(t, "Summary", tables[0].Name)
	assert.Equal(t, "Agent Stats", tables[1].Name)
	assert.Equal(t, "Doc Types", tables[2].Name)
	assert.Equal(t, "Daily Trends", tables[3].Name)
}

func TestAssemble_Summary(t *testing.T) {
	rep := analytics.Report{
		Totals: analytics.Totals{
			TotalTx:        10,
			Done:           8,
			Pending:        1,
			NoDoc:          1,
			OverallAHT:     90,
			CompletionRate: 80,
		},
	}
	generated := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

	summary := Assemble(rep, testPeriod, generated)[0]

	assert.Contains(t, summary.Rows, []string{"Period: Mar 1, 2026 - Mar 31, 2026"})
	assert.Contains(t, summary.Rows, []string{"Workspace: team@example.com"})
	assert.Contains(t, summary.Rows, []string{"Total Transactions", "10"})
	assert.Contains(t, summary.Rows, []string{"Average AHT", "01:30"})
	assert.Contains(t, summary.Rows, []string{"Completion Rate", "80.0%"})
}

// Agent rows sort by transaction count descending; ties keep roster order.
func TestAssemble_AgentOrdering(t *testing.T) {
	rep := analytics.Report{
		PerAgent: []analytics.AgentStats{
			{Name: "A", TotalTx: 1},
			{Name: "B", TotalTx: 5},
			{Name: "C", TotalTx: 5},
			{Name: "D", TotalTx: 0},
		},
	}

	agents := Assemble(rep, testPeriod, time.Now())[1]

	// 4 banner/header rows, then data.
	data := agents.Rows[4:]
	require.Len(t, data, 4)
	assert.Equal(t, "B", data[0][0])
	assert.Equal(t, "C", data[1][0])
	assert.Equal(t, "A", data[2][0])
	assert.Equal(t, "D", data[3][0])

	// Input order untouched.
	assert.Equal(t, "A", rep.PerAgent[0].Name)
}

func TestAssemble_ZeroDurationsRenderPlaceholder(t *testing.T) {
	rep := analytics.Report{
		Daily: []analytics.DailyTrend{
			{Date: "2026-03-01", Total: 1, Pending: 1},
		},
	}

	daily := Assemble(rep, testPeriod, time.Now())[3]

	data := daily.Rows[4:]
	require.Len(t, data, 1)
	assert.Equal(t, []string{"2026-03-01", "1", "0", "1", "0", "-"}, data[0])
}
