// Package analytics summarizes workspace transactions into operational
// KPIs. Everything here is a pure transformation over data already fetched
// from the store: no errors, no mutation of inputs, freshly constructed
// outputs. Empty input degrades to zero-valued statistics so reports stay
// renderable.
package analytics

import (
	"sort"
	"strings"

	"github.com/opskpi/tattrack/internal/domain"
)

// AgentStats holds per-agent statistics for a reporting period.
type AgentStats struct {
	Name           string
	TotalTx        int
	Done           int
	Pending        int
	NoDoc          int
	TotalMinutes   int
	AHTMinutes     float64
	CompletionRate float64
}

// DailyTrend holds per-date counts and average handling time.
type DailyTrend struct {
	Date    string
	Total   int
	Done    int
	Pending int
	NoDoc   int
	AvgAHT  float64
}

// DocTypeStats holds per-document-type turnaround statistics.
type DocTypeStats struct {
	Name   string
	Count  int
	AvgTAT float64
}

// Totals holds workspace-wide statistics over the full filtered set.
type Totals struct {
	TotalTx        int
	Done           int
	Pending        int
	NoDoc          int
	OverallAHT     float64
	CompletionRate float64
}

// Report bundles the four independent aggregation views.
type Report struct {
	PerAgent   []AgentStats
	Daily      []DailyTrend
	PerDocType []DocTypeStats
	Totals     Totals
}

// closed reports whether a transaction contributes to duration averages.
// Open transactions carry zero TAT and are excluded from AHT everywhere.
func closed(tx *domain.Transaction) bool {
	return tx.TATMinutes > 0
}

// Aggregate computes the four reporting views from a workspace roster and a
// list of transactions already filtered to a workspace and date range.
//
// Agent rows match transactions by exact agent name. The name is a
// denormalized label, so an agent renamed after transactions were logged
// loses that history in aggregation; known limitation of the data model.
// Every roster agent gets a row even with zero transactions.
func Aggregate(agents []domain.Agent, txs []domain.Transaction) Report {
	return Report{
		PerAgent:   perAgent(agents, txs),
		Daily:      daily(txs),
		PerDocType: perDocType(txs),
		Totals:     totals(txs),
	}
}

func perAgent(agents []domain.Agent, txs []domain.Transaction) []AgentStats {
	stats := make([]AgentStats, 0, len(agents))
	for _, agent := range agents {
		row := AgentStats{Name: agent.Name}
		closedCount := 0
		for i := range txs {
			tx := &txs[i]
			if tx.AgentName != agent.Name {
				continue
			}
			row.TotalTx++
			switch tx.Status {
			case domain.StatusDone:
				row.Done++
			case domain.StatusPending:
				row.Pending++
			case domain.StatusNoDoc:
				row.NoDoc++
			}
			if closed(tx) {
				closedCount++
				row.TotalMinutes += tx.TATMinutes
			}
		}
		if closedCount > 0 {
			row.AHTMinutes = float64(row.TotalMinutes) / float64(closedCount)
		}
		if row.TotalTx > 0 {
			row.CompletionRate = float64(row.Done) / float64(row.TotalTx) * 100
		}
		stats = append(stats, row)
	}
	return stats
}

func daily(txs []domain.Transaction) []DailyTrend {
	type dayAcc struct {
		trend       DailyTrend
		closedMins  int
		closedCount int
	}
	byDate := make(map[string]*dayAcc)
	for i := range txs {
		tx := &txs[i]
		acc, ok := byDate[tx.Date]
		if !ok {
			acc = &dayAcc{trend: DailyTrend{Date: tx.Date}}
			byDate[tx.Date] = acc
		}
		acc.trend.Total++
		switch tx.Status {
		case domain.StatusDone:
			acc.trend.Done++
		case domain.StatusPending:
			acc.trend.Pending++
		default:
			acc.trend.NoDoc++
		}
		if closed(tx) {
			acc.closedMins += tx.TATMinutes
			acc.closedCount++
		}
	}

	trends := make([]DailyTrend, 0, len(byDate))
	for _, acc := range byDate {
		if acc.closedCount > 0 {
			acc.trend.AvgAHT = float64(acc.closedMins) / float64(acc.closedCount)
		}
		trends = append(trends, acc.trend)
	}
	// ISO dates compare correctly as strings.
	sort.Slice(trends, func(i, j int) bool {
		return strings.Compare(trends[i].Date, trends[j].Date) < 0
	})
	return trends
}

func perDocType(txs []domain.Transaction) []DocTypeStats {
	type typeAcc struct {
		count    int
		totalTAT int
	}
	byType := make(map[string]*typeAcc)
	var order []string // first-appearance order keeps the sort stable
	for i := range txs {
		tx := &txs[i]
		if !closed(tx) {
			continue
		}
		acc, ok := byType[tx.DocType]
		if !ok {
			acc = &typeAcc{}
			byType[tx.DocType] = acc
			order = append(order, tx.DocType)
		}
		acc.count++
		acc.totalTAT += tx.TATMinutes
	}

	stats := make([]DocTypeStats, 0, len(order))
	for _, name := range order {
		acc := byType[name]
		stats = append(stats, DocTypeStats{
			Name:   name,
			Count:  acc.count,
			AvgTAT: float64(acc.totalTAT) / float64(acc.count),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}

func totals(txs []domain.Transaction) Totals {
	var t Totals
	closedMins, closedCount := 0, 0
	for i := range txs {
		tx := &txs[i]
		t.TotalTx++
		switch tx.Status {
		case domain.StatusDone:
			t.Done++
		case domain.StatusPending:
			t.Pending++
		case domain.StatusNoDoc:
			t.NoDoc++
		}
		if closed(tx) {
			closedMins += tx.TATMinutes
			closedCount++
		}
	}
	if closedCount > 0 {
		t.OverallAHT = float64(closedMins) / float64(closedCount)
	}
	if t.TotalTx > 0 {
		t.CompletionRate = float64(t.Done) / float64(t.TotalTx) * 100
	}
	return t
}
