package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ReportGranularity selects how capital snapshots are grouped.
type ReportGranularity string

const (
	ReportMonthly ReportGranularity = "MONTHLY"
	ReportYearly  ReportGranularity = "YEARLY"
)

// PeriodKey formats the grouping key for a snapshot: "2006-01" for monthly, "2006" for yearly.
func (g ReportGranularity) PeriodKey(c CapitalAccount) string {
	if g == ReportYearly {
		return c.UpdatedOn.Format("2006")
	}
	return c.UpdatedOn.Format("2006-01")
}

// CapitalReportRow is the summed total of the capital snapshots falling in one period.
type CapitalReportRow struct {
	Period string          `json:"period"`
	Total  decimal.Decimal `json:"total"`
}

// BuildCapitalReport groups accounts by the period of their UpdatedOn date and sums their totals.
// Rows are sorted ascending by period key.
func BuildCapitalReport(accounts []CapitalAccount, g ReportGranularity) []CapitalReportRow {
	sums := make(map[string]decimal.Decimal)
	for _, c := range accounts {
		key := g.PeriodKey(c)
		sums[key] = sums[key].Add(c.Total)
	}

	rows := make([]CapitalReportRow, 0, len(sums))
	for period, total := range sums {
		rows = append(rows, CapitalReportRow{Period: period, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period < rows[j].Period })
	return rows
}

// CapitalSummary is the condensed view sent to chat users.
type CapitalSummary struct {
	Bank  decimal.Decimal
	Cash  decimal.Decimal
	Other decimal.Decimal
	Total decimal.Decimal
}
