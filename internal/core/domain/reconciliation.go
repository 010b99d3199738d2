package domain

import "github.com/shopspring/decimal"

// GroupSummary holds the derived figures for one budget group.
type GroupSummary struct {
	Group           BudgetGroup     `json:"group"`
	Total           decimal.Decimal `json:"total"`
	PercentOfIncome decimal.Decimal `json:"percentOfIncome"`
}

// PlanSummary holds the aggregates derived from a set of rows.
type PlanSummary struct {
	Groups             map[BudgetGroup]GroupSummary `json:"groups"`
	TotalIncome        decimal.Decimal              `json:"totalIncome"`
	RemainingBudget    decimal.Decimal              `json:"remainingBudget"`
	RemainingBudgetPct decimal.Decimal              `json:"remainingBudgetPct"`
}

// Total returns the included total of group, or zero.
func (s PlanSummary) Total(group BudgetGroup) decimal.Decimal {
	if g, ok := s.Groups[group]; ok {
		return g.Total
	}
	return decimal.Zero
}

// ReconciledRow is a persisted row with its category resolved for display.
type ReconciledRow struct {
	BudgetRow
	CategoryName string `json:"categoryName,omitempty"`
}

// ReconciledPlan is a plan read back with actuals, diffs and totals populated.
type ReconciledPlan struct {
	Plan    BudgetPlan
	Rows    []ReconciledRow
	Summary PlanSummary
}
