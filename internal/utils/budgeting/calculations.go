package budgeting

import (
	"github.com/SscSPs/budget_planner/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GroupTotal sums the planned amount of every row in group that is included in totals.
func GroupTotal(rows []domain.BudgetRow, group domain.BudgetGroup) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		if r.Group != group || !r.IncludeInTotal {
			continue
		}
		total = total.Add(r.Amount)
	}
	return total
}

// PercentOfIncome expresses groupTotal as a percentage of totalIncome.
// It is exactly zero when totalIncome is zero or negative.
func PercentOfIncome(groupTotal, totalIncome decimal.Decimal) decimal.Decimal {
	if !totalIncome.IsPositive() {
		return decimal.Zero
	}
	return groupTotal.Mul(hundred).Div(totalIncome)
}

// RemainingBudget is income minus every outgoing group.
func RemainingBudget(totalIncome, totalExpense, totalSaving, totalInvestment decimal.Decimal) decimal.Decimal {
	return totalIncome.Sub(totalExpense).Sub(totalSaving).Sub(totalInvestment)
}

// Summarize derives group totals, income shares and the remaining budget for rows.
func Summarize(rows []domain.BudgetRow) domain.PlanSummary {
	income := GroupTotal(rows, domain.GroupIncome)
	summary := domain.PlanSummary{
		Groups:      make(map[domain.BudgetGroup]domain.GroupSummary, len(domain.BudgetGroups)),
		TotalIncome: income,
	}
	for _, g := range domain.BudgetGroups {
		total := GroupTotal(rows, g)
		summary.Groups[g] = domain.GroupSummary{
			Group:           g,
			Total:           total,
			PercentOfIncome: PercentOfIncome(total, income),
		}
	}
	summary.RemainingBudget = RemainingBudget(
		income,
		summary.Total(domain.GroupExpense),
		summary.Total(domain.GroupSaving),
		summary.Total(domain.GroupInvestment),
	)
	summary.RemainingBudgetPct = PercentOfIncome(summary.RemainingBudget, income)
	return summary
}

// RowDiff is the variance of actual against planned, in percent of planned.
// A zero planned amount has no defined variance and yields nil.
func RowDiff(actual, planned decimal.Decimal) *decimal.Decimal {
	if planned.IsZero() {
		return nil
	}
	d := actual.Sub(planned).Mul(hundred).Div(planned)
	return &d
}

// ApplyActuals returns copies of rows with Actual and Diff populated from per-category actuals.
// Rows without a category, or whose category has no actuals, keep nil reconciliation fields.
func ApplyActuals(rows []domain.BudgetRow, actuals map[string]decimal.Decimal) []domain.BudgetRow {
	out := make([]domain.BudgetRow, len(rows))
	for i, r := range rows {
		c := r.Clone()
		c.Actual, c.Diff = nil, nil
		if r.CategoryID != nil {
			if actual, ok := actuals[*r.CategoryID]; ok {
				a := actual
				c.Actual = &a
				c.Diff = RowDiff(actual, r.Amount)
			}
		}
		out[i] = c
	}
	return out
}
