package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// BudgetPlan is a row of the budget_plans table.
type BudgetPlan struct {
	PlanID string `db:"plan_id"`
	UserID string `db:"user_id"`
	Year   int    `db:"year"`
	Month  int    `db:"month"`
	AuditFields
}

// BudgetPlanRow is a row of the budget_plan_rows table.
// Position preserves insertion order within the plan.
type BudgetPlanRow struct {
	RowID          string          `db:"row_id"`
	PlanID         string          `db:"plan_id"`
	Position       int             `db:"position"`
	RowGroup       string          `db:"row_group"`
	Name           string          `db:"name"`
	CategoryID     sql.NullString  `db:"category_id"`
	Amount         decimal.Decimal `db:"amount"`
	IncludeInTotal bool            `db:"include_in_total"`
}
