package domain

import (
	"fmt"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetGroup is the fixed section a budget row belongs to.
type BudgetGroup string

const (
	GroupIncome     BudgetGroup = "income"
	GroupExpense    BudgetGroup = "expense"
	GroupSaving     BudgetGroup = "saving"
	GroupInvestment BudgetGroup = "investment"
)

// BudgetGroups lists every group in display order.
var BudgetGroups = []BudgetGroup{GroupIncome, GroupExpense, GroupSaving, GroupInvestment}

// IsValid reports whether g is one of the four known groups.
func (g BudgetGroup) IsValid() bool {
	switch g {
	case GroupIncome, GroupExpense, GroupSaving, GroupInvestment:
		return true
	default:
		return false
	}
}

// ParseBudgetGroup converts a string into a BudgetGroup.
func ParseBudgetGroup(s string) (BudgetGroup, error) {
	g := BudgetGroup(s)
	if !g.IsValid() {
		return "", fmt.Errorf("%w: unknown budget group %q", apperrors.ErrValidation, s)
	}
	return g, nil
}

// BudgetRow is one planned line item.
//
// LocalID only addresses the row inside an editing session and is never written to a store.
// Actual and Diff are populated on rows read back from a store and are never written either.
type BudgetRow struct {
	LocalID        string           `json:"-"`
	Group          BudgetGroup      `json:"group"`
	Name           string           `json:"name"`
	CategoryID     *string          `json:"categoryID"`
	Amount         decimal.Decimal  `json:"amount"`
	IncludeInTotal bool             `json:"includeInTotal"`
	Actual         *decimal.Decimal `json:"actual,omitempty"`
	Diff           *decimal.Decimal `json:"diff,omitempty"`
}

// NewBudgetRow returns an empty row for group: zero amount, included in totals, uncategorized.
func NewBudgetRow(group BudgetGroup) BudgetRow {
	return BudgetRow{
		LocalID:        uuid.NewString(),
		Group:          group,
		Amount:         decimal.Zero,
		IncludeInTotal: true,
	}
}

// Clone returns a deep copy of the row.
func (r BudgetRow) Clone() BudgetRow {
	c := r
	if r.CategoryID != nil {
		id := *r.CategoryID
		c.CategoryID = &id
	}
	if r.Actual != nil {
		a := *r.Actual
		c.Actual = &a
	}
	if r.Diff != nil {
		d := *r.Diff
		c.Diff = &d
	}
	return c
}

// BudgetPlan is the persisted aggregate: all rows planned for one period of one user.
type BudgetPlan struct {
	PlanID string      `json:"planID"`
	UserID string      `json:"userID"`
	Period PeriodKey   `json:"period"`
	Rows   []BudgetRow `json:"rows"`
	AuditFields
}

// Document strips the plan down to what is written to a store.
func (p BudgetPlan) Document() PlanDocument {
	return NewPlanDocument(p.Rows)
}

// PlanRow is the written shape of a budget row.
type PlanRow struct {
	Group          BudgetGroup     `json:"group"`
	Name           string          `json:"name"`
	CategoryID     *string         `json:"categoryID"`
	Amount         decimal.Decimal `json:"amount"`
	IncludeInTotal bool            `json:"includeInTotal"`
}

// PlanDocument is the full row set exchanged with a plan store on every write.
type PlanDocument struct {
	Rows []PlanRow `json:"rows"`
}

// NewPlanDocument serializes rows, dropping local ids and reconciliation fields.
func NewPlanDocument(rows []BudgetRow) PlanDocument {
	doc := PlanDocument{Rows: make([]PlanRow, 0, len(rows))}
	for _, r := range rows {
		pr := PlanRow{
			Group:          r.Group,
			Name:           r.Name,
			Amount:         r.Amount,
			IncludeInTotal: r.IncludeInTotal,
		}
		if r.CategoryID != nil {
			id := *r.CategoryID
			pr.CategoryID = &id
		}
		doc.Rows = append(doc.Rows, pr)
	}
	return doc
}

// Materialize turns a document into rows with fresh local ids.
func (d PlanDocument) Materialize() []BudgetRow {
	rows := make([]BudgetRow, 0, len(d.Rows))
	for _, pr := range d.Rows {
		row := NewBudgetRow(pr.Group)
		row.Name = pr.Name
		row.Amount = pr.Amount
		row.IncludeInTotal = pr.IncludeInTotal
		if pr.CategoryID != nil {
			id := *pr.CategoryID
			row.CategoryID = &id
		}
		rows = append(rows, row)
	}
	return rows
}

// Validate checks row groups. Names may be empty and amounts may be any value.
func (d PlanDocument) Validate() error {
	for i, r := range d.Rows {
		if !r.Group.IsValid() {
			return fmt.Errorf("%w: row %d has unknown group %q", apperrors.ErrValidation, i, r.Group)
		}
		if r.CategoryID != nil && *r.CategoryID == "" {
			return fmt.Errorf("%w: row %d has an empty category id", apperrors.ErrValidation, i)
		}
	}
	return nil
}
