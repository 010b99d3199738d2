package mapping

import (
	"database/sql"

	"github.com/SscSPs/budget_planner/internal/core/domain"
	"github.com/SscSPs/budget_planner/internal/models"
	"github.com/google/uuid"
)

// ToModelBudgetPlan converts a domain plan into its header row and item rows.
// Every item row gets a new persisted id; positions follow the domain order.
func ToModelBudgetPlan(d domain.BudgetPlan) (models.BudgetPlan, []models.BudgetPlanRow) {
	header := models.BudgetPlan{
		PlanID:      d.PlanID,
		UserID:      d.UserID,
		Year:        d.Period.Year,
		Month:       d.Period.Month,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	return header, ToModelBudgetPlanRows(d.PlanID, d.Rows)
}

// ToModelBudgetPlanRows converts domain rows for planID.
func ToModelBudgetPlanRows(planID string, rows []domain.BudgetRow) []models.BudgetPlanRow {
	out := make([]models.BudgetPlanRow, len(rows))
	for i, r := range rows {
		var categoryID sql.NullString
		if r.CategoryID != nil {
			categoryID = sql.NullString{String: *r.CategoryID, Valid: true}
		}
		out[i] = models.BudgetPlanRow{
			RowID:          uuid.NewString(),
			PlanID:         planID,
			Position:       i,
			RowGroup:       string(r.Group),
			Name:           r.Name,
			CategoryID:     categoryID,
			Amount:         r.Amount,
			IncludeInTotal: r.IncludeInTotal,
		}
	}
	return out
}

// ToDomainBudgetPlan converts a header row and its item rows, already ordered by position.
func ToDomainBudgetPlan(m models.BudgetPlan, rows []models.BudgetPlanRow) domain.BudgetPlan {
	plan := domain.BudgetPlan{
		PlanID:      m.PlanID,
		UserID:      m.UserID,
		Period:      domain.PeriodKey{Year: m.Year, Month: m.Month},
		Rows:        make([]domain.BudgetRow, len(rows)),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	for i, r := range rows {
		plan.Rows[i] = ToDomainBudgetRow(r)
	}
	return plan
}

// ToDomainBudgetRow converts a persisted item row; the row keeps its persisted id as local id.
func ToDomainBudgetRow(m models.BudgetPlanRow) domain.BudgetRow {
	row := domain.BudgetRow{
		LocalID:        m.RowID,
		Group:          domain.BudgetGroup(m.RowGroup),
		Name:           m.Name,
		Amount:         m.Amount,
		IncludeInTotal: m.IncludeInTotal,
	}
	if m.CategoryID.Valid {
		id := m.CategoryID.String
		row.CategoryID = &id
	}
	return row
}

// ToDomainCategory converts a categories row.
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID: m.CategoryID,
		UserID:     m.UserID,
		Name:       m.Name,
		Type:       domain.BudgetGroup(m.CategoryType),
	}
}

// ToModelCategory converts a domain category.
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:   d.CategoryID,
		UserID:       d.UserID,
		Name:         d.Name,
		CategoryType: string(d.Type),
	}
}

// ToModelTransaction converts a domain transaction.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	var categoryID sql.NullString
	if d.CategoryID != nil {
		categoryID = sql.NullString{String: *d.CategoryID, Valid: true}
	}
	return models.Transaction{
		TransactionID:   d.TransactionID,
		UserID:          d.UserID,
		CategoryID:      categoryID,
		Amount:          d.Amount,
		TransactionDate: d.TransactionDate,
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}
