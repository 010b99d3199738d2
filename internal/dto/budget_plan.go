package dto

import (
	"time"

	"github.com/SscSPs/budget_planner/internal/core/domain"
	"github.com/SscSPs/budget_planner/internal/utils"
	"github.com/shopspring/decimal"
)

// PeriodURI binds the :year/:month path parameters of plan routes.
type PeriodURI struct {
	Year  int `uri:"year" binding:"required,min=1,max=9999"`
	Month int `uri:"month" binding:"required,min=1,max=12"`
}

// Period converts the bound parameters to a PeriodKey.
func (p PeriodURI) Period() domain.PeriodKey {
	return domain.PeriodKey{Year: p.Year, Month: p.Month}
}

// PlanRowRequest is one row of a plan write.
type PlanRowRequest struct {
	Group          string          `json:"group" binding:"required,budgetgroup"`
	Name           string          `json:"name" binding:"max=200"`
	CategoryID     *string         `json:"categoryID" binding:"omitempty,min=1"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"string" example:"1200.00"`
	IncludeInTotal *bool           `json:"includeInTotal"` // Defaults to true when omitted
}

// SavePlanRequest is the full row set sent on create and update.
type SavePlanRequest struct {
	Rows []PlanRowRequest `json:"rows" binding:"dive"`
}

// ToDocument converts the request into the document handed to the service.
func (r SavePlanRequest) ToDocument() domain.PlanDocument {
	doc := domain.PlanDocument{Rows: make([]domain.PlanRow, 0, len(r.Rows))}
	for _, row := range r.Rows {
		include := true
		if row.IncludeInTotal != nil {
			include = *row.IncludeInTotal
		}
		doc.Rows = append(doc.Rows, domain.PlanRow{
			Group:          domain.BudgetGroup(row.Group),
			Name:           row.Name,
			CategoryID:     row.CategoryID,
			Amount:         row.Amount,
			IncludeInTotal: include,
		})
	}
	return doc
}

// NewSavePlanRequest builds the wire form of a document.
func NewSavePlanRequest(doc domain.PlanDocument) SavePlanRequest {
	req := SavePlanRequest{Rows: make([]PlanRowRequest, 0, len(doc.Rows))}
	for _, r := range doc.Rows {
		include := r.IncludeInTotal
		req.Rows = append(req.Rows, PlanRowRequest{
			Group:          string(r.Group),
			Name:           r.Name,
			CategoryID:     r.CategoryID,
			Amount:         r.Amount,
			IncludeInTotal: &include,
		})
	}
	return req
}

// BudgetRowResponse is a persisted row with its reconciliation fields.
type BudgetRowResponse struct {
	Group           string           `json:"group"`
	Name            string           `json:"name"`
	CategoryID      *string          `json:"categoryID"`
	CategoryName    string           `json:"categoryName,omitempty"`
	Amount          decimal.Decimal  `json:"amount" swaggertype:"string"`
	FormattedAmount string           `json:"formattedAmount"`
	IncludeInTotal  bool             `json:"includeInTotal"`
	Actual          *decimal.Decimal `json:"actual" swaggertype:"string"`
	Diff            *decimal.Decimal `json:"diff" swaggertype:"string"` // Percent of planned
}

// GroupSummaryResponse carries the totals of one budget group.
type GroupSummaryResponse struct {
	Group           string          `json:"group"`
	Total           decimal.Decimal `json:"total" swaggertype:"string"`
	FormattedTotal  string          `json:"formattedTotal"`
	PercentOfIncome decimal.Decimal `json:"percentOfIncome" swaggertype:"string"`
	FormattedShare  string          `json:"formattedShare"`
}

// PlanSummaryResponse carries the derived figures of a plan.
type PlanSummaryResponse struct {
	Groups                   []GroupSummaryResponse `json:"groups"`
	TotalIncome              decimal.Decimal        `json:"totalIncome" swaggertype:"string"`
	RemainingBudget          decimal.Decimal        `json:"remainingBudget" swaggertype:"string"`
	FormattedRemainingBudget string                 `json:"formattedRemainingBudget"`
	RemainingBudgetPct       decimal.Decimal        `json:"remainingBudgetPct" swaggertype:"string"`
}

// BudgetPlanResponse defines the data returned for a budget plan.
type BudgetPlanResponse struct {
	PlanID        string              `json:"planID"`
	Year          int                 `json:"year"`
	Month         int                 `json:"month"`
	Currency      string              `json:"currency"`
	Rows          []BudgetRowResponse `json:"rows"`
	Summary       PlanSummaryResponse `json:"summary"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// ToBudgetPlanResponse converts a reconciled plan to its response, formatting amounts with f.
func ToBudgetPlanResponse(rp *domain.ReconciledPlan, f *utils.CurrencyFormatter) BudgetPlanResponse {
	resp := BudgetPlanResponse{
		PlanID:        rp.Plan.PlanID,
		Year:          rp.Plan.Period.Year,
		Month:         rp.Plan.Period.Month,
		Currency:      f.Code(),
		Rows:          make([]BudgetRowResponse, 0, len(rp.Rows)),
		Summary:       toPlanSummaryResponse(rp.Summary, f),
		CreatedAt:     rp.Plan.CreatedAt,
		CreatedBy:     rp.Plan.CreatedBy,
		LastUpdatedAt: rp.Plan.LastUpdatedAt,
		LastUpdatedBy: rp.Plan.LastUpdatedBy,
	}
	for _, r := range rp.Rows {
		resp.Rows = append(resp.Rows, BudgetRowResponse{
			Group:           string(r.Group),
			Name:            r.Name,
			CategoryID:      r.CategoryID,
			CategoryName:    r.CategoryName,
			Amount:          r.Amount,
			FormattedAmount: f.Format(r.Amount),
			IncludeInTotal:  r.IncludeInTotal,
			Actual:          r.Actual,
			Diff:            r.Diff,
		})
	}
	return resp
}

func toPlanSummaryResponse(s domain.PlanSummary, f *utils.CurrencyFormatter) PlanSummaryResponse {
	resp := PlanSummaryResponse{
		Groups:                   make([]GroupSummaryResponse, 0, len(domain.BudgetGroups)),
		TotalIncome:              s.TotalIncome,
		RemainingBudget:          s.RemainingBudget,
		FormattedRemainingBudget: f.Format(s.RemainingBudget),
		RemainingBudgetPct:       s.RemainingBudgetPct,
	}
	for _, g := range domain.BudgetGroups {
		gs := s.Groups[g]
		resp.Groups = append(resp.Groups, GroupSummaryResponse{
			Group:           string(g),
			Total:           s.Total(g),
			FormattedTotal:  f.Format(s.Total(g)),
			PercentOfIncome: gs.PercentOfIncome,
			FormattedShare:  f.FormatPercent(gs.PercentOfIncome),
		})
	}
	return resp
}

// ToDomain rebuilds the plan from its response, keeping the reconciliation fields.
func (r BudgetPlanResponse) ToDomain() domain.BudgetPlan {
	plan := domain.BudgetPlan{
		PlanID: r.PlanID,
		Period: domain.PeriodKey{Year: r.Year, Month: r.Month},
		Rows:   make([]domain.BudgetRow, 0, len(r.Rows)),
		AuditFields: domain.AuditFields{
			CreatedAt:     r.CreatedAt,
			CreatedBy:     r.CreatedBy,
			LastUpdatedAt: r.LastUpdatedAt,
			LastUpdatedBy: r.LastUpdatedBy,
		},
	}
	for _, row := range r.Rows {
		br := domain.NewBudgetRow(domain.BudgetGroup(row.Group))
		br.Name = row.Name
		br.CategoryID = row.CategoryID
		br.Amount = row.Amount
		br.IncludeInTotal = row.IncludeInTotal
		br.Actual = row.Actual
		br.Diff = row.Diff
		plan.Rows = append(plan.Rows, br)
	}
	return plan
}

// ListCategoriesParams defines the query parameters for listing categories.
type ListCategoriesParams struct {
	Type string `form:"type" binding:"omitempty,budgetgroup"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
	Type       string `json:"type"`
}

// ListCategoriesResponse wraps a list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToListCategoriesResponse converts a slice of domain categories to a response.
func ToListCategoriesResponse(categories []domain.Category) ListCategoriesResponse {
	resp := ListCategoriesResponse{Categories: make([]CategoryResponse, 0, len(categories))}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, CategoryResponse{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Type:       string(c.Type),
		})
	}
	return resp
}
