package services

import (
	"context"

	"github.com/SscSPs/budget_planner/internal/core/domain"
)

// BudgetPlanReaderSvc defines read operations for budget plans
type BudgetPlanReaderSvc interface {
	// GetPlan retrieves a user's plan for a period with actuals, diffs and totals populated.
	// It returns apperrors.ErrNotFound when no plan exists.
	GetPlan(ctx context.Context, userID string, period domain.PeriodKey) (*domain.ReconciledPlan, error)
}

// BudgetPlanWriterSvc defines write operations for budget plans
type BudgetPlanWriterSvc interface {
	// CreatePlan stores the first plan for a period. It fails with apperrors.ErrDuplicate if one exists.
	CreatePlan(ctx context.Context, userID string, period domain.PeriodKey, doc domain.PlanDocument) (*domain.BudgetPlan, error)

	// UpdatePlan replaces the rows of an existing plan. It fails with apperrors.ErrNotFound if none exists.
	UpdatePlan(ctx context.Context, userID string, period domain.PeriodKey, doc domain.PlanDocument) (*domain.BudgetPlan, error)

	// DeletePlan removes the plan for a period.
	DeletePlan(ctx context.Context, userID string, period domain.PeriodKey) error
}

// BudgetPlanSvcFacade combines all budget plan service interfaces
type BudgetPlanSvcFacade interface {
	BudgetPlanReaderSvc
	BudgetPlanWriterSvc
}

// CategorySvc defines read operations for categories
type CategorySvc interface {
	// ListCategories lists a user's categories, restricted to one group when group is non-nil.
	ListCategories(ctx context.Context, userID string, group *domain.BudgetGroup) ([]domain.Category, error)
}
