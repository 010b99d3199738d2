package repositories

import (
	"context"

	"github.com/SscSPs/budget_planner/internal/core/domain"
)

// BudgetPlanReader defines read operations for budget plans
type BudgetPlanReader interface {
	// FindPlanByPeriod retrieves the plan a user holds for a period.
	// It returns apperrors.ErrNotFound when no plan exists.
	FindPlanByPeriod(ctx context.Context, userID string, period domain.PeriodKey) (*domain.BudgetPlan, error)
}

// BudgetPlanWriter defines write operations for budget plans
type BudgetPlanWriter interface {
	// CreatePlan persists a new plan. It returns apperrors.ErrDuplicate if the user
	// already has a plan for the period.
	CreatePlan(ctx context.Context, plan domain.BudgetPlan) error

	// UpdatePlan replaces the full row set of an existing plan.
	// It returns apperrors.ErrNotFound when no plan exists for the period.
	UpdatePlan(ctx context.Context, plan domain.BudgetPlan) error

	// DeletePlan removes a plan and its rows.
	DeletePlan(ctx context.Context, userID string, period domain.PeriodKey) error
}

// BudgetPlanRepositoryFacade combines all budget plan repository interfaces
type BudgetPlanRepositoryFacade interface {
	BudgetPlanReader
	BudgetPlanWriter
}
