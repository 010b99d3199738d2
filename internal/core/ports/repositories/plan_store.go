package repositories

import (
	"context"

	"github.com/SscSPs/budget_planner/internal/core/domain"
)

// PlanStore is the remote plan store as seen by an editing session. The caller's
// identity is bound by the implementation (bearer token, user id).
//
// Absence is not a failure: Fetch, Update and Delete report a missing plan with
// apperrors.ErrNotFound, and Create reports an existing one with apperrors.ErrDuplicate.
// Every other error is a transport or server failure.
type PlanStore interface {
	Fetch(ctx context.Context, period domain.PeriodKey) (*domain.BudgetPlan, error)
	Create(ctx context.Context, period domain.PeriodKey, doc domain.PlanDocument) error
	Update(ctx context.Context, period domain.PeriodKey, doc domain.PlanDocument) error
	Delete(ctx context.Context, period domain.PeriodKey) error
}
