package services

import (
	"context"
	"errors"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/SscSPs/budget_planner/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_planner/internal/core/ports/services"
)

// UpsertPlan writes doc for period: update first, and create when the store reports
// that no plan exists yet. Every plan write goes through here.
func UpsertPlan(ctx context.Context, store portsrepo.PlanStore, period domain.PeriodKey, doc domain.PlanDocument) error {
	err := store.Update(ctx, period, doc)
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return store.Create(ctx, period, doc)
}

// UserPlanStore exposes a budget plan service as the PlanStore of a single user.
// It is the in-process counterpart of the HTTP client.
type UserPlanStore struct {
	plans  portssvc.BudgetPlanSvcFacade
	userID string
}

// NewUserPlanStore binds plans to userID.
func NewUserPlanStore(plans portssvc.BudgetPlanSvcFacade, userID string) *UserPlanStore {
	return &UserPlanStore{plans: plans, userID: userID}
}

// Fetch returns the reconciled plan for period.
func (s *UserPlanStore) Fetch(ctx context.Context, period domain.PeriodKey) (*domain.BudgetPlan, error) {
	rp, err := s.plans.GetPlan(ctx, s.userID, period)
	if err != nil {
		return nil, err
	}
	plan := rp.Plan
	return &plan, nil
}

func (s *UserPlanStore) Create(ctx context.Context, period domain.PeriodKey, doc domain.PlanDocument) error {
	_, err := s.plans.CreatePlan(ctx, s.userID, period, doc)
	return err
}

func (s *UserPlanStore) Update(ctx context.Context, period domain.PeriodKey, doc domain.PlanDocument) error {
	_, err := s.plans.UpdatePlan(ctx, s.userID, period, doc)
	return err
}

func (s *UserPlanStore) Delete(ctx context.Context, period domain.PeriodKey) error {
	return s.plans.DeletePlan(ctx, s.userID, period)
}
