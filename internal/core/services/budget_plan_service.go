package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/SscSPs/budget_planner/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_planner/internal/core/ports/services"
	"github.com/SscSPs/budget_planner/internal/utils/budgeting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// budgetPlanService implements the BudgetPlanSvcFacade interface
type budgetPlanService struct {
	BaseService
	planRepo     portsrepo.BudgetPlanRepositoryFacade
	categoryRepo portsrepo.CategoryReader
	actualsRepo  portsrepo.ActualsReader
	now          func() time.Time
}

// BudgetPlanServiceOption is a function that configures a budgetPlanService
type BudgetPlanServiceOption func(*budgetPlanService)

// WithCategoryReader enables category resolution and category/group validation
func WithCategoryReader(repo portsrepo.CategoryReader) BudgetPlanServiceOption {
	return func(s *budgetPlanService) {
		s.categoryRepo = repo
	}
}

// WithActualsReader enables reconciliation against the transaction store
func WithActualsReader(repo portsrepo.ActualsReader) BudgetPlanServiceOption {
	return func(s *budgetPlanService) {
		s.actualsRepo = repo
	}
}

// WithClock overrides the time source used for audit fields
func WithClock(now func() time.Time) BudgetPlanServiceOption {
	return func(s *budgetPlanService) {
		s.now = now
	}
}

// NewBudgetPlanService creates a new budget plan service with the provided dependencies
func NewBudgetPlanService(planRepo portsrepo.BudgetPlanRepositoryFacade, opts ...BudgetPlanServiceOption) portssvc.BudgetPlanSvcFacade {
	s := &budgetPlanService{
		planRepo: planRepo,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.BudgetPlanSvcFacade = (*budgetPlanService)(nil)

// GetPlan loads the plan, the period's actuals and the user's categories concurrently
// and reconciles them. Only a failure to read the plan fails the call.
func (s *budgetPlanService) GetPlan(ctx context.Context, userID string, period domain.PeriodKey) (*domain.ReconciledPlan, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	var (
		plan       *domain.BudgetPlan
		actuals    map[string]decimal.Decimal
		categories []domain.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plan, err = s.planRepo.FindPlanByPeriod(gctx, userID, period)
		return err
	})
	// Actuals and category names are best-effort: without them the plan is still
	// returned, with nil actuals and empty names.
	if s.actualsRepo != nil {
		g.Go(func() error {
			sums, err := s.actualsRepo.SumActualsByCategory(gctx, userID, period)
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				s.LogWarn(ctx, err, "Failed to load actuals, returning plan without them",
					slog.String("user_id", userID),
					slog.String("period", period.String()))
				return nil
			}
			actuals = sums
			return nil
		})
	}
	if s.categoryRepo != nil {
		g.Go(func() error {
			list, err := s.categoryRepo.ListCategories(gctx, userID)
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				s.LogWarn(ctx, err, "Failed to load categories, returning plan without names",
					slog.String("user_id", userID),
					slog.String("period", period.String()))
				return nil
			}
			categories = list
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "No budget plan for period",
				slog.String("user_id", userID),
				slog.String("period", period.String()))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to load budget plan",
			slog.String("user_id", userID),
			slog.String("period", period.String()))
		return nil, err
	}

	rows := budgeting.ApplyActuals(plan.Rows, actuals)
	index := domain.NewCategoryIndex(categories)
	reconciled := make([]domain.ReconciledRow, len(rows))
	for i, r := range rows {
		reconciled[i] = domain.ReconciledRow{BudgetRow: r, CategoryName: index.NameOf(r.CategoryID)}
	}
	plan.Rows = rows

	return &domain.ReconciledPlan{
		Plan:    *plan,
		Rows:    reconciled,
		Summary: budgeting.Summarize(rows),
	}, nil
}

// CreatePlan stores the first plan for a period
func (s *budgetPlanService) CreatePlan(ctx context.Context, userID string, period domain.PeriodKey, doc domain.PlanDocument) (*domain.BudgetPlan, error) {
	if err := s.validate(ctx, userID, period, doc); err != nil {
		return nil, err
	}

	now := s.now()
	plan := domain.BudgetPlan{
		PlanID: uuid.NewString(),
		UserID: userID,
		Period: period,
		Rows:   doc.Materialize(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.planRepo.CreatePlan(ctx, plan); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to create budget plan",
				slog.String("user_id", userID),
				slog.String("period", period.String()))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Budget plan created",
		slog.String("plan_id", plan.PlanID),
		slog.String("period", period.String()),
		slog.Int("rows", len(plan.Rows)))
	return &plan, nil
}

// UpdatePlan replaces the rows of an existing plan and returns the stored version
func (s *budgetPlanService) UpdatePlan(ctx context.Context, userID string, period domain.PeriodKey, doc domain.PlanDocument) (*domain.BudgetPlan, error) {
	if err := s.validate(ctx, userID, period, doc); err != nil {
		return nil, err
	}

	plan := domain.BudgetPlan{
		UserID: userID,
		Period: period,
		Rows:   doc.Materialize(),
		AuditFields: domain.AuditFields{
			LastUpdatedAt: s.now(),
			LastUpdatedBy: userID,
		},
	}

	if err := s.planRepo.UpdatePlan(ctx, plan); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update budget plan",
				slog.String("user_id", userID),
				slog.String("period", period.String()))
		}
		return nil, err
	}

	stored, err := s.planRepo.FindPlanByPeriod(ctx, userID, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to reload budget plan after update",
			slog.String("period", period.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Budget plan updated",
		slog.String("plan_id", stored.PlanID),
		slog.String("period", period.String()),
		slog.Int("rows", len(stored.Rows)))
	return stored, nil
}

// DeletePlan removes the plan for a period
func (s *budgetPlanService) DeletePlan(ctx context.Context, userID string, period domain.PeriodKey) error {
	if err := period.Validate(); err != nil {
		return err
	}
	if err := s.planRepo.DeletePlan(ctx, userID, period); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete budget plan",
				slog.String("user_id", userID),
				slog.String("period", period.String()))
		}
		return err
	}
	s.LogInfo(ctx, "Budget plan deleted", slog.String("period", period.String()))
	return nil
}

// validate checks the period, the row groups and, when categories are available,
// that every referenced category exists and has the row's type.
func (s *budgetPlanService) validate(ctx context.Context, userID string, period domain.PeriodKey, doc domain.PlanDocument) error {
	if err := period.Validate(); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if s.categoryRepo == nil || !hasCategories(doc) {
		return nil
	}

	categories, err := s.categoryRepo.ListCategories(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load categories for validation", slog.String("user_id", userID))
		return fmt.Errorf("failed to load categories: %w", err)
	}
	index := domain.NewCategoryIndex(categories)
	for i, r := range doc.Rows {
		if r.CategoryID == nil {
			continue
		}
		c, ok := index[*r.CategoryID]
		if !ok {
			return fmt.Errorf("%w: row %d references unknown category %s", apperrors.ErrValidation, i, *r.CategoryID)
		}
		if c.Type != r.Group {
			return fmt.Errorf("%w: row %d is %s but category %q is %s", apperrors.ErrValidation, i, r.Group, c.Name, c.Type)
		}
	}
	return nil
}

func hasCategories(doc domain.PlanDocument) bool {
	for _, r := range doc.Rows {
		if r.CategoryID != nil {
			return true
		}
	}
	return false
}
