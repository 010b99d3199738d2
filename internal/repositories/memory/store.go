// Package memory keeps plans, categories and transactions in process memory.
// It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/SscSPs/budget_planner/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type planKey struct {
	userID string
	period domain.PeriodKey
}

// Store implements the plan, category and actuals repositories.
type Store struct {
	mu           sync.RWMutex
	plans        map[planKey]domain.BudgetPlan
	categories   map[string][]domain.Category
	transactions map[string][]domain.Transaction
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		plans:        make(map[planKey]domain.BudgetPlan),
		categories:   make(map[string][]domain.Category),
		transactions: make(map[string][]domain.Transaction),
	}
}

var (
	_ portsrepo.BudgetPlanRepositoryFacade = (*Store)(nil)
	_ portsrepo.CategoryReader             = (*Store)(nil)
	_ portsrepo.ActualsReader              = (*Store)(nil)
)

// NewRepositoryProvider exposes s through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BudgetPlanRepo: s,
		CategoryRepo:   s,
		ActualsRepo:    s,
	}
}

func (s *Store) FindPlanByPeriod(_ context.Context, userID string, period domain.PeriodKey) (*domain.BudgetPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[planKey{userID, period}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := clonePlan(plan)
	return &out, nil
}

func (s *Store) CreatePlan(_ context.Context, plan domain.BudgetPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := planKey{plan.UserID, plan.Period}
	if _, ok := s.plans[key]; ok {
		return fmt.Errorf("%w: plan for %s", apperrors.ErrDuplicate, plan.Period)
	}
	s.plans[key] = clonePlan(plan)
	return nil
}

// UpdatePlan replaces the rows and last-updated audit fields, keeping id and creation fields.
func (s *Store) UpdatePlan(_ context.Context, plan domain.BudgetPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := planKey{plan.UserID, plan.Period}
	existing, ok := s.plans[key]
	if !ok {
		return apperrors.ErrNotFound
	}
	updated := clonePlan(plan)
	updated.PlanID = existing.PlanID
	updated.CreatedAt = existing.CreatedAt
	updated.CreatedBy = existing.CreatedBy
	s.plans[key] = updated
	return nil
}

func (s *Store) DeletePlan(_ context.Context, userID string, period domain.PeriodKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := planKey{userID, period}
	if _, ok := s.plans[key]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.plans, key)
	return nil
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories[userID]...), nil
}

func (s *Store) SumActualsByCategory(_ context.Context, userID string, period domain.PeriodKey) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[string]decimal.Decimal)
	for _, t := range s.transactions[userID] {
		if t.CategoryID == nil || !t.InPeriod(period) {
			continue
		}
		sums[*t.CategoryID] = sums[*t.CategoryID].Add(t.Amount)
	}
	return sums, nil
}

// AddCategory registers a category for its user, assigning an id when empty.
func (s *Store) AddCategory(c domain.Category) (domain.Category, error) {
	if !c.Type.IsValid() {
		return domain.Category{}, fmt.Errorf("%w: unknown category type %q", apperrors.ErrValidation, c.Type)
	}
	if c.CategoryID == "" {
		c.CategoryID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.UserID] = append(s.categories[c.UserID], c)
	return c, nil
}

// AddTransaction records a transaction for its user, assigning an id when empty.
func (s *Store) AddTransaction(t domain.Transaction) (domain.Transaction, error) {
	if err := t.Validate(); err != nil {
		return domain.Transaction{}, err
	}
	if t.TransactionID == "" {
		t.TransactionID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[t.UserID] = append(s.transactions[t.UserID], t)
	return t, nil
}

func clonePlan(p domain.BudgetPlan) domain.BudgetPlan {
	out := p
	out.Rows = make([]domain.BudgetRow, len(p.Rows))
	for i, r := range p.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}
