package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/SscSPs/budget_planner/internal/core/domain"
	"github.com/SscSPs/budget_planner/internal/repositories/database/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SQLiteStoreTestSuite struct {
	suite.Suite
	store  *sqlite.Store
	ctx    context.Context
	period domain.PeriodKey
}

func (s *SQLiteStoreTestSuite) SetupTest() {
	store, err := sqlite.NewStore(filepath.Join(s.T().TempDir(), "budget.db"))
	s.Require().NoError(err)
	s.store = store
	s.ctx = context.Background()
	s.period = domain.PeriodKey{Year: 2024, Month: 3}
}

func (s *SQLiteStoreTestSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *SQLiteStoreTestSuite) newPlan(rows ...domain.PlanRow) domain.BudgetPlan {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	return domain.BudgetPlan{
		PlanID: "plan-1",
		UserID: "user-1",
		Period: s.period,
		Rows:   domain.PlanDocument{Rows: rows}.Materialize(),
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: "user-1", LastUpdatedAt: now, LastUpdatedBy: "user-1",
		},
	}
}

func (s *SQLiteStoreTestSuite) TestPlanLifecycle() {
	cat := "cat-1"
	doc := domain.PlanDocument{Rows: []domain.PlanRow{
		{Group: domain.GroupIncome, Name: "Salary", Amount: decimal.RequireFromString("5000.50"), IncludeInTotal: true, CategoryID: &cat},
		{Group: domain.GroupExpense, Name: "", Amount: decimal.NewFromInt(-12), IncludeInTotal: false},
	}}

	_, err := s.store.FindPlanByPeriod(s.ctx, "user-1", s.period)
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.Require().NoError(s.store.CreatePlan(s.ctx, s.newPlan(doc.Rows...)))
	s.ErrorIs(s.store.CreatePlan(s.ctx, s.newPlan()), apperrors.ErrDuplicate)

	got, err := s.store.FindPlanByPeriod(s.ctx, "user-1", s.period)
	s.Require().NoError(err)
	s.Equal("plan-1", got.PlanID)
	s.Equal(s.period, got.Period)
	s.True(got.CreatedAt.Equal(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)))
	s.Require().Len(got.Rows, 2)
	s.Equal("Salary", got.Rows[0].Name)
	s.True(decimal.RequireFromString("5000.5").Equal(got.Rows[0].Amount))
	s.Equal("cat-1", *got.Rows[0].CategoryID)
	s.Nil(got.Rows[1].CategoryID)
	s.False(got.Rows[1].IncludeInTotal)

	updated := s.newPlan(domain.PlanRow{Group: domain.GroupSaving, Name: "Rainy day", Amount: decimal.NewFromInt(100), IncludeInTotal: true})
	updated.PlanID = ""
	s.Require().NoError(s.store.UpdatePlan(s.ctx, updated))

	got, err = s.store.FindPlanByPeriod(s.ctx, "user-1", s.period)
	s.Require().NoError(err)
	s.Equal("plan-1", got.PlanID)
	s.Require().Len(got.Rows, 1)
	s.Equal(domain.GroupSaving, got.Rows[0].Group)

	other := updated
	other.Period = s.period.Next()
	s.ErrorIs(s.store.UpdatePlan(s.ctx, other), apperrors.ErrNotFound)

	s.Require().NoError(s.store.DeletePlan(s.ctx, "user-1", s.period))
	s.ErrorIs(s.store.DeletePlan(s.ctx, "user-1", s.period), apperrors.ErrNotFound)
	_, err = s.store.FindPlanByPeriod(s.ctx, "user-1", s.period)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *SQLiteStoreTestSuite) TestCategoriesAndActuals() {
	food, err := s.store.AddCategory(s.ctx, domain.Category{UserID: "user-1", Name: "Food", Type: domain.GroupExpense})
	s.Require().NoError(err)
	_, err = s.store.AddCategory(s.ctx, domain.Category{UserID: "user-2", Name: "Other", Type: domain.GroupIncome})
	s.Require().NoError(err)

	add := func(cat *string, amount string, date time.Time) {
		_, err := s.store.AddTransaction(s.ctx, domain.Transaction{
			UserID: "user-1", CategoryID: cat, Amount: decimal.RequireFromString(amount), TransactionDate: date,
		})
		s.Require().NoError(err)
	}
	add(&food.CategoryID, "10.10", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	add(&food.CategoryID, "0.20", time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))
	add(&food.CategoryID, "99", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	add(nil, "5", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	cats, err := s.store.ListCategories(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(cats, 1)
	s.Equal(domain.GroupExpense, cats[0].Type)

	sums, err := s.store.SumActualsByCategory(s.ctx, "user-1", s.period)
	s.Require().NoError(err)
	s.Len(sums, 1)
	s.True(decimal.RequireFromString("10.30").Equal(sums[food.CategoryID]), "sum %s", sums[food.CategoryID])
}

func (s *SQLiteStoreTestSuite) TestReopenKeepsData() {
	path := filepath.Join(s.T().TempDir(), "reopen.db")
	first, err := sqlite.NewStore(path)
	s.Require().NoError(err)
	s.Require().NoError(first.CreatePlan(s.ctx, s.newPlan()))
	s.Require().NoError(first.Close())

	second, err := sqlite.NewStore(path)
	s.Require().NoError(err)
	defer second.Close()

	got, err := second.FindPlanByPeriod(s.ctx, "user-1", s.period)
	s.Require().NoError(err)
	s.Empty(got.Rows)
}

func TestSQLiteStoreTestSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreTestSuite))
}
