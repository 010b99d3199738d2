package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/SscSPs/budget_planner/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	"github.com/SscSPs/budget_planner/internal/core/services"
	"github.com/SscSPs/budget_planner/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock PlanStore ---
type MockPlanStore struct {
	mock.Mock
}

func (m *MockPlanStore) Fetch(ctx context.Context, period domain.PeriodKey) (*domain.BudgetPlan, error) {
	args := m.Called(ctx, period)
	var plan *domain.BudgetPlan
	if args.Get(0) != nil {
		plan = args.Get(0).(*domain.BudgetPlan)
	}
	return plan, args.Error(1)
}

func (m *MockPlanStore) Create(ctx context.Context, period domain.PeriodKey, doc domain.PlanDocument) error {
	args := m.Called(ctx, period, doc)
	return args.Error(0)
}

func (m *MockPlanStore) Update(ctx context.Context, period domain.PeriodKey, doc domain.PlanDocument) error {
	args := m.Called(ctx, period, doc)
	return args.Error(0)
}

func (m *MockPlanStore) Delete(ctx context.Context, period domain.PeriodKey) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

var _ portsrepo.PlanStore = (*MockPlanStore)(nil)

var (
	march        = domain.PeriodKey{Year: 2024, Month: 3}
	april        = domain.PeriodKey{Year: 2024, Month: 4}
	errTransport = errors.New("connection refused")
	notFoundPlan = (*domain.BudgetPlan)(nil)
)

func planRow(group domain.BudgetGroup, name string, amount int64) domain.PlanRow {
	return domain.PlanRow{Group: group, Name: name, Amount: decimal.NewFromInt(amount), IncludeInTotal: true}
}

func storedPlan(period domain.PeriodKey, rows ...domain.PlanRow) *domain.BudgetPlan {
	return &domain.BudgetPlan{
		PlanID: "plan-" + period.String(),
		UserID: "user-1",
		Period: period,
		Rows:   domain.PlanDocument{Rows: rows}.Materialize(),
	}
}

// sameDocument compares documents by value, treating decimals numerically.
func sameDocument(want domain.PlanDocument) interface{} {
	return mock.MatchedBy(func(got domain.PlanDocument) bool {
		if len(got.Rows) != len(want.Rows) {
			return false
		}
		for i := range got.Rows {
			g, w := got.Rows[i], want.Rows[i]
			if g.Group != w.Group || g.Name != w.Name || g.IncludeInTotal != w.IncludeInTotal || !g.Amount.Equal(w.Amount) {
				return false
			}
			if (g.CategoryID == nil) != (w.CategoryID == nil) || (g.CategoryID != nil && *g.CategoryID != *w.CategoryID) {
				return false
			}
		}
		return true
	})
}

// --- Test Suite ---
type PlanEditorTestSuite struct {
	suite.Suite
	store  *MockPlanStore
	editor *services.PlanEditor
	ctx    context.Context
}

func (s *PlanEditorTestSuite) SetupTest() {
	s.store = new(MockPlanStore)
	s.editor = services.NewPlanEditor(s.store)
	s.ctx = context.Background()
}

func (s *PlanEditorTestSuite) TearDownTest() {
	s.store.AssertExpectations(s.T())
}

// loadEmptyAndEdit loads march as absent and enters editing.
func (s *PlanEditorTestSuite) loadEmptyAndEdit() {
	s.store.On("Fetch", mock.Anything, march).Return(notFoundPlan, apperrors.ErrNotFound).Once()
	s.Require().NoError(s.editor.Load(s.ctx, march))
	s.Require().NoError(s.editor.EnterEdit())
}

func (s *PlanEditorTestSuite) addRow(group domain.BudgetGroup, name string, amount int64) string {
	id, err := s.editor.AddRow(group)
	s.Require().NoError(err)
	s.Require().NoError(s.editor.Rename(id, name))
	s.Require().NoError(s.editor.SetAmount(id, decimal.NewFromInt(amount)))
	return id
}

func (s *PlanEditorTestSuite) TestLoad_AbsentPlanIsEmptyDraft() {
	s.store.On("Fetch", mock.Anything, march).Return(notFoundPlan, apperrors.ErrNotFound).Once()

	err := s.editor.Load(s.ctx, march)

	s.NoError(err)
	s.Equal(services.StateViewing, s.editor.State())
	s.Empty(s.editor.Rows())
	s.False(s.editor.HasPersistedPlan())
	s.Equal(march, s.editor.Period())
}

func (s *PlanEditorTestSuite) TestLoad_FoundPlan() {
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()

	s.Require().NoError(s.editor.Load(s.ctx, march))

	rows := s.editor.Rows()
	s.Require().Len(rows, 1)
	s.Equal("Salary", rows[0].Name)
	s.NotEmpty(rows[0].LocalID)
	s.True(s.editor.HasPersistedPlan())
}

func (s *PlanEditorTestSuite) TestLoad_TransportFailureIsDistinctFromAbsence() {
	s.store.On("Fetch", mock.Anything, march).Return(notFoundPlan, errTransport).Once()

	err := s.editor.Load(s.ctx, march)

	s.Require().Error(err)
	s.NotErrorIs(err, apperrors.ErrNotFound)
	s.ErrorIs(err, errTransport)
	op, ok := apperrors.OpOf(err)
	s.True(ok)
	s.Equal(apperrors.OpLoad, op)
	s.Equal(services.StateViewing, s.editor.State())
	s.Empty(s.editor.Rows())
}

func (s *PlanEditorTestSuite) TestLoad_InvalidPeriod() {
	err := s.editor.Load(s.ctx, domain.PeriodKey{Year: 2024, Month: 13})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PlanEditorTestSuite) TestLoad_StaleResponseIsDiscarded() {
	started := make(chan struct{})
	release := make(chan struct{})
	s.store.On("Fetch", mock.Anything, march).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(storedPlan(march, planRow(domain.GroupExpense, "Stale", 1)), nil).Once()
	s.store.On("Fetch", mock.Anything, april).Return(storedPlan(april, planRow(domain.GroupExpense, "Fresh", 2)), nil).Once()

	staleErr := make(chan error, 1)
	go func() {
		staleErr <- s.editor.Load(s.ctx, march)
	}()
	<-started

	s.Require().NoError(s.editor.Load(s.ctx, april))
	close(release)

	s.ErrorIs(<-staleErr, apperrors.ErrStaleResponse)
	s.Equal(april, s.editor.Period())
	rows := s.editor.Rows()
	s.Require().Len(rows, 1)
	s.Equal("Fresh", rows[0].Name)
}

func (s *PlanEditorTestSuite) TestMutationsRequireEditing() {
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()
	s.Require().NoError(s.editor.Load(s.ctx, march))
	id := s.editor.Rows()[0].LocalID

	_, err := s.editor.AddRow(domain.GroupExpense)
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.ErrorIs(s.editor.Rename(id, "x"), apperrors.ErrInvalidState)
	s.ErrorIs(s.editor.RemoveRow(id), apperrors.ErrInvalidState)
	s.ErrorIs(s.editor.Save(s.ctx), apperrors.ErrInvalidState)
	s.ErrorIs(s.editor.Cancel(), apperrors.ErrInvalidState)
}

func (s *PlanEditorTestSuite) TestEnterEdit() {
	s.ErrorIs(s.editor.EnterEdit(), apperrors.ErrInvalidState, "nothing loaded yet")

	s.loadEmptyAndEdit()
	s.NoError(s.editor.EnterEdit(), "entering edit twice is a no-op")
	s.Equal(services.StateEditing, s.editor.State())
}

func (s *PlanEditorTestSuite) TestRowMutations() {
	s.loadEmptyAndEdit()
	cat := "cat-food"

	id := s.addRow(domain.GroupExpense, "Food", 300)
	other := s.addRow(domain.GroupSaving, "Rainy day", 100)

	s.Require().NoError(s.editor.SetCategory(id, &cat))
	s.Require().NoError(s.editor.SetAmountText(other, "12,50"))
	s.Require().NoError(s.editor.SetIncludeInTotal(other, false))

	rows := s.editor.Rows()
	s.Require().Len(rows, 2)
	s.Equal("cat-food", *rows[0].CategoryID)
	s.True(decimal.RequireFromString("12.5").Equal(rows[1].Amount))
	s.False(rows[1].IncludeInTotal)

	s.Require().NoError(s.editor.SetAmountText(other, "not a number"))
	s.True(s.editor.Rows()[1].Amount.IsZero(), "invalid input is coerced to zero")

	s.Require().NoError(s.editor.SetCategory(id, nil))
	s.Nil(s.editor.Rows()[0].CategoryID)

	s.Require().NoError(s.editor.RemoveRow(id))
	s.Len(s.editor.Rows(), 1)
	s.ErrorIs(s.editor.RemoveRow(id), apperrors.ErrNotFound)

	_, err := s.editor.AddRow("bonus")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PlanEditorTestSuite) TestRowsReturnsCopies() {
	s.loadEmptyAndEdit()
	s.addRow(domain.GroupExpense, "Rent", 1200)

	rows := s.editor.Rows()
	rows[0].Name = "changed"

	s.Equal("Rent", s.editor.Rows()[0].Name)
}

func (s *PlanEditorTestSuite) TestCancelRestoresPersistedRows() {
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()
	s.Require().NoError(s.editor.Load(s.ctx, march))
	s.Require().NoError(s.editor.EnterEdit())
	id := s.editor.Rows()[0].LocalID

	s.Require().NoError(s.editor.Rename(id, "Bonus"))
	s.addRow(domain.GroupExpense, "Rent", 1200)
	s.Require().NoError(s.editor.Cancel())

	s.Equal(services.StateViewing, s.editor.State())
	rows := s.editor.Rows()
	s.Require().Len(rows, 1)
	s.Equal("Salary", rows[0].Name)
}

// Period (2024, 3) has no plan; Salary 5000 and Rent 1200 are saved through the create fallback.
func (s *PlanEditorTestSuite) TestSave_CreatesWhenUpdateReportsNotFound() {
	s.loadEmptyAndEdit()
	s.addRow(domain.GroupIncome, "Salary", 5000)
	s.addRow(domain.GroupExpense, "Rent", 1200)

	doc := domain.PlanDocument{Rows: []domain.PlanRow{
		planRow(domain.GroupIncome, "Salary", 5000),
		planRow(domain.GroupExpense, "Rent", 1200),
	}}
	s.store.On("Update", mock.Anything, march, sameDocument(doc)).Return(apperrors.ErrNotFound).Once()
	s.store.On("Create", mock.Anything, march, sameDocument(doc)).Return(nil).Once()
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, doc.Rows...), nil).Once()

	s.Require().NoError(s.editor.Save(s.ctx))

	s.Equal(services.StateViewing, s.editor.State())
	s.True(s.editor.HasPersistedPlan())
	summary := s.editor.Summary()
	s.True(decimal.NewFromInt(3800).Equal(summary.RemainingBudget), "remaining %s", summary.RemainingBudget)
	s.True(decimal.NewFromInt(76).Equal(summary.RemainingBudgetPct), "pct %s", summary.RemainingBudgetPct)
}

func (s *PlanEditorTestSuite) TestSave_UpdateExistingDoesNotCreate() {
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()
	s.Require().NoError(s.editor.Load(s.ctx, march))
	s.Require().NoError(s.editor.EnterEdit())

	s.store.On("Update", mock.Anything, march, mock.Anything).Return(nil).Once()
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()

	s.Require().NoError(s.editor.Save(s.ctx))
	s.store.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PlanEditorTestSuite) TestSave_TransportFailurePreservesDraft() {
	s.loadEmptyAndEdit()
	s.addRow(domain.GroupIncome, "Salary", 5000)
	s.addRow(domain.GroupExpense, "Rent", 1200)
	before := s.editor.Rows()

	s.store.On("Update", mock.Anything, march, mock.Anything).Return(errTransport).Once()

	err := s.editor.Save(s.ctx)

	s.Require().Error(err)
	s.ErrorIs(err, errTransport)
	op, _ := apperrors.OpOf(err)
	s.Equal(apperrors.OpSave, op)
	s.Equal(services.StateEditing, s.editor.State())
	s.Equal(before, s.editor.Rows())
}

func (s *PlanEditorTestSuite) TestSave_CreateFailurePreservesDraft() {
	s.loadEmptyAndEdit()
	s.addRow(domain.GroupIncome, "Salary", 5000)

	s.store.On("Update", mock.Anything, march, mock.Anything).Return(apperrors.ErrNotFound).Once()
	s.store.On("Create", mock.Anything, march, mock.Anything).Return(errTransport).Once()

	err := s.editor.Save(s.ctx)

	s.ErrorIs(err, errTransport)
	s.Equal(services.StateEditing, s.editor.State())
	s.Len(s.editor.Rows(), 1)
	s.False(s.editor.HasPersistedPlan())
}

func (s *PlanEditorTestSuite) TestSave_ReloadFailureKeepsSentRows() {
	s.loadEmptyAndEdit()
	s.addRow(domain.GroupIncome, "Salary", 5000)

	s.store.On("Update", mock.Anything, march, mock.Anything).Return(nil).Once()
	s.store.On("Fetch", mock.Anything, march).Return(notFoundPlan, errTransport).Once()

	err := s.editor.Save(s.ctx)

	op, ok := apperrors.OpOf(err)
	s.Require().True(ok)
	s.Equal(apperrors.OpLoad, op)
	s.Equal(services.StateViewing, s.editor.State())
	s.True(s.editor.HasPersistedPlan())
	rows := s.editor.Rows()
	s.Require().Len(rows, 1)
	s.Equal("Salary", rows[0].Name)
}

func (s *PlanEditorTestSuite) TestSave_BlocksOtherMutationsWhileInFlight() {
	s.loadEmptyAndEdit()
	s.addRow(domain.GroupIncome, "Salary", 5000)

	started := make(chan struct{})
	release := make(chan struct{})
	s.store.On("Update", mock.Anything, march, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil).Once()
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()

	saveErr := make(chan error, 1)
	go func() {
		saveErr <- s.editor.Save(s.ctx)
	}()
	<-started

	s.Equal(services.StateSaving, s.editor.State())
	s.ErrorIs(s.editor.Save(s.ctx), apperrors.ErrInvalidState)
	s.ErrorIs(s.editor.Delete(s.ctx), apperrors.ErrInvalidState)
	s.ErrorIs(s.editor.CopyTo(s.ctx, april), apperrors.ErrInvalidState)
	s.ErrorIs(s.editor.EnterEdit(), apperrors.ErrInvalidState)
	_, err := s.editor.AddRow(domain.GroupExpense)
	s.ErrorIs(err, apperrors.ErrInvalidState)

	close(release)
	s.NoError(<-saveErr)
	s.Equal(services.StateViewing, s.editor.State())
}

func (s *PlanEditorTestSuite) TestSave_ReloadOfActivePeriodRefusedWhileInFlight() {
	s.loadEmptyAndEdit()
	s.addRow(domain.GroupExpense, "Staged", 300)
	staged := s.editor.Rows()

	started := make(chan struct{})
	release := make(chan struct{})
	s.store.On("Update", mock.Anything, march, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(errTransport).Once()

	saveErr := make(chan error, 1)
	go func() {
		saveErr <- s.editor.Save(s.ctx)
	}()
	<-started

	s.ErrorIs(s.editor.Load(s.ctx, march), apperrors.ErrInvalidState)
	s.Equal(services.StateSaving, s.editor.State())
	s.Equal(staged, s.editor.Rows())

	close(release)
	s.ErrorIs(<-saveErr, errTransport)
	s.Equal(services.StateEditing, s.editor.State())
	s.Equal(staged, s.editor.Rows())
}

func (s *PlanEditorTestSuite) TestSave_EarlierLoadLandingMidSaveIsDiscarded() {
	s.loadEmptyAndEdit()
	s.addRow(domain.GroupExpense, "Staged", 300)
	staged := s.editor.Rows()

	fetchStarted := make(chan struct{})
	fetchRelease := make(chan struct{})
	s.store.On("Fetch", mock.Anything, march).
		Run(func(mock.Arguments) {
			close(fetchStarted)
			<-fetchRelease
		}).
		Return(storedPlan(march, planRow(domain.GroupExpense, "Old", 100)), nil).Once()

	loadErr := make(chan error, 1)
	go func() {
		loadErr <- s.editor.Load(s.ctx, march)
	}()
	<-fetchStarted

	updateStarted := make(chan struct{})
	updateRelease := make(chan struct{})
	s.store.On("Update", mock.Anything, march, mock.Anything).
		Run(func(mock.Arguments) {
			close(updateStarted)
			<-updateRelease
		}).
		Return(errTransport).Once()

	saveErr := make(chan error, 1)
	go func() {
		saveErr <- s.editor.Save(s.ctx)
	}()
	<-updateStarted

	close(fetchRelease)
	s.ErrorIs(<-loadErr, apperrors.ErrStaleResponse)
	s.Equal(services.StateSaving, s.editor.State())

	close(updateRelease)
	s.ErrorIs(<-saveErr, errTransport)
	s.Equal(services.StateEditing, s.editor.State())
	s.Equal(staged, s.editor.Rows())
}

func (s *PlanEditorTestSuite) TestDelete() {
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()
	s.Require().NoError(s.editor.Load(s.ctx, march))
	s.store.On("Delete", mock.Anything, march).Return(nil).Once()

	s.Require().NoError(s.editor.Delete(s.ctx))

	s.Empty(s.editor.Rows())
	s.False(s.editor.HasPersistedPlan())
	s.Equal(services.StateViewing, s.editor.State())
	s.ErrorIs(s.editor.Delete(s.ctx), apperrors.ErrInvalidState, "nothing left to delete")
}

func (s *PlanEditorTestSuite) TestDelete_FromEditingResetsDraft() {
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()
	s.Require().NoError(s.editor.Load(s.ctx, march))
	s.Require().NoError(s.editor.EnterEdit())
	s.addRow(domain.GroupExpense, "Rent", 1200)
	s.store.On("Delete", mock.Anything, march).Return(apperrors.ErrNotFound).Once()

	s.Require().NoError(s.editor.Delete(s.ctx), "a plan already gone counts as deleted")

	s.Empty(s.editor.Rows())
	s.Equal(services.StateViewing, s.editor.State())
}

func (s *PlanEditorTestSuite) TestDelete_FailurePreservesDraft() {
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()
	s.Require().NoError(s.editor.Load(s.ctx, march))
	s.store.On("Delete", mock.Anything, march).Return(errTransport).Once()

	err := s.editor.Delete(s.ctx)

	op, _ := apperrors.OpOf(err)
	s.Equal(apperrors.OpDelete, op)
	s.Len(s.editor.Rows(), 1)
	s.True(s.editor.HasPersistedPlan())
}

func (s *PlanEditorTestSuite) TestDelete_WithoutPersistedPlan() {
	s.loadEmptyAndEdit()
	s.ErrorIs(s.editor.Delete(s.ctx), apperrors.ErrInvalidState)
}

func (s *PlanEditorTestSuite) TestCopyTo_Guards() {
	s.ErrorIs(s.editor.CopyTo(s.ctx, april), apperrors.ErrInvalidState, "nothing loaded yet")

	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()
	s.Require().NoError(s.editor.Load(s.ctx, march))

	err := s.editor.CopyTo(s.ctx, march)
	s.ErrorIs(err, apperrors.ErrSamePeriod)
	s.ErrorIs(err, apperrors.ErrValidation)

	s.ErrorIs(s.editor.CopyTo(s.ctx, domain.PeriodKey{Year: 2024}), apperrors.ErrValidation)

	s.Require().NoError(s.editor.EnterEdit())
	s.ErrorIs(s.editor.CopyTo(s.ctx, april), apperrors.ErrInvalidState, "copy is only offered while viewing")
}

func (s *PlanEditorTestSuite) TestCopyTo_UsesUpsertAgainstTarget() {
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()
	s.Require().NoError(s.editor.Load(s.ctx, march))

	doc := domain.PlanDocument{Rows: []domain.PlanRow{planRow(domain.GroupIncome, "Salary", 5000)}}
	s.store.On("Update", mock.Anything, april, sameDocument(doc)).Return(apperrors.ErrNotFound).Once()
	s.store.On("Create", mock.Anything, april, sameDocument(doc)).Return(nil).Once()

	s.Require().NoError(s.editor.CopyTo(s.ctx, april))

	s.Equal(march, s.editor.Period())
	s.Equal(services.StateViewing, s.editor.State())
	s.False(s.editor.IsCopying())
	s.store.AssertNotCalled(s.T(), "Update", mock.Anything, march, mock.Anything)
}

func (s *PlanEditorTestSuite) TestCopyTo_FailurePreservesDraft() {
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()
	s.Require().NoError(s.editor.Load(s.ctx, march))
	before := s.editor.Rows()
	s.store.On("Update", mock.Anything, april, mock.Anything).Return(errTransport).Once()

	err := s.editor.CopyTo(s.ctx, april)

	var opErr *apperrors.OpError
	s.Require().ErrorAs(err, &opErr)
	s.Equal(apperrors.OpCopy, opErr.Op)
	s.Equal("2024-04", opErr.Period)
	s.Equal(before, s.editor.Rows())
	s.False(s.editor.IsCopying())
}

func (s *PlanEditorTestSuite) TestCopyTo_FlagSetWhileInFlight() {
	s.store.On("Fetch", mock.Anything, march).Return(storedPlan(march, planRow(domain.GroupIncome, "Salary", 5000)), nil).Once()
	s.Require().NoError(s.editor.Load(s.ctx, march))

	started := make(chan struct{})
	release := make(chan struct{})
	s.store.On("Update", mock.Anything, april, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil).Once()

	copyErr := make(chan error, 1)
	go func() {
		copyErr <- s.editor.CopyTo(s.ctx, april)
	}()
	<-started

	s.True(s.editor.IsCopying())
	s.Equal(services.StateViewing, s.editor.State(), "copy does not change the primary state")
	s.ErrorIs(s.editor.CopyTo(s.ctx, domain.PeriodKey{Year: 2024, Month: 5}), apperrors.ErrInvalidState)

	close(release)
	s.NoError(<-copyErr)
	s.False(s.editor.IsCopying())
}

func (s *PlanEditorTestSuite) TestSummary_ToggleExcludesAmount() {
	s.loadEmptyAndEdit()
	s.addRow(domain.GroupIncome, "Salary", 5000)
	id := s.addRow(domain.GroupExpense, "Car", 1000)
	s.addRow(domain.GroupExpense, "Rent", 1200)

	before := s.editor.Summary()
	s.Require().NoError(s.editor.SetIncludeInTotal(id, false))
	after := s.editor.Summary()

	thousand := decimal.NewFromInt(1000)
	s.True(before.Total(domain.GroupExpense).Sub(after.Total(domain.GroupExpense)).Equal(thousand))
	s.True(after.RemainingBudget.Sub(before.RemainingBudget).Equal(thousand))
}

func TestPlanEditorTestSuite(t *testing.T) {
	suite.Run(t, new(PlanEditorTestSuite))
}

// --- In-process round trips through the budget plan service ---

func newInProcessEditor(t *testing.T) (*services.PlanEditor, *services.UserPlanStore) {
	t.Helper()
	repo := memory.NewStore()
	svc := services.NewBudgetPlanService(repo, services.WithCategoryReader(repo), services.WithActualsReader(repo))
	store := services.NewUserPlanStore(svc, "user-1")
	return services.NewPlanEditor(store), store
}

func editRows(t *testing.T, e *services.PlanEditor, rows ...domain.PlanRow) {
	t.Helper()
	require.NoError(t, e.EnterEdit())
	for _, r := range rows {
		id, err := e.AddRow(r.Group)
		require.NoError(t, err)
		require.NoError(t, e.Rename(id, r.Name))
		require.NoError(t, e.SetAmount(id, r.Amount))
		require.NoError(t, e.SetIncludeInTotal(id, r.IncludeInTotal))
	}
}

func TestPlanEditor_SaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	editor, _ := newInProcessEditor(t)
	require.NoError(t, editor.Load(ctx, march))

	excluded := planRow(domain.GroupSaving, "", 250)
	excluded.IncludeInTotal = false
	editRows(t, editor, planRow(domain.GroupIncome, "Salary", 5000), excluded, planRow(domain.GroupExpense, "Rent", -20))
	sent := domain.NewPlanDocument(editor.Rows())

	require.NoError(t, editor.Save(ctx))
	require.NoError(t, editor.Load(ctx, april))
	require.NoError(t, editor.Load(ctx, march))

	assert.Equal(t, sent, domain.NewPlanDocument(editor.Rows()))
}

type failingActuals struct{}

func (failingActuals) SumActualsByCategory(context.Context, string, domain.PeriodKey) (map[string]decimal.Decimal, error) {
	return nil, errors.New("analytics down")
}

func TestPlanEditor_LoadSurvivesActualsOutage(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore()
	healthy := services.NewBudgetPlanService(repo, services.WithActualsReader(repo))
	_, err := healthy.CreatePlan(ctx, "user-1", march, domain.PlanDocument{Rows: []domain.PlanRow{
		planRow(domain.GroupIncome, "Salary", 5000),
		planRow(domain.GroupExpense, "Rent", 1200),
	}})
	require.NoError(t, err)

	degraded := services.NewBudgetPlanService(repo, services.WithActualsReader(failingActuals{}))
	editor := services.NewPlanEditor(services.NewUserPlanStore(degraded, "user-1"))

	require.NoError(t, editor.Load(ctx, march))
	assert.True(t, editor.HasPersistedPlan())
	rows := editor.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Salary", rows[0].Name)
	assert.Nil(t, rows[0].Actual)

	editRows(t, editor, planRow(domain.GroupSaving, "Emergency", 100))
	require.NoError(t, editor.Save(ctx))

	stored, err := repo.FindPlanByPeriod(ctx, "user-1", march)
	require.NoError(t, err)
	assert.Len(t, stored.Rows, 3, "saving after a degraded load keeps the existing rows")
}

func TestPlanEditor_SaveTwiceKeepsOnePlan(t *testing.T) {
	ctx := context.Background()
	editor, store := newInProcessEditor(t)
	require.NoError(t, editor.Load(ctx, march))
	editRows(t, editor, planRow(domain.GroupIncome, "Salary", 5000))

	require.NoError(t, editor.Save(ctx))
	first, err := store.Fetch(ctx, march)
	require.NoError(t, err)

	require.NoError(t, editor.EnterEdit())
	require.NoError(t, editor.Save(ctx))
	second, err := store.Fetch(ctx, march)
	require.NoError(t, err)

	assert.Equal(t, first.PlanID, second.PlanID, "second save updates the plan created by the first")
	assert.Len(t, second.Rows, 1)
}

func TestPlanEditor_CopyLeavesSourceUnchanged(t *testing.T) {
	ctx := context.Background()

	for _, targetExists := range []bool{false, true} {
		editor, store := newInProcessEditor(t)
		if targetExists {
			require.NoError(t, store.Create(ctx, april, domain.PlanDocument{Rows: []domain.PlanRow{planRow(domain.GroupExpense, "Old", 1)}}))
		}

		require.NoError(t, editor.Load(ctx, march))
		editRows(t, editor, planRow(domain.GroupIncome, "Salary", 5000), planRow(domain.GroupExpense, "Rent", 1200))
		require.NoError(t, editor.Save(ctx))
		source := domain.NewPlanDocument(editor.Rows())

		require.NoError(t, editor.CopyTo(ctx, april))

		target, err := store.Fetch(ctx, april)
		require.NoError(t, err)
		assert.Equal(t, source, target.Document(), "target exists=%v", targetExists)

		require.NoError(t, editor.Load(ctx, march))
		assert.Equal(t, source, domain.NewPlanDocument(editor.Rows()))
	}
}

func TestUpsertPlan(t *testing.T) {
	ctx := context.Background()
	doc := domain.PlanDocument{}

	t.Run("update succeeds", func(t *testing.T) {
		store := new(MockPlanStore)
		store.On("Update", mock.Anything, march, doc).Return(nil).Once()
		assert.NoError(t, services.UpsertPlan(ctx, store, march, doc))
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("falls back to create on not found", func(t *testing.T) {
		store := new(MockPlanStore)
		store.On("Update", mock.Anything, march, doc).Return(apperrors.ErrNotFound).Once()
		store.On("Create", mock.Anything, march, doc).Return(nil).Once()
		assert.NoError(t, services.UpsertPlan(ctx, store, march, doc))
		store.AssertExpectations(t)
	})

	t.Run("other errors are returned without create", func(t *testing.T) {
		store := new(MockPlanStore)
		store.On("Update", mock.Anything, march, doc).Return(errTransport).Once()
		assert.ErrorIs(t, services.UpsertPlan(ctx, store, march, doc), errTransport)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}
