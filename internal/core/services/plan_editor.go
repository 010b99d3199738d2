package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/SscSPs/budget_planner/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	"github.com/SscSPs/budget_planner/internal/utils/budgeting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EditorState is the primary state of a plan editing session.
type EditorState int

const (
	// StateViewing is read-only; the draft mirrors the last persisted plan or is empty.
	StateViewing EditorState = iota
	// StateEditing accepts row mutations on the draft.
	StateEditing
	// StateSaving has a commit in flight.
	StateSaving
)

func (s EditorState) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	default:
		return fmt.Sprintf("EditorState(%d)", int(s))
	}
}

// PlanEditor holds the local draft of one budget plan and drives it through
// load, edit, save, delete and copy against a PlanStore.
//
// Store calls never run under the editor's lock. At most one store mutation
// (save, delete or copy) is in flight at a time. Loads may overlap; only the
// response to the most recent load is applied.
type PlanEditor struct {
	store  portsrepo.PlanStore
	logger *slog.Logger

	mu        sync.Mutex
	state     EditorState
	period    domain.PeriodKey
	selected  bool
	persisted bool
	draft     []domain.BudgetRow
	snapshot  []domain.BudgetRow
	loadSeq   uint64
	epoch     uint64
	mutating  bool
	copying   bool
}

// PlanEditorOption configures a PlanEditor
type PlanEditorOption func(*PlanEditor)

// WithEditorLogger sets the logger used for state transitions and failures
func WithEditorLogger(logger *slog.Logger) PlanEditorOption {
	return func(e *PlanEditor) {
		e.logger = logger
	}
}

// NewPlanEditor creates an editor in the viewing state with no period selected.
func NewPlanEditor(store portsrepo.PlanStore, opts ...PlanEditorOption) *PlanEditor {
	e := &PlanEditor{
		store:  store,
		logger: slog.Default(),
		state:  StateViewing,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current primary state.
func (e *PlanEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Period returns the active period.
func (e *PlanEditor) Period() domain.PeriodKey {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.period
}

// HasPersistedPlan reports whether the store held a plan for the active period at the last load or write.
func (e *PlanEditor) HasPersistedPlan() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persisted
}

// IsCopying reports whether a copy is in flight.
func (e *PlanEditor) IsCopying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copying
}

// Rows returns a copy of the draft rows in insertion order.
func (e *PlanEditor) Rows() []domain.BudgetRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneRows(e.draft)
}

// Summary derives totals for the current draft.
func (e *PlanEditor) Summary() domain.PlanSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return budgeting.Summarize(e.draft)
}

// Load fetches the plan for period and makes it the draft.
//
// A missing plan yields an empty draft and no error. A store failure also yields an
// empty draft but is returned as an *apperrors.OpError for OpLoad. If another Load
// was issued while this one was outstanding, the response is discarded and
// apperrors.ErrStaleResponse is returned. Reloading the active period while a save
// is in flight is refused with apperrors.ErrInvalidState.
func (e *PlanEditor) Load(ctx context.Context, period domain.PeriodKey) error {
	if err := period.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	if e.selected && period == e.period && e.state == StateSaving {
		e.mu.Unlock()
		return fmt.Errorf("%w: save in progress for %s", apperrors.ErrInvalidState, period)
	}
	e.loadSeq++
	seq := e.loadSeq
	if !e.selected || period != e.period {
		e.epoch++
		e.period = period
		e.selected = true
		e.state = StateViewing
		e.persisted = false
		e.draft = nil
		e.snapshot = nil
	}
	e.mu.Unlock()

	plan, err := e.store.Fetch(ctx, period)

	e.mu.Lock()
	defer e.mu.Unlock()

	// A save started after this load was issued owns the draft until it completes.
	if seq != e.loadSeq || e.state == StateSaving {
		e.logger.Debug("Discarding stale plan response", slog.String("period", period.String()))
		return apperrors.ErrStaleResponse
	}

	e.state = StateViewing
	switch {
	case err == nil:
		e.persisted = true
		e.setDraft(plan.Rows)
		e.logger.Debug("Plan loaded", slog.String("period", period.String()), slog.Int("rows", len(e.draft)))
		return nil
	case errors.Is(err, apperrors.ErrNotFound):
		e.persisted = false
		e.setDraft(nil)
		e.logger.Debug("No plan for period", slog.String("period", period.String()))
		return nil
	default:
		e.persisted = false
		e.setDraft(nil)
		e.logger.Warn("Failed to load plan", slog.String("period", period.String()), slog.String("error", err.Error()))
		return apperrors.NewOpError(apperrors.OpLoad, period, err)
	}
}

// EnterEdit moves from viewing to editing. It is a no-op when already editing.
func (e *PlanEditor) EnterEdit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateEditing:
		return nil
	case StateSaving:
		return fmt.Errorf("%w: save in progress", apperrors.ErrInvalidState)
	}
	if !e.selected {
		return fmt.Errorf("%w: no period loaded", apperrors.ErrInvalidState)
	}
	e.state = StateEditing
	return nil
}

// Cancel discards staged edits and returns to viewing the last persisted rows.
func (e *PlanEditor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateEditing {
		return fmt.Errorf("%w: cancel requires editing, editor is %s", apperrors.ErrInvalidState, e.state)
	}
	e.draft = cloneRows(e.snapshot)
	e.state = StateViewing
	return nil
}

// AddRow appends a new empty row to group and returns its local id.
func (e *PlanEditor) AddRow(group domain.BudgetGroup) (string, error) {
	if !group.IsValid() {
		return "", fmt.Errorf("%w: unknown budget group %q", apperrors.ErrValidation, group)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireEditing(); err != nil {
		return "", err
	}
	row := domain.NewBudgetRow(group)
	e.draft = append(e.draft, row)
	return row.LocalID, nil
}

// RemoveRow deletes a row from the draft.
func (e *PlanEditor) RemoveRow(rowID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireEditing(); err != nil {
		return err
	}
	i := e.indexOf(rowID)
	if i < 0 {
		return fmt.Errorf("%w: row %s", apperrors.ErrNotFound, rowID)
	}
	e.draft = append(e.draft[:i], e.draft[i+1:]...)
	return nil
}

// Rename sets a row's label.
func (e *PlanEditor) Rename(rowID, name string) error {
	return e.updateRow(rowID, func(r *domain.BudgetRow) {
		r.Name = name
	})
}

// SetAmount sets a row's planned amount.
func (e *PlanEditor) SetAmount(rowID string, amount decimal.Decimal) error {
	return e.updateRow(rowID, func(r *domain.BudgetRow) {
		r.Amount = amount
	})
}

// SetAmountText sets a row's planned amount from user input; unparseable text becomes zero.
func (e *PlanEditor) SetAmountText(rowID, text string) error {
	return e.SetAmount(rowID, domain.ParseAmountOrZero(text))
}

// SetCategory sets or clears (nil) a row's category.
func (e *PlanEditor) SetCategory(rowID string, categoryID *string) error {
	var id *string
	if categoryID != nil && *categoryID != "" {
		v := *categoryID
		id = &v
	}
	return e.updateRow(rowID, func(r *domain.BudgetRow) {
		r.CategoryID = id
	})
}

// SetIncludeInTotal sets whether a row contributes to totals.
func (e *PlanEditor) SetIncludeInTotal(rowID string, include bool) error {
	return e.updateRow(rowID, func(r *domain.BudgetRow) {
		r.IncludeInTotal = include
	})
}

// Save commits the draft through the upsert protocol and reloads it from the store.
//
// On a write failure the editor stays in editing with the draft untouched and the
// error is returned for OpSave. If the write succeeds but the reload fails, the
// editor returns to viewing with the rows it sent and the error is returned for OpLoad.
// If the active period changed while the save was in flight, the result is not applied.
func (e *PlanEditor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateEditing {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("%w: save requires editing, editor is %s", apperrors.ErrInvalidState, state)
	}
	if e.mutating {
		e.mu.Unlock()
		return fmt.Errorf("%w: another store operation is in progress", apperrors.ErrInvalidState)
	}
	e.state = StateSaving
	e.mutating = true
	period, epoch := e.period, e.epoch
	doc := domain.NewPlanDocument(e.draft)
	e.mu.Unlock()

	writeErr := UpsertPlan(ctx, e.store, period, doc)
	var (
		plan    *domain.BudgetPlan
		loadErr error
	)
	if writeErr == nil {
		plan, loadErr = e.store.Fetch(ctx, period)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.mutating = false

	if epoch != e.epoch {
		e.logger.Debug("Save finished after period switch", slog.String("period", period.String()))
		if writeErr != nil {
			return apperrors.NewOpError(apperrors.OpSave, period, writeErr)
		}
		return nil
	}

	if writeErr != nil {
		e.state = StateEditing
		e.logger.Warn("Failed to save plan", slog.String("period", period.String()), slog.String("error", writeErr.Error()))
		return apperrors.NewOpError(apperrors.OpSave, period, writeErr)
	}

	e.state = StateViewing
	e.persisted = true
	if loadErr != nil {
		e.setDraft(doc.Materialize())
		e.logger.Warn("Plan saved but reload failed", slog.String("period", period.String()), slog.String("error", loadErr.Error()))
		return apperrors.NewOpError(apperrors.OpLoad, period, loadErr)
	}
	e.setDraft(plan.Rows)
	e.logger.Debug("Plan saved", slog.String("period", period.String()), slog.Int("rows", len(e.draft)))
	return nil
}

// Delete removes the persisted plan for the active period and resets the draft.
func (e *PlanEditor) Delete(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateSaving || e.mutating {
		e.mu.Unlock()
		return fmt.Errorf("%w: another store operation is in progress", apperrors.ErrInvalidState)
	}
	if !e.persisted {
		e.mu.Unlock()
		return fmt.Errorf("%w: no persisted plan for %s", apperrors.ErrInvalidState, e.period)
	}
	e.mutating = true
	period, epoch := e.period, e.epoch
	e.mu.Unlock()

	err := e.store.Delete(ctx, period)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.mutating = false

	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		e.logger.Warn("Failed to delete plan", slog.String("period", period.String()), slog.String("error", err.Error()))
		return apperrors.NewOpError(apperrors.OpDelete, period, err)
	}
	if epoch != e.epoch {
		return nil
	}
	e.persisted = false
	e.state = StateViewing
	e.setDraft(nil)
	e.logger.Debug("Plan deleted", slog.String("period", period.String()))
	return nil
}

// CopyTo writes the current draft to target through the upsert protocol.
// The active period, its draft and its persisted plan are left unchanged.
func (e *PlanEditor) CopyTo(ctx context.Context, target domain.PeriodKey) error {
	if err := target.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	if e.state != StateViewing {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("%w: copy requires viewing, editor is %s", apperrors.ErrInvalidState, state)
	}
	if !e.selected {
		e.mu.Unlock()
		return fmt.Errorf("%w: no period loaded", apperrors.ErrInvalidState)
	}
	if target == e.period {
		e.mu.Unlock()
		return apperrors.ErrSamePeriod
	}
	if e.mutating {
		e.mu.Unlock()
		return fmt.Errorf("%w: another store operation is in progress", apperrors.ErrInvalidState)
	}
	e.mutating = true
	e.copying = true
	source := e.period
	doc := domain.NewPlanDocument(e.draft)
	e.mu.Unlock()

	err := UpsertPlan(ctx, e.store, target, doc)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.mutating = false
	e.copying = false

	if err != nil {
		e.logger.Warn("Failed to copy plan",
			slog.String("from", source.String()),
			slog.String("to", target.String()),
			slog.String("error", err.Error()))
		return apperrors.NewOpError(apperrors.OpCopy, target, err)
	}
	e.logger.Debug("Plan copied",
		slog.String("from", source.String()),
		slog.String("to", target.String()),
		slog.Int("rows", len(doc.Rows)))
	return nil
}

func (e *PlanEditor) updateRow(rowID string, apply func(*domain.BudgetRow)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireEditing(); err != nil {
		return err
	}
	i := e.indexOf(rowID)
	if i < 0 {
		return fmt.Errorf("%w: row %s", apperrors.ErrNotFound, rowID)
	}
	apply(&e.draft[i])
	return nil
}

func (e *PlanEditor) requireEditing() error {
	if e.state != StateEditing {
		return fmt.Errorf("%w: draft is read-only while %s", apperrors.ErrInvalidState, e.state)
	}
	return nil
}

func (e *PlanEditor) indexOf(rowID string) int {
	for i := range e.draft {
		if e.draft[i].LocalID == rowID {
			return i
		}
	}
	return -1
}

// setDraft adopts rows as both draft and snapshot, assigning fresh local ids.
// Caller holds e.mu.
func (e *PlanEditor) setDraft(rows []domain.BudgetRow) {
	e.draft = make([]domain.BudgetRow, len(rows))
	for i, r := range rows {
		c := r.Clone()
		c.LocalID = uuid.NewString()
		e.draft[i] = c
	}
	e.snapshot = cloneRows(e.draft)
}

func cloneRows(rows []domain.BudgetRow) []domain.BudgetRow {
	out := make([]domain.BudgetRow, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
