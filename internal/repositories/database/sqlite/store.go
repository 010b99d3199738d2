// Package sqlite stores budget plans, categories and transactions in a local
// SQLite file. Amounts are kept as decimal text and summed in Go.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/SscSPs/budget_planner/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	"github.com/SscSPs/budget_planner/internal/models"
	"github.com/SscSPs/budget_planner/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// timeLayout is fixed width so stored timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db *sql.DB
}

var (
	_ portsrepo.BudgetPlanRepositoryFacade = (*Store)(nil)
	_ portsrepo.CategoryReader             = (*Store)(nil)
	_ portsrepo.ActualsReader              = (*Store)(nil)
)

// NewStore opens (creating if needed) the database at dbPath and migrates it.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewRepositoryProvider exposes s through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BudgetPlanRepo: s,
		CategoryRepo:   s,
		ActualsRepo:    s,
	}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) FindPlanByPeriod(ctx context.Context, userID string, period domain.PeriodKey) (*domain.BudgetPlan, error) {
	var (
		m                    models.BudgetPlan
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT plan_id, user_id, year, month, created_at, created_by, last_updated_at, last_updated_by
		FROM budget_plans
		WHERE user_id = ? AND year = ? AND month = ?`,
		userID, period.Year, period.Month,
	).Scan(&m.PlanID, &m.UserID, &m.Year, &m.Month, &createdAt, &m.CreatedBy, &updatedAt, &m.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find budget plan for %s: %w", period, err)
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if m.LastUpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT row_id, plan_id, position, row_group, name, category_id, amount, include_in_total
		FROM budget_plan_rows
		WHERE plan_id = ?
		ORDER BY position`, m.PlanID)
	if err != nil {
		return nil, fmt.Errorf("query budget plan rows: %w", err)
	}
	defer rows.Close()

	var items []models.BudgetPlanRow
	for rows.Next() {
		var r models.BudgetPlanRow
		if err := rows.Scan(&r.RowID, &r.PlanID, &r.Position, &r.RowGroup, &r.Name, &r.CategoryID, &r.Amount, &r.IncludeInTotal); err != nil {
			return nil, fmt.Errorf("scan budget plan row: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget plan rows: %w", err)
	}

	plan := mapping.ToDomainBudgetPlan(m, items)
	return &plan, nil
}

func (s *Store) CreatePlan(ctx context.Context, plan domain.BudgetPlan) error {
	header, items := mapping.ToModelBudgetPlan(plan)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO budget_plans (plan_id, user_id, year, month, created_at, created_by, last_updated_at, last_updated_by)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			header.PlanID, header.UserID, header.Year, header.Month,
			formatTime(header.CreatedAt), header.CreatedBy,
			formatTime(header.LastUpdatedAt), header.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: budget plan for %s already exists", apperrors.ErrDuplicate, plan.Period)
			}
			return fmt.Errorf("insert budget plan: %w", err)
		}
		return insertRows(ctx, tx, items)
	})
}

func (s *Store) UpdatePlan(ctx context.Context, plan domain.BudgetPlan) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var planID string
		err := tx.QueryRowContext(ctx, `
			SELECT plan_id FROM budget_plans WHERE user_id = ? AND year = ? AND month = ?`,
			plan.UserID, plan.Period.Year, plan.Period.Month,
		).Scan(&planID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("find budget plan: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE budget_plans SET last_updated_at = ?, last_updated_by = ? WHERE plan_id = ?`,
			formatTime(plan.LastUpdatedAt), plan.LastUpdatedBy, planID,
		); err != nil {
			return fmt.Errorf("update budget plan: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_plan_rows WHERE plan_id = ?`, planID); err != nil {
			return fmt.Errorf("clear budget plan rows: %w", err)
		}
		return insertRows(ctx, tx, mapping.ToModelBudgetPlanRows(planID, plan.Rows))
	})
}

func (s *Store) DeletePlan(ctx context.Context, userID string, period domain.PeriodKey) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var planID string
		err := tx.QueryRowContext(ctx, `
			SELECT plan_id FROM budget_plans WHERE user_id = ? AND year = ? AND month = ?`,
			userID, period.Year, period.Month,
		).Scan(&planID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("find budget plan: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_plan_rows WHERE plan_id = ?`, planID); err != nil {
			return fmt.Errorf("delete budget plan rows: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_plans WHERE plan_id = ?`, planID); err != nil {
			return fmt.Errorf("delete budget plan: %w", err)
		}
		return nil
	})
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, user_id, name, category_type
		FROM categories
		WHERE user_id = ?
		ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var m models.Category
		if err := rows.Scan(&m.CategoryID, &m.UserID, &m.Name, &m.CategoryType); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, mapping.ToDomainCategory(m))
	}
	return categories, rows.Err()
}

func (s *Store) SumActualsByCategory(ctx context.Context, userID string, period domain.PeriodKey) (map[string]decimal.Decimal, error) {
	start, end := period.Bounds()
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, amount
		FROM transactions
		WHERE user_id = ?
		  AND category_id IS NOT NULL
		  AND transaction_date >= ?
		  AND transaction_date < ?`,
		userID, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("query actuals for %s: %w", period, err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			categoryID string
			amount     decimal.Decimal
		)
		if err := rows.Scan(&categoryID, &amount); err != nil {
			return nil, fmt.Errorf("scan actual: %w", err)
		}
		sums[categoryID] = sums[categoryID].Add(amount)
	}
	return sums, rows.Err()
}

// AddCategory inserts a category, assigning an id when empty.
func (s *Store) AddCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	if !c.Type.IsValid() {
		return domain.Category{}, fmt.Errorf("%w: unknown category type %q", apperrors.ErrValidation, c.Type)
	}
	if c.CategoryID == "" {
		c.CategoryID = uuid.NewString()
	}
	m := mapping.ToModelCategory(c)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (category_id, user_id, name, category_type) VALUES (?, ?, ?, ?)`,
		m.CategoryID, m.UserID, m.Name, m.CategoryType)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Category{}, fmt.Errorf("%w: category %s", apperrors.ErrDuplicate, c.CategoryID)
		}
		return domain.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// AddTransaction inserts a transaction, assigning an id and audit fields when empty.
func (s *Store) AddTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	if err := t.Validate(); err != nil {
		return domain.Transaction{}, err
	}
	if t.TransactionID == "" {
		t.TransactionID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		now := time.Now()
		t.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: t.UserID, LastUpdatedAt: now, LastUpdatedBy: t.UserID}
	}
	m := mapping.ToModelTransaction(t)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (transaction_id, user_id, category_id, amount, transaction_date, notes,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.TransactionID, m.UserID, m.CategoryID, m.Amount.String(), formatTime(m.TransactionDate), m.Notes,
		formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, items []models.BudgetPlanRow) error {
	if len(items) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO budget_plan_rows (row_id, plan_id, position, row_group, name, category_id, amount, include_in_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare row insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range items {
		if _, err := stmt.ExecContext(ctx, r.RowID, r.PlanID, r.Position, r.RowGroup, r.Name, r.CategoryID, r.Amount.String(), r.IncludeInTotal); err != nil {
			return fmt.Errorf("insert budget plan row: %w", err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
