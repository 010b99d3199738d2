package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/SscSPs/budget_planner/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	"github.com/SscSPs/budget_planner/internal/models"
	"github.com/SscSPs/budget_planner/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBudgetPlanRepository struct {
	BaseRepository
}

// newPgxBudgetPlanRepository creates a new repository for budget plans.
func newPgxBudgetPlanRepository(pool *pgxpool.Pool) *PgxBudgetPlanRepository {
	return &PgxBudgetPlanRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetPlanRepositoryFacade = (*PgxBudgetPlanRepository)(nil)

// FindPlanByPeriod loads the plan header and its rows in position order.
func (r *PgxBudgetPlanRepository) FindPlanByPeriod(ctx context.Context, userID string, period domain.PeriodKey) (*domain.BudgetPlan, error) {
	query := `
		SELECT plan_id, user_id, year, month, created_at, created_by, last_updated_at, last_updated_by
		FROM budget_plans
		WHERE user_id = $1 AND year = $2 AND month = $3;
	`
	var m models.BudgetPlan
	err := r.Pool.QueryRow(ctx, query, userID, period.Year, period.Month).Scan(
		&m.PlanID,
		&m.UserID,
		&m.Year,
		&m.Month,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget plan for %s: %w", period, err)
	}

	rows, err := r.findRows(ctx, m.PlanID)
	if err != nil {
		return nil, err
	}

	plan := mapping.ToDomainBudgetPlan(m, rows)
	return &plan, nil
}

func (r *PgxBudgetPlanRepository) findRows(ctx context.Context, planID string) ([]models.BudgetPlanRow, error) {
	query := `
		SELECT row_id, plan_id, position, row_group, name, category_id, amount, include_in_total
		FROM budget_plan_rows
		WHERE plan_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget plan rows: %w", err)
	}
	defer rows.Close()

	var out []models.BudgetPlanRow
	for rows.Next() {
		var m models.BudgetPlanRow
		if err := rows.Scan(
			&m.RowID,
			&m.PlanID,
			&m.Position,
			&m.RowGroup,
			&m.Name,
			&m.CategoryID,
			&m.Amount,
			&m.IncludeInTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget plan row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget plan rows: %w", err)
	}
	return out, nil
}

// CreatePlan inserts the header and rows in one transaction.
func (r *PgxBudgetPlanRepository) CreatePlan(ctx context.Context, plan domain.BudgetPlan) error {
	header, rows := mapping.ToModelBudgetPlan(plan)

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO budget_plans (plan_id, user_id, year, month, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`
		_, err := tx.Exec(ctx, query,
			header.PlanID,
			header.UserID,
			header.Year,
			header.Month,
			header.CreatedAt,
			header.CreatedBy,
			header.LastUpdatedAt,
			header.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: budget plan for %s already exists", apperrors.ErrDuplicate, plan.Period)
			}
			return fmt.Errorf("failed to insert budget plan: %w", err)
		}
		return insertRows(ctx, tx, rows)
	})
}

// UpdatePlan replaces every row of the plan and bumps its last-updated fields.
func (r *PgxBudgetPlanRepository) UpdatePlan(ctx context.Context, plan domain.BudgetPlan) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE budget_plans
			SET last_updated_at = $4, last_updated_by = $5
			WHERE user_id = $1 AND year = $2 AND month = $3
			RETURNING plan_id;
		`
		var planID string
		err := tx.QueryRow(ctx, query,
			plan.UserID,
			plan.Period.Year,
			plan.Period.Month,
			plan.LastUpdatedAt,
			plan.LastUpdatedBy,
		).Scan(&planID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to update budget plan: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM budget_plan_rows WHERE plan_id = $1;`, planID); err != nil {
			return fmt.Errorf("failed to clear budget plan rows: %w", err)
		}
		return insertRows(ctx, tx, mapping.ToModelBudgetPlanRows(planID, plan.Rows))
	})
}

// DeletePlan removes the plan; rows go with it through the cascade.
func (r *PgxBudgetPlanRepository) DeletePlan(ctx context.Context, userID string, period domain.PeriodKey) error {
	query := `DELETE FROM budget_plans WHERE user_id = $1 AND year = $2 AND month = $3;`
	tag, err := r.Pool.Exec(ctx, query, userID, period.Year, period.Month)
	if err != nil {
		return fmt.Errorf("failed to delete budget plan for %s: %w", period, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func insertRows(ctx context.Context, tx pgx.Tx, rows []models.BudgetPlanRow) error {
	if len(rows) == 0 {
		return nil
	}
	query := `
		INSERT INTO budget_plan_rows (row_id, plan_id, position, row_group, name, category_id, amount, include_in_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, m := range rows {
		batch.Queue(query, m.RowID, m.PlanID, m.Position, m.RowGroup, m.Name, m.CategoryID, m.Amount, m.IncludeInTotal)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert budget plan rows: %w", err)
	}
	return nil
}
