package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/budget_planner/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	"github.com/SscSPs/budget_planner/internal/models"
	"github.com/SscSPs/budget_planner/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) *PgxCategoryRepository {
	return &PgxCategoryRepository{BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.CategoryReader = (*PgxCategoryRepository)(nil)
	_ portsrepo.ActualsReader  = (*PgxCategoryRepository)(nil)
)

// ListCategories retrieves every category owned by a user, ordered by name.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `
		SELECT category_id, user_id, name, category_type
		FROM categories
		WHERE user_id = $1
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var m models.Category
		if err := rows.Scan(&m.CategoryID, &m.UserID, &m.Name, &m.CategoryType); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, mapping.ToDomainCategory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// SumActualsByCategory totals categorized transactions dated within the period.
func (r *PgxCategoryRepository) SumActualsByCategory(ctx context.Context, userID string, period domain.PeriodKey) (map[string]decimal.Decimal, error) {
	start, end := period.Bounds()
	query := `
		SELECT category_id, SUM(amount)
		FROM transactions
		WHERE user_id = $1
		  AND category_id IS NOT NULL
		  AND transaction_date >= $2
		  AND transaction_date < $3
		GROUP BY category_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to sum actuals for %s: %w", period, err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			categoryID string
			total      decimal.Decimal
		)
		if err := rows.Scan(&categoryID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan actuals: %w", err)
		}
		sums[categoryID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actuals: %w", err)
	}
	return sums, nil
}
