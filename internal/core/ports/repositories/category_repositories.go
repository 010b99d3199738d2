package repositories

import (
	"context"

	"github.com/SscSPs/budget_planner/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CategoryReader defines read operations for transaction categories
type CategoryReader interface {
	// ListCategories retrieves every category owned by a user.
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
}

// ActualsReader computes realised amounts from the transaction store
type ActualsReader interface {
	// SumActualsByCategory totals a user's transactions within the period, keyed by category id.
	// Uncategorised transactions are not reported.
	SumActualsByCategory(ctx context.Context, userID string, period domain.PeriodKey) (map[string]decimal.Decimal, error)
}
