package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Transaction is a realised income or spending entry recorded by the user.
// Budget plans only read transactions, to compute actuals per category.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	UserID          string          `json:"userID"`
	CategoryID      *string         `json:"categoryID"` // Nullable, uncategorized when nil
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Notes           string          `json:"notes"`
	AuditFields
}

// Validate checks the fields required for the transaction to count towards actuals.
func (t Transaction) Validate() error {
	if t.UserID == "" {
		return fmt.Errorf("%w: transaction has no owner", apperrors.ErrValidation)
	}
	if t.TransactionDate.IsZero() {
		return fmt.Errorf("%w: transaction date is required", apperrors.ErrValidation)
	}
	if t.CategoryID != nil && *t.CategoryID == "" {
		return fmt.Errorf("%w: empty category id", apperrors.ErrValidation)
	}
	return nil
}

// InPeriod reports whether the transaction date falls within period (UTC month bounds).
func (t Transaction) InPeriod(period PeriodKey) bool {
	start, end := period.Bounds()
	d := t.TransactionDate.UTC()
	return !d.Before(start) && d.Before(end)
}
