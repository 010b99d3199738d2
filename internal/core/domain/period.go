package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/budget_planner/internal/apperrors"
)

// PeriodKey identifies a budget plan by calendar month. It is compared by value.
type PeriodKey struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
}

// NewPeriodKey builds a validated PeriodKey.
func NewPeriodKey(year, month int) (PeriodKey, error) {
	p := PeriodKey{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return PeriodKey{}, err
	}
	return p, nil
}

// ParsePeriodKey parses the "YYYY-MM" form produced by String.
func ParsePeriodKey(s string) (PeriodKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return PeriodKey{}, fmt.Errorf("%w: invalid period %q, expected YYYY-MM", apperrors.ErrValidation, s)
	}
	p := PeriodKey{Year: t.Year(), Month: int(t.Month())}
	return p, p.Validate()
}

// Validate checks the month range and that the year is positive.
func (p PeriodKey) Validate() error {
	if p.Year < 1 || p.Year > 9999 {
		return fmt.Errorf("%w: year %d out of range", apperrors.ErrValidation, p.Year)
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d out of range 1-12", apperrors.ErrValidation, p.Month)
	}
	return nil
}

func (p PeriodKey) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Next returns the following calendar month.
func (p PeriodKey) Next() PeriodKey {
	if p.Month == 12 {
		return PeriodKey{Year: p.Year + 1, Month: 1}
	}
	return PeriodKey{Year: p.Year, Month: p.Month + 1}
}

// Prev returns the preceding calendar month.
func (p PeriodKey) Prev() PeriodKey {
	if p.Month == 1 {
		return PeriodKey{Year: p.Year - 1, Month: 12}
	}
	return PeriodKey{Year: p.Year, Month: p.Month - 1}
}

// Bounds returns the half-open UTC interval [start, end) covered by the period.
func (p PeriodKey) Bounds() (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
