package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/shopspring/decimal"
)

// BudgetKey identifies a budget bucket.
type BudgetKey struct {
	UserID   string
	Category Category
	Month    int
	Year     int
}

// Validate checks the month/year range and the category.
func (k BudgetKey) Validate() error {
	if !k.Category.IsValid() {
		return fmt.Errorf("%w: invalid category %q", apperrors.ErrValidation, k.Category)
	}
	if k.Month < 1 || k.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", apperrors.ErrValidation)
	}
	if k.Year <= 0 {
		return fmt.Errorf("%w: year must be positive", apperrors.ErrValidation)
	}
	return nil
}

// Range returns the first and last day of the bucket's calendar month.
func (k BudgetKey) Range() (time.Time, time.Time) {
	return MonthRange(k.Year, time.Month(k.Month))
}

// BudgetKeyFor derives the bucket a movement falls into.
func BudgetKeyFor(m Movement) BudgetKey {
	return BudgetKey{
		UserID:   m.UserID,
		Category: m.Category,
		Month:    int(m.Date.Month()),
		Year:     m.Date.Year(),
	}
}

// BudgetLimit is a configured monthly spending limit for one category.
type BudgetLimit struct {
	BudgetID  string          `json:"budgetID"`
	UserID    string          `json:"userID"`
	Category  Category        `json:"category"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Limit     decimal.Decimal `json:"limit"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Key returns the bucket of the limit.
func (b BudgetLimit) Key() BudgetKey {
	return BudgetKey{UserID: b.UserID, Category: b.Category, Month: b.Month, Year: b.Year}
}

// BudgetEvaluation compares the spent amount of a bucket against its limit.
type BudgetEvaluation struct {
	Category   Category        `json:"category"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Overrun    bool            `json:"overrun"`
	Configured bool            `json:"configured"`
}

// EvaluateBudget computes remaining and overrun. An unconfigured bucket has a zero limit.
func EvaluateBudget(key BudgetKey, limit decimal.Decimal, configured bool, spent decimal.Decimal) BudgetEvaluation {
	return BudgetEvaluation{
		Category:   key.Category,
		Month:      key.Month,
		Year:       key.Year,
		Limit:      limit,
		Spent:      spent,
		Remaining:  limit.Sub(spent),
		Overrun:    spent.GreaterThan(limit),
		Configured: configured,
	}
}

// Excess is how much the bucket is over its limit, zero when not overrun.
func (e BudgetEvaluation) Excess() decimal.Decimal {
	if !e.Overrun {
		return decimal.Zero
	}
	return e.Spent.Sub(e.Limit)
}

// OverrunMessage renders the alert text delivered to the user.
func (e BudgetEvaluation) OverrunMessage() string {
	return fmt.Sprintf(
		"Budget exceeded for %s in %02d/%d: spent %s of %s (over by %s)",
		e.Category, e.Month, e.Year,
		e.Spent.StringFixed(MoneyScale), e.Limit.StringFixed(MoneyScale), e.Excess().StringFixed(MoneyScale),
	)
}
