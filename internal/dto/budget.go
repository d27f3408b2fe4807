package dto

import (
	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetBudgetRequest sets the monthly limit for a category.
type SetBudgetRequest struct {
	Category string           `json:"category" binding:"required,category"`
	Month    int              `json:"month" binding:"required,min=1,max=12"`
	Year     int              `json:"year" binding:"required,min=1"`
	Limit    *decimal.Decimal `json:"limit" binding:"required"`
}

// BudgetPeriodParams selects a month. Defaults to the current month when omitted.
type BudgetPeriodParams struct {
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" binding:"omitempty,min=1"`
}

// BudgetResponse mirrors domain.BudgetEvaluation.
type BudgetResponse struct {
	Category   domain.Category `json:"category"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Overrun    bool            `json:"overrun"`
	Configured bool            `json:"configured"`
}

// ToBudgetResponse converts an evaluation to its DTO.
func ToBudgetResponse(e *domain.BudgetEvaluation) BudgetResponse {
	return BudgetResponse{
		Category:   e.Category,
		Month:      e.Month,
		Year:       e.Year,
		Limit:      e.Limit,
		Spent:      e.Spent,
		Remaining:  e.Remaining,
		Overrun:    e.Overrun,
		Configured: e.Configured,
	}
}

// ToListBudgetResponse converts a slice of evaluations.
func ToListBudgetResponse(es []domain.BudgetEvaluation) []BudgetResponse {
	res := make([]BudgetResponse, len(es))
	for i := range es {
		res[i] = ToBudgetResponse(&es[i])
	}
	return res
}
