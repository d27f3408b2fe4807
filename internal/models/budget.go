package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the budgets row, unique on (user_id, category, month, year).
type Budget struct {
	BudgetID  string          `db:"budget_id"`
	UserID    string          `db:"user_id"`
	Category  string          `db:"category"`
	Month     int             `db:"month"`
	Year      int             `db:"year"`
	Limit     decimal.Decimal `db:"limit_amount"`
	UpdatedAt time.Time       `db:"updated_at"`
}
