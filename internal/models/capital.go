package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Capital is the capital_accounts row.
type Capital struct {
	CapitalID string          `db:"capital_id"`
	UserID    string          `db:"user_id"`
	Bank      decimal.Decimal `db:"bank"`
	Cash      decimal.Decimal `db:"cash"`
	Other     decimal.Decimal `db:"other"`
	Total     decimal.Decimal `db:"total"`
	UpdatedOn time.Time       `db:"updated_on"` // DATE
	CreatedAt time.Time       `db:"created_at"`
}
