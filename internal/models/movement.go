package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement is the movements row. Amount is always positive; Direction carries the sign.
type Movement struct {
	MovementID  string          `db:"movement_id"`
	CapitalID   string          `db:"capital_id"`
	UserID      string          `db:"user_id"`
	Amount      decimal.Decimal `db:"amount"`
	Direction   string          `db:"direction"`
	Category    string          `db:"category"`
	Source      string          `db:"source"`
	Description string          `db:"description"`
	Date        time.Time       `db:"movement_date"` // DATE
	CreatedAt   time.Time       `db:"created_at"`
}
