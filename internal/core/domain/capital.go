package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CapitalAccount is the per-user aggregate of bank, cash and other-funds sub-balances.
// Total is derived and must equal Bank+Cash+Other after every mutation.
type CapitalAccount struct {
	CapitalID string          `json:"capitalID"`
	UserID    string          `json:"userID"`
	Bank      decimal.Decimal `json:"bank"`
	Cash      decimal.Decimal `json:"cash"`
	Other     decimal.Decimal `json:"other"`
	Total     decimal.Decimal `json:"total"`
	UpdatedOn time.Time       `json:"updatedOn"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewCapitalAccount builds an account with the given opening balances.
func NewCapitalAccount(capitalID, userID string, bank, cash, other decimal.Decimal, now time.Time) CapitalAccount {
	c := CapitalAccount{
		CapitalID: capitalID,
		UserID:    userID,
		CreatedAt: now,
	}
	c.SetBalances(bank, cash, other, now)
	return c
}

// SetBalances overwrites the three sub-balances.
func (c *CapitalAccount) SetBalances(bank, cash, other decimal.Decimal, now time.Time) {
	c.Bank = RoundMoney(bank)
	c.Cash = RoundMoney(cash)
	c.Other = RoundMoney(other)
	c.touch(now)
}

// Reset zeroes all sub-balances.
func (c *CapitalAccount) Reset(now time.Time) {
	c.SetBalances(decimal.Zero, decimal.Zero, decimal.Zero, now)
}

// ApplyMovement routes the movement's signed amount to the sub-balance named by its source.
func (c *CapitalAccount) ApplyMovement(m Movement, now time.Time) error {
	return c.adjust(m.Source, m.SignedAmount(), now)
}

// RevertMovement applies the exact inverse of ApplyMovement.
func (c *CapitalAccount) RevertMovement(m Movement, now time.Time) error {
	return c.adjust(m.Source, m.SignedAmount().Neg(), now)
}

// IsConsistent reports whether Total equals the sum of the sub-balances.
func (c CapitalAccount) IsConsistent() bool {
	return c.Total.Equal(c.Bank.Add(c.Cash).Add(c.Other))
}

func (c *CapitalAccount) adjust(source Source, delta decimal.Decimal, now time.Time) error {
	delta = RoundMoney(delta)
	switch source {
	case SourceBank:
		c.Bank = c.Bank.Add(delta)
	case SourceCash:
		c.Cash = c.Cash.Add(delta)
	case SourceOther:
		c.Other = c.Other.Add(delta)
	default:
		return fmt.Errorf("%w: invalid source %q", apperrors.ErrValidation, source)
	}
	c.touch(now)
	return nil
}

func (c *CapitalAccount) touch(now time.Time) {
	c.Total = c.Bank.Add(c.Cash).Add(c.Other)
	c.UpdatedOn = DateOnly(now)
}
