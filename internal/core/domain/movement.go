package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Direction says whether a movement increases (IN) or decreases (OUT) its sub-balance.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Source selects which sub-balance of a capital account a movement affects.
type Source string

const (
	SourceBank  Source = "BANK"
	SourceCash  Source = "CASH"
	SourceOther Source = "OTHER"
)

// Category is the fixed set of spending/income categories.
type Category string

const (
	CategoryFood      Category = "FOOD"
	CategoryTransport Category = "TRANSPORT"
	CategoryHousing   Category = "HOUSING"
	CategoryUtilities Category = "UTILITIES"
	CategoryHealth    Category = "HEALTH"
	CategoryLeisure   Category = "LEISURE"
	CategoryShopping  Category = "SHOPPING"
	CategoryEducation Category = "EDUCATION"
	CategorySalary    Category = "SALARY"
	CategoryOther     Category = "OTHER"
)

// Directions, Sources and Categories list the enumerations in display order.
var (
	Directions = []Direction{DirectionIn, DirectionOut}
	Sources    = []Source{SourceBank, SourceCash, SourceOther}
	Categories = []Category{
		CategoryFood, CategoryTransport, CategoryHousing, CategoryUtilities, CategoryHealth,
		CategoryLeisure, CategoryShopping, CategoryEducation, CategorySalary, CategoryOther,
	}
)

func (d Direction) IsValid() bool { return d == DirectionIn || d == DirectionOut }

func (s Source) IsValid() bool {
	switch s {
	case SourceBank, SourceCash, SourceOther:
		return true
	}
	return false
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseDirection accepts any letter case.
func ParseDirection(raw string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(raw)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: invalid direction %q", apperrors.ErrValidation, raw)
	}
	return d, nil
}

// ParseSource accepts any letter case.
func ParseSource(raw string) (Source, error) {
	s := Source(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: invalid source %q", apperrors.ErrValidation, raw)
	}
	return s, nil
}

// ParseCategory accepts any letter case.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: invalid category %q", apperrors.ErrValidation, raw)
	}
	return c, nil
}

// Movement is a single recorded transaction affecting exactly one sub-balance.
// Movements are never updated in place: they are created by the ledger and removed by reversal.
type Movement struct {
	MovementID  string          `json:"movementID"`
	CapitalID   string          `json:"capitalID"`
	UserID      string          `json:"userID"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   Direction       `json:"direction"`
	Category    Category        `json:"category"`
	Source      Source          `json:"source"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SignedAmount is the amount with the sign implied by its direction.
func (m Movement) SignedAmount() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Amount.Neg()
	}
	return m.Amount
}

// MovementDraft holds the caller-supplied fields of a movement before it is recorded.
type MovementDraft struct {
	Direction   Direction
	Source      Source
	Category    Category
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// Validate checks the draft against the enumerations and amount rules.
func (d MovementDraft) Validate() error {
	if !d.Direction.IsValid() {
		return fmt.Errorf("%w: invalid direction %q", apperrors.ErrValidation, d.Direction)
	}
	if !d.Source.IsValid() {
		return fmt.Errorf("%w: invalid source %q", apperrors.ErrValidation, d.Source)
	}
	if !d.Category.IsValid() {
		return fmt.Errorf("%w: invalid category %q", apperrors.ErrValidation, d.Category)
	}
	if !RoundMoney(d.Amount).IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if d.Date.IsZero() {
		return fmt.Errorf("%w: date is required", apperrors.ErrValidation)
	}
	return nil
}

// MovementPage is one slice of the movement log. NextToken is empty on the last page.
type MovementPage struct {
	Movements []Movement
	NextToken string
}

// DirectionTotals aggregates movement amounts per direction.
type DirectionTotals struct {
	Direction Direction       `json:"direction"`
	Total     decimal.Decimal `json:"total"`
	From      *time.Time      `json:"from,omitempty"`
	To        *time.Time      `json:"to,omitempty"`
}
