package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/shopspring/decimal"
)

// IntakeStep is the position of a conversation in the multi-step movement intake.
type IntakeStep string

const (
	IntakeIdle            IntakeStep = "IDLE"
	IntakeAwaitCategory   IntakeStep = "AWAIT_CATEGORY"
	IntakeAwaitSource     IntakeStep = "AWAIT_SOURCE"
	IntakeAwaitAmountDesc IntakeStep = "AWAIT_AMOUNT_DESC"
)

// IntakeSession collects direction, category and source one at a time before a movement is committed.
// It is not safe for concurrent use; the session store serialises access per conversation.
type IntakeSession struct {
	ConversationID string
	Step           IntakeStep
	Direction      Direction
	Category       Category
	Source         Source
	LastActivity   time.Time
}

// NewIntakeSession returns an idle session.
func NewIntakeSession(conversationID string, now time.Time) *IntakeSession {
	return &IntakeSession{ConversationID: conversationID, Step: IntakeIdle, LastActivity: now}
}

// SelectDirection starts (or restarts) the flow from any step.
func (s *IntakeSession) SelectDirection(d Direction) error {
	if !d.IsValid() {
		return fmt.Errorf("%w: invalid direction %q", apperrors.ErrValidation, d)
	}
	s.Direction = d
	s.Category = ""
	s.Source = ""
	s.Step = IntakeAwaitCategory
	return nil
}

// SelectCategory is only accepted while the session waits for a category.
func (s *IntakeSession) SelectCategory(c Category) error {
	if s.Step != IntakeAwaitCategory {
		return fmt.Errorf("%w: category selected while session is %s", apperrors.ErrState, s.Step)
	}
	if !c.IsValid() {
		return fmt.Errorf("%w: invalid category %q", apperrors.ErrValidation, c)
	}
	s.Category = c
	s.Step = IntakeAwaitSource
	return nil
}

// SelectSource is only accepted while the session waits for a source.
func (s *IntakeSession) SelectSource(src Source) error {
	if s.Step != IntakeAwaitSource {
		return fmt.Errorf("%w: source selected while session is %s", apperrors.ErrState, s.Step)
	}
	if !src.IsValid() {
		return fmt.Errorf("%w: invalid source %q", apperrors.ErrValidation, src)
	}
	s.Source = src
	s.Step = IntakeAwaitAmountDesc
	return nil
}

// Draft parses the free-text amount/description and combines it with the selected fields.
// The session itself is left untouched; callers Clear it after a successful commit.
func (s *IntakeSession) Draft(text string, today time.Time) (MovementDraft, error) {
	if s.Step != IntakeAwaitAmountDesc {
		return MovementDraft{}, fmt.Errorf("%w: must select direction, category and source first", apperrors.ErrState)
	}
	entry, err := ParseAmountDescription(text, today)
	if err != nil {
		return MovementDraft{}, err
	}
	return MovementDraft{
		Direction:   s.Direction,
		Source:      s.Source,
		Category:    s.Category,
		Amount:      entry.Amount,
		Description: entry.Description,
		Date:        entry.Date,
	}, nil
}

// Clear returns the session to IDLE.
func (s *IntakeSession) Clear() {
	s.Step = IntakeIdle
	s.Direction = ""
	s.Category = ""
	s.Source = ""
}

// ParsedEntry is the result of parsing "<amount> <description> [<yyyy-mm-dd>]".
type ParsedEntry struct {
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// ParseAmountDescription parses chat free text. The last token is read as the date only when
// at least three tokens are present and it is a valid ISO date; otherwise today is used.
// A comma decimal separator is accepted.
func ParseAmountDescription(text string, today time.Time) (ParsedEntry, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ParsedEntry{}, fmt.Errorf("%w: expected amount and description", apperrors.ErrValidation)
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(fields[0], ",", "."))
	if err != nil {
		return ParsedEntry{}, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, fields[0])
	}
	amount = RoundMoney(amount)
	if !amount.IsPositive() {
		return ParsedEntry{}, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}

	date := DateOnly(today)
	rest := fields[1:]
	if len(rest) >= 2 {
		if parsed, perr := time.Parse(DateLayout, rest[len(rest)-1]); perr == nil {
			date = parsed
			rest = rest[:len(rest)-1]
		}
	}

	return ParsedEntry{
		Amount:      amount,
		Description: strings.Join(rest, " "),
		Date:        date,
	}, nil
}
