package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MovementQuery filters movement listings. Zero dates are unbounded; both bounds are inclusive.
// After, when set, skips every movement up to and including the cursor in listing order.
type MovementQuery struct {
	From  time.Time
	To    time.Time
	Limit int
	After *MovementCursor
}

// MovementCursor is the listing sort key of one movement.
type MovementCursor struct {
	Date       time.Time
	CreatedAt  time.Time
	MovementID string
}

// MovementReader defines read operations over the movement log
type MovementReader interface {
	// FindMovementByID returns a movement owned by userID.
	FindMovementByID(ctx context.Context, userID, movementID string) (domain.Movement, bool, error)

	// ListMovements returns the user's movements ordered by date, creation time and ID, all descending.
	ListMovements(ctx context.Context, userID string, q MovementQuery) ([]domain.Movement, error)

	// SumByDirection totals amounts of one direction within the (inclusive) range of q.
	SumByDirection(ctx context.Context, userID string, direction domain.Direction, q MovementQuery) (decimal.Decimal, error)

	// SumSpent totals OUT amounts for a budget bucket.
	SumSpent(ctx context.Context, key domain.BudgetKey) (decimal.Decimal, error)
}

// MovementRepositoryFacade combines all movement-related repository interfaces
type MovementRepositoryFacade interface {
	MovementReader
}
