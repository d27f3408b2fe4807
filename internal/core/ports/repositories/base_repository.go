package repositories

import (
	"context"

	"github.com/SscSPs/myspendr/internal/core/domain"
)

// LedgerTx exposes the movement writes available while a capital account is locked.
// Every write made through it commits or rolls back together with the capital update.
type LedgerTx interface {
	// SaveMovement appends a movement row.
	SaveMovement(ctx context.Context, movement domain.Movement) error

	// FindMovement reads a movement owned by the locked capital account.
	FindMovement(ctx context.Context, movementID string) (domain.Movement, bool, error)

	// DeleteMovement removes a movement row.
	DeleteMovement(ctx context.Context, movementID string) error

	// DeleteAllMovements removes every movement of the locked capital account.
	DeleteAllMovements(ctx context.Context) (int64, error)
}

// CapitalMutation is run while the capital account row is held exclusively.
// Changes made to capital are persisted when it returns nil.
type CapitalMutation func(ctx context.Context, capital *domain.CapitalAccount, tx LedgerTx) error

// TransactionManager runs read-modify-write sequences on one capital account atomically.
type TransactionManager interface {
	// MutateCapital locks the user's capital account, runs fn and persists the result.
	// found is false when the user has no capital account; fn is not invoked then.
	MutateCapital(ctx context.Context, userID string, fn CapitalMutation) (found bool, err error)
}
