package services

import (
	"context"

	"github.com/SscSPs/myspendr/internal/core/domain"
)

// LedgerSvc is the only service allowed to change sub-balances or the movement log.
type LedgerSvc interface {
	// Apply records a movement and adjusts the sub-balance chosen by its source, atomically.
	Apply(ctx context.Context, userID string, draft domain.MovementDraft) (*domain.Movement, error)

	// ReverseAndDelete undoes a movement's effect and removes it, atomically.
	ReverseAndDelete(ctx context.Context, userID string, movementID string) error

	// ResetPartial zeroes the sub-balances and keeps the movement history.
	ResetPartial(ctx context.Context, userID string) (*domain.CapitalAccount, error)

	// ResetFull zeroes the sub-balances and deletes every movement.
	ResetFull(ctx context.Context, userID string) (*domain.CapitalAccount, error)
}
