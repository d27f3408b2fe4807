package repositories

import (
	"context"

	"github.com/SscSPs/myspendr/internal/core/domain"
)

// CapitalReader defines read operations for capital accounts
type CapitalReader interface {
	// FindCapitalByUserID returns the user's capital account; found is false when none exists.
	FindCapitalByUserID(ctx context.Context, userID string) (domain.CapitalAccount, bool, error)
}

// CapitalWriter defines write operations for capital accounts
type CapitalWriter interface {
	// SaveCapital persists a new account. ErrDuplicate when the user already has one.
	SaveCapital(ctx context.Context, capital domain.CapitalAccount) error

	// DeleteCapital removes the account and its movements; found is false when none existed.
	DeleteCapital(ctx context.Context, userID string) (bool, error)
}

// CapitalRepositoryFacade combines all capital-related repository interfaces
type CapitalRepositoryFacade interface {
	CapitalReader
	CapitalWriter
	TransactionManager
}
