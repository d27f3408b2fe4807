package repositories

import (
	"context"

	"github.com/SscSPs/myspendr/internal/core/domain"
)

// BudgetReader defines read operations for budget limits
type BudgetReader interface {
	// FindBudget returns the configured limit; found is false when the bucket has none.
	FindBudget(ctx context.Context, key domain.BudgetKey) (domain.BudgetLimit, bool, error)

	// ListBudgets returns all limits configured by the user for a month.
	ListBudgets(ctx context.Context, userID string, month, year int) ([]domain.BudgetLimit, error)
}

// BudgetWriter defines write operations for budget limits
type BudgetWriter interface {
	// UpsertBudget inserts or replaces the limit of a bucket. Last write wins.
	UpsertBudget(ctx context.Context, budget domain.BudgetLimit) (domain.BudgetLimit, error)
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
