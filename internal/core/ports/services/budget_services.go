package services

import (
	"context"

	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetSvc manages limits and evaluates spend against them
type BudgetSvc interface {
	SetLimit(ctx context.Context, key domain.BudgetKey, limit decimal.Decimal) (*domain.BudgetLimit, error)
	Evaluate(ctx context.Context, key domain.BudgetKey) (*domain.BudgetEvaluation, error)
	EvaluateAll(ctx context.Context, userID string, month, year int) ([]domain.BudgetEvaluation, error)
}

// MovementObserver is notified after a movement has been durably recorded.
type MovementObserver interface {
	OnMovementRecorded(ctx context.Context, movement domain.Movement)
}

// BudgetSvcFacade combines the budget interfaces
type BudgetSvcFacade interface {
	BudgetSvc
	MovementObserver
}
