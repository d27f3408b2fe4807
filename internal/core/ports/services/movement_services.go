package services

import (
	"context"
	"time"

	"github.com/SscSPs/myspendr/internal/core/domain"
)

// MovementReaderSvc answers queries over the movement log
type MovementReaderSvc interface {
	ListMovements(ctx context.Context, userID string) ([]domain.Movement, error)
	ListMovementsPage(ctx context.Context, userID string, limit int, nextToken string) (*domain.MovementPage, error)
	ListMovementsInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Movement, error)
	RecentMovements(ctx context.Context, userID string, n int) ([]domain.Movement, error)
	GetMovement(ctx context.Context, userID, movementID string) (*domain.Movement, error)
}

// MovementTotalsSvc aggregates movement amounts
type MovementTotalsSvc interface {
	TotalByDirection(ctx context.Context, userID string, direction domain.Direction) (*domain.DirectionTotals, error)
	TotalByDirectionLastMonth(ctx context.Context, userID string, direction domain.Direction) (*domain.DirectionTotals, error)
}

// MovementSvcFacade combines all movement query interfaces
type MovementSvcFacade interface {
	MovementReaderSvc
	MovementTotalsSvc
}
