package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/utils/pagination"
)

// MaxMovementPageSize caps one page of the movement listing.
const MaxMovementPageSize = 200

// movementService answers read-only questions about the movement log.
type movementService struct {
	BaseService
	movementRepo portsrepo.MovementReader
}

// NewMovementService creates a new MovementSvcFacade.
func NewMovementService(repo portsrepo.MovementReader, clock Clock) portssvc.MovementSvcFacade {
	return &movementService{BaseService: BaseService{now: clock}, movementRepo: repo}
}

var _ portssvc.MovementSvcFacade = (*movementService)(nil)

func (s *movementService) ListMovements(ctx context.Context, userID string) ([]domain.Movement, error) {
	ms, err := s.movementRepo.ListMovements(ctx, userID, portsrepo.MovementQuery{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list movements")
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return ms, nil
}

// ListMovementsPage returns up to limit movements after the position encoded in nextToken.
func (s *movementService) ListMovementsPage(ctx context.Context, userID string, limit int, nextToken string) (*domain.MovementPage, error) {
	if limit <= 0 || limit > MaxMovementPageSize {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", apperrors.ErrValidation, MaxMovementPageSize)
	}

	// One extra row tells whether another page exists.
	q := portsrepo.MovementQuery{Limit: limit + 1}
	if nextToken != "" {
		date, createdAt, id, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		q.After = &portsrepo.MovementCursor{Date: date, CreatedAt: createdAt, MovementID: id}
	}

	ms, err := s.movementRepo.ListMovements(ctx, userID, q)
	if err != nil {
		s.LogError(ctx, err, "Failed to list movement page")
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	page := &domain.MovementPage{Movements: ms}
	if len(ms) > limit {
		page.Movements = ms[:limit]
		last := page.Movements[limit-1]
		page.NextToken = pagination.EncodeToken(last.Date, last.CreatedAt, last.MovementID)
	}
	return page, nil
}

func (s *movementService) ListMovementsInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Movement, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end is before start", apperrors.ErrValidation)
	}
	ms, err := s.movementRepo.ListMovements(ctx, userID, portsrepo.MovementQuery{From: from, To: to})
	if err != nil {
		s.LogError(ctx, err, "Failed to list movements in range")
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return ms, nil
}

func (s *movementService) RecentMovements(ctx context.Context, userID string, n int) ([]domain.Movement, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be positive", apperrors.ErrValidation)
	}
	ms, err := s.movementRepo.ListMovements(ctx, userID, portsrepo.MovementQuery{Limit: n})
	if err != nil {
		s.LogError(ctx, err, "Failed to list recent movements")
		return nil, fmt.Errorf("failed to list recent movements: %w", err)
	}
	return ms, nil
}

func (s *movementService) GetMovement(ctx context.Context, userID, movementID string) (*domain.Movement, error) {
	m, found, err := s.movementRepo.FindMovementByID(ctx, userID, movementID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load movement")
		return nil, fmt.Errorf("failed to get movement: %w", err)
	}
	if !found {
		return nil, ErrMovementNotFound
	}
	return &m, nil
}

func (s *movementService) TotalByDirection(ctx context.Context, userID string, direction domain.Direction) (*domain.DirectionTotals, error) {
	return s.total(ctx, userID, direction, portsrepo.MovementQuery{})
}

func (s *movementService) TotalByDirectionLastMonth(ctx context.Context, userID string, direction domain.Direction) (*domain.DirectionTotals, error) {
	from, to := domain.PreviousMonthRange(s.Now())
	return s.total(ctx, userID, direction, portsrepo.MovementQuery{From: from, To: to})
}

func (s *movementService) total(ctx context.Context, userID string, direction domain.Direction, q portsrepo.MovementQuery) (*domain.DirectionTotals, error) {
	if !direction.IsValid() {
		return nil, fmt.Errorf("%w: invalid direction %q", apperrors.ErrValidation, direction)
	}
	sum, err := s.movementRepo.SumByDirection(ctx, userID, direction, q)
	if err != nil {
		s.LogError(ctx, err, "Failed to total movements")
		return nil, fmt.Errorf("failed to total movements: %w", err)
	}
	totals := &domain.DirectionTotals{Direction: direction, Total: sum}
	if !q.From.IsZero() {
		from, to := q.From, q.To
		totals.From, totals.To = &from, &to
	}
	return totals, nil
}
