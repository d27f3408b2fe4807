package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/google/uuid"
)

var (
	ErrCapitalNotFound  = fmt.Errorf("%w: capital account not found", apperrors.ErrNotFound)
	ErrMovementNotFound = fmt.Errorf("%w: movement not found", apperrors.ErrNotFound)
)

// ledgerService keeps sub-balances and the movement log consistent.
type ledgerService struct {
	BaseService
	txManager portsrepo.TransactionManager
	observer  portssvc.MovementObserver
}

// LedgerOption configures the ledger service
type LedgerOption func(*ledgerService)

// WithMovementObserver registers the hook called after each committed OUT movement.
func WithMovementObserver(observer portssvc.MovementObserver) LedgerOption {
	return func(s *ledgerService) {
		s.observer = observer
	}
}

// WithLedgerClock overrides the time source.
func WithLedgerClock(clock Clock) LedgerOption {
	return func(s *ledgerService) {
		s.now = clock
	}
}

// NewLedgerService creates a new LedgerSvc.
func NewLedgerService(txManager portsrepo.TransactionManager, opts ...LedgerOption) portssvc.LedgerSvc {
	s := &ledgerService{txManager: txManager}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

func (s *ledgerService) Apply(ctx context.Context, userID string, draft domain.MovementDraft) (*domain.Movement, error) {
	draft.Amount = domain.RoundMoney(draft.Amount)
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	now := s.Now()
	var recorded domain.Movement
	found, err := s.txManager.MutateCapital(ctx, userID, func(ctx context.Context, capital *domain.CapitalAccount, tx portsrepo.LedgerTx) error {
		m := domain.Movement{
			MovementID:  uuid.NewString(),
			CapitalID:   capital.CapitalID,
			UserID:      userID,
			Amount:      draft.Amount,
			Direction:   draft.Direction,
			Category:    draft.Category,
			Source:      draft.Source,
			Description: draft.Description,
			Date:        domain.DateOnly(draft.Date),
			CreatedAt:   now,
		}
		if err := capital.ApplyMovement(m, now); err != nil {
			return err
		}
		if err := tx.SaveMovement(ctx, m); err != nil {
			return err
		}
		recorded = m
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to apply movement", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to apply movement: %w", err)
	}
	if !found {
		return nil, ErrCapitalNotFound
	}

	s.LogInfo(ctx, "Movement applied",
		slog.String("movement_id", recorded.MovementID),
		slog.String("direction", string(recorded.Direction)),
		slog.String("source", string(recorded.Source)),
		slog.String("amount", recorded.Amount.String()))

	// The observer sees the movement only after the commit above.
	if recorded.Direction == domain.DirectionOut && s.observer != nil {
		s.observer.OnMovementRecorded(ctx, recorded)
	}
	return &recorded, nil
}

func (s *ledgerService) ReverseAndDelete(ctx context.Context, userID string, movementID string) error {
	now := s.Now()
	found, err := s.txManager.MutateCapital(ctx, userID, func(ctx context.Context, capital *domain.CapitalAccount, tx portsrepo.LedgerTx) error {
		m, ok, err := tx.FindMovement(ctx, movementID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrMovementNotFound
		}
		if err := capital.RevertMovement(m, now); err != nil {
			return err
		}
		return tx.DeleteMovement(ctx, movementID)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to reverse movement", slog.String("movement_id", movementID))
		}
		return fmt.Errorf("failed to reverse movement %s: %w", movementID, err)
	}
	if !found {
		return ErrMovementNotFound
	}

	s.LogInfo(ctx, "Movement reversed and deleted", slog.String("movement_id", movementID))
	return nil
}

func (s *ledgerService) ResetPartial(ctx context.Context, userID string) (*domain.CapitalAccount, error) {
	return s.reset(ctx, userID, false)
}

func (s *ledgerService) ResetFull(ctx context.Context, userID string) (*domain.CapitalAccount, error) {
	return s.reset(ctx, userID, true)
}

func (s *ledgerService) reset(ctx context.Context, userID string, dropHistory bool) (*domain.CapitalAccount, error) {
	now := s.Now()
	var result domain.CapitalAccount
	var removed int64
	found, err := s.txManager.MutateCapital(ctx, userID, func(ctx context.Context, capital *domain.CapitalAccount, tx portsrepo.LedgerTx) error {
		capital.Reset(now)
		if dropHistory {
			n, err := tx.DeleteAllMovements(ctx)
			if err != nil {
				return err
			}
			removed = n
		}
		result = *capital
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reset capital", slog.Bool("full", dropHistory))
		return nil, fmt.Errorf("failed to reset capital: %w", err)
	}
	if !found {
		return nil, ErrCapitalNotFound
	}

	s.LogInfo(ctx, "Capital reset", slog.Bool("full", dropHistory), slog.Int64("movements_removed", removed))
	return &result, nil
}
