package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// budgetService stores limits and evaluates them against the movement log.
type budgetService struct {
	BaseService
	budgetRepo   portsrepo.BudgetRepositoryFacade
	movementRepo portsrepo.MovementReader
	notifier     portssvc.NotificationGateway
}

// BudgetOption configures the budget service
type BudgetOption func(*budgetService)

// WithNotificationGateway sets where overrun alerts are delivered.
func WithNotificationGateway(gw portssvc.NotificationGateway) BudgetOption {
	return func(s *budgetService) {
		s.notifier = gw
	}
}

// WithBudgetClock overrides the time source.
func WithBudgetClock(clock Clock) BudgetOption {
	return func(s *budgetService) {
		s.now = clock
	}
}

// NewBudgetService creates a new BudgetSvcFacade.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, movementRepo portsrepo.MovementReader, opts ...BudgetOption) portssvc.BudgetSvcFacade {
	s := &budgetService{budgetRepo: budgetRepo, movementRepo: movementRepo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) SetLimit(ctx context.Context, key domain.BudgetKey, limit decimal.Decimal) (*domain.BudgetLimit, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if limit.IsNegative() {
		return nil, fmt.Errorf("%w: limit must not be negative", apperrors.ErrValidation)
	}

	saved, err := s.budgetRepo.UpsertBudget(ctx, domain.BudgetLimit{
		BudgetID:  uuid.NewString(),
		UserID:    key.UserID,
		Category:  key.Category,
		Month:     key.Month,
		Year:      key.Year,
		Limit:     domain.RoundMoney(limit),
		UpdatedAt: s.Now(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save budget limit")
		return nil, fmt.Errorf("failed to set budget: %w", err)
	}

	s.LogInfo(ctx, "Budget limit set",
		slog.String("category", string(key.Category)),
		slog.Int("month", key.Month),
		slog.Int("year", key.Year),
		slog.String("limit", saved.Limit.String()))
	return &saved, nil
}

func (s *budgetService) Evaluate(ctx context.Context, key domain.BudgetKey) (*domain.BudgetEvaluation, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	budget, configured, err := s.budgetRepo.FindBudget(ctx, key)
	if err != nil {
		s.LogError(ctx, err, "Failed to load budget limit")
		return nil, fmt.Errorf("failed to evaluate budget: %w", err)
	}
	eval, err := s.evaluate(ctx, key, budget.Limit, configured)
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (s *budgetService) EvaluateAll(ctx context.Context, userID string, month, year int) ([]domain.BudgetEvaluation, error) {
	probe := domain.BudgetKey{UserID: userID, Category: domain.CategoryOther, Month: month, Year: year}
	if err := probe.Validate(); err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.ListBudgets(ctx, userID, month, year)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budget limits")
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	evals := make([]domain.BudgetEvaluation, 0, len(budgets))
	for _, b := range budgets {
		eval, err := s.evaluate(ctx, b.Key(), b.Limit, true)
		if err != nil {
			return nil, err
		}
		evals = append(evals, eval)
	}
	return evals, nil
}

// OnMovementRecorded re-evaluates the movement's bucket and alerts on overrun.
// Buckets without a configured limit never alert. Every qualifying movement alerts again.
// Delivery failures are logged and never returned.
func (s *budgetService) OnMovementRecorded(ctx context.Context, movement domain.Movement) {
	if movement.Direction != domain.DirectionOut {
		return
	}
	key := domain.BudgetKeyFor(movement)
	logger := s.GetLogger(ctx).With(
		slog.String("category", string(key.Category)),
		slog.Int("month", key.Month),
		slog.Int("year", key.Year))

	budget, configured, err := s.budgetRepo.FindBudget(ctx, key)
	if err != nil {
		logger.Error("Budget check failed", slog.String("error", err.Error()))
		return
	}
	if !configured {
		return
	}

	eval, err := s.evaluate(ctx, key, budget.Limit, true)
	if err != nil {
		logger.Error("Budget check failed", slog.String("error", err.Error()))
		return
	}
	if !eval.Overrun {
		return
	}

	logger.Info("Budget overrun detected", slog.String("spent", eval.Spent.String()), slog.String("limit", eval.Limit.String()))
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, key.UserID, eval.OverrunMessage()); err != nil {
		logger.Error("Overrun notification failed", slog.String("error", err.Error()))
	}
}

func (s *budgetService) evaluate(ctx context.Context, key domain.BudgetKey, limit decimal.Decimal, configured bool) (domain.BudgetEvaluation, error) {
	spent, err := s.movementRepo.SumSpent(ctx, key)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum spending")
		return domain.BudgetEvaluation{}, fmt.Errorf("failed to evaluate budget: %w", err)
	}
	return domain.EvaluateBudget(key, limit, configured, spent), nil
}
