package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/dto"
	"github.com/google/uuid"
)

// capitalService manages the lifecycle of capital accounts.
type capitalService struct {
	BaseService
	capitalRepo portsrepo.CapitalRepositoryFacade
}

// NewCapitalService creates a new CapitalSvcFacade.
func NewCapitalService(repo portsrepo.CapitalRepositoryFacade, clock Clock) portssvc.CapitalSvcFacade {
	return &capitalService{BaseService: BaseService{now: clock}, capitalRepo: repo}
}

var _ portssvc.CapitalSvcFacade = (*capitalService)(nil)

func (s *capitalService) CreateCapital(ctx context.Context, userID string, req dto.CapitalRequest) (*domain.CapitalAccount, error) {
	_, exists, err := s.capitalRepo.FindCapitalByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check existing capital")
		return nil, fmt.Errorf("failed to create capital: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: capital account already exists for this user", apperrors.ErrDuplicate)
	}

	capital := domain.NewCapitalAccount(uuid.NewString(), userID, req.Bank, req.Cash, req.Other, s.Now())
	if err := s.capitalRepo.SaveCapital(ctx, capital); err != nil {
		s.LogError(ctx, err, "Failed to save capital")
		return nil, fmt.Errorf("failed to create capital: %w", err)
	}

	s.LogInfo(ctx, "Capital created", slog.String("capital_id", capital.CapitalID), slog.String("total", capital.Total.String()))
	return &capital, nil
}

func (s *capitalService) UpdateCapital(ctx context.Context, userID string, req dto.CapitalRequest) (*domain.CapitalAccount, error) {
	now := s.Now()
	var updated domain.CapitalAccount
	found, err := s.capitalRepo.MutateCapital(ctx, userID, func(_ context.Context, capital *domain.CapitalAccount, _ portsrepo.LedgerTx) error {
		capital.SetBalances(req.Bank, req.Cash, req.Other, now)
		updated = *capital
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update capital")
		return nil, fmt.Errorf("failed to update capital: %w", err)
	}
	if !found {
		return nil, ErrCapitalNotFound
	}
	return &updated, nil
}

func (s *capitalService) GetCapital(ctx context.Context, userID string) (*domain.CapitalAccount, error) {
	capital, found, err := s.capitalRepo.FindCapitalByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load capital")
		return nil, fmt.Errorf("failed to get capital: %w", err)
	}
	if !found {
		return nil, ErrCapitalNotFound
	}
	return &capital, nil
}

func (s *capitalService) DeleteCapital(ctx context.Context, userID string) error {
	found, err := s.capitalRepo.DeleteCapital(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to delete capital")
		return fmt.Errorf("failed to delete capital: %w", err)
	}
	if !found {
		return ErrCapitalNotFound
	}
	s.LogInfo(ctx, "Capital deleted")
	return nil
}

func (s *capitalService) Report(ctx context.Context, userID string, granularity domain.ReportGranularity) ([]domain.CapitalReportRow, error) {
	if granularity != domain.ReportMonthly && granularity != domain.ReportYearly {
		return nil, fmt.Errorf("%w: unknown report granularity %q", apperrors.ErrValidation, granularity)
	}
	capital, found, err := s.capitalRepo.FindCapitalByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load capital for report")
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	if !found {
		return []domain.CapitalReportRow{}, nil
	}
	return domain.BuildCapitalReport([]domain.CapitalAccount{capital}, granularity), nil
}
