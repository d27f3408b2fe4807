package services

import (
	"context"

	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/SscSPs/myspendr/internal/dto"
)

// CapitalReaderSvc defines read operations for capital accounts
type CapitalReaderSvc interface {
	GetCapital(ctx context.Context, userID string) (*domain.CapitalAccount, error)
	Report(ctx context.Context, userID string, granularity domain.ReportGranularity) ([]domain.CapitalReportRow, error)
}

// CapitalWriterSvc defines write operations for capital accounts
type CapitalWriterSvc interface {
	CreateCapital(ctx context.Context, userID string, req dto.CapitalRequest) (*domain.CapitalAccount, error)
	UpdateCapital(ctx context.Context, userID string, req dto.CapitalRequest) (*domain.CapitalAccount, error)
	DeleteCapital(ctx context.Context, userID string) error
}

// CapitalSvcFacade combines all capital-related service interfaces
type CapitalSvcFacade interface {
	CapitalReaderSvc
	CapitalWriterSvc
}
