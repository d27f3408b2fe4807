package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2025, 5, 25, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func draft(dir domain.Direction, src domain.Source, cat domain.Category, amount string) domain.MovementDraft {
	return domain.MovementDraft{
		Direction: dir,
		Source:    src,
		Category:  cat,
		Amount:    dec(amount),
		Date:      fixedNow,
	}
}

// --- Mock MovementObserver ---
type MockMovementObserver struct {
	mock.Mock
}

func (m *MockMovementObserver) OnMovementRecorded(ctx context.Context, movement domain.Movement) {
	m.Called(ctx, movement)
}

// --- Mock NotificationGateway ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID, message string) error {
	args := m.Called(ctx, userID, message)
	return args.Error(0)
}
