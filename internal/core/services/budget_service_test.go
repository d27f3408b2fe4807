package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/core/services"
	"github.com/SscSPs/myspendr/internal/dto"
	"github.com/SscSPs/myspendr/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	notifier  *MockNotifier
	container *portssvc.ServiceContainer
	userID    string
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.notifier = new(MockNotifier)
	repos := memory.NewRepositoryProvider(memory.NewStore())
	suite.container = services.NewServiceContainer(services.ContainerConfig{Clock: fixedClock}, repos, suite.notifier)
	suite.userID = "user-1"
}

func (suite *BudgetServiceTestSuite) foodKey() domain.BudgetKey {
	return domain.BudgetKey{UserID: suite.userID, Category: domain.CategoryFood, Month: int(fixedNow.Month()), Year: fixedNow.Year()}
}

func (suite *BudgetServiceTestSuite) apply(dir domain.Direction, src domain.Source, cat domain.Category, amount string) {
	_, err := suite.container.Ledger.Apply(context.Background(), suite.userID, draft(dir, src, cat, amount))
	suite.Require().NoError(err)
}

func (suite *BudgetServiceTestSuite) TestEndToEnd_OverrunNotifiesOnce() {
	ctx := context.Background()
	_, err := suite.container.Capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{})
	suite.Require().NoError(err)

	suite.apply(domain.DirectionIn, domain.SourceBank, domain.CategorySalary, "100")
	suite.apply(domain.DirectionOut, domain.SourceCash, domain.CategoryLeisure, "30")

	c, err := suite.container.Capital.GetCapital(ctx, suite.userID)
	suite.Require().NoError(err)
	suite.True(c.Bank.Equal(dec("100")))
	suite.True(c.Cash.Equal(dec("-30")))
	suite.True(c.Total.Equal(dec("70")))

	_, err = suite.container.Budget.SetLimit(ctx, suite.foodKey(), dec("20"))
	suite.Require().NoError(err)

	suite.notifier.On("Notify", mock.Anything, suite.userID, mock.MatchedBy(func(msg string) bool {
		return msg != ""
	})).Return(nil).Once()

	suite.apply(domain.DirectionOut, domain.SourceCash, domain.CategoryFood, "25")

	eval, err := suite.container.Budget.Evaluate(ctx, suite.foodKey())
	suite.Require().NoError(err)
	suite.True(eval.Spent.Equal(dec("25")))
	suite.True(eval.Limit.Equal(dec("20")))
	suite.True(eval.Remaining.Equal(dec("-5")))
	suite.True(eval.Overrun)
	suite.notifier.AssertNumberOfCalls(suite.T(), "Notify", 1)
}

func (suite *BudgetServiceTestSuite) TestOnMovementRecorded_RenotifiesWhileOver() {
	ctx := context.Background()
	_, err := suite.container.Capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{Cash: dec("100")})
	suite.Require().NoError(err)
	_, err = suite.container.Budget.SetLimit(ctx, suite.foodKey(), dec("10"))
	suite.Require().NoError(err)
	suite.notifier.On("Notify", mock.Anything, suite.userID, mock.Anything).Return(nil)

	suite.apply(domain.DirectionOut, domain.SourceCash, domain.CategoryFood, "10")
	suite.notifier.AssertNumberOfCalls(suite.T(), "Notify", 0)

	suite.apply(domain.DirectionOut, domain.SourceCash, domain.CategoryFood, "1")
	suite.apply(domain.DirectionOut, domain.SourceCash, domain.CategoryFood, "1")
	suite.notifier.AssertNumberOfCalls(suite.T(), "Notify", 2)
}

func (suite *BudgetServiceTestSuite) TestOnMovementRecorded_NotifierFailureIsAbsorbed() {
	ctx := context.Background()
	_, err := suite.container.Capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{})
	suite.Require().NoError(err)
	_, err = suite.container.Budget.SetLimit(ctx, suite.foodKey(), dec("0"))
	suite.Require().NoError(err)
	suite.notifier.On("Notify", mock.Anything, suite.userID, mock.Anything).
		Return(errors.New("delivery failed")).Once()

	m, err := suite.container.Ledger.Apply(ctx, suite.userID, draft(domain.DirectionOut, domain.SourceBank, domain.CategoryFood, "5"))

	suite.Require().NoError(err)
	suite.NotNil(m)
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestOnMovementRecorded_UnconfiguredBucketIsSilent() {
	ctx := context.Background()
	_, err := suite.container.Capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{})
	suite.Require().NoError(err)

	suite.apply(domain.DirectionOut, domain.SourceBank, domain.CategoryHealth, "50")

	suite.notifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything)
	eval, err := suite.container.Budget.Evaluate(ctx, domain.BudgetKey{UserID: suite.userID, Category: domain.CategoryHealth, Month: 5, Year: 2025})
	suite.Require().NoError(err)
	suite.False(eval.Configured)
	suite.True(eval.Overrun)
}

func (suite *BudgetServiceTestSuite) TestSetLimit_UpsertKeepsOneBucket() {
	ctx := context.Background()
	first, err := suite.container.Budget.SetLimit(ctx, suite.foodKey(), dec("20"))
	suite.Require().NoError(err)
	second, err := suite.container.Budget.SetLimit(ctx, suite.foodKey(), dec("35.5"))
	suite.Require().NoError(err)

	suite.Equal(first.BudgetID, second.BudgetID)
	all, err := suite.container.Budget.EvaluateAll(ctx, suite.userID, 5, 2025)
	suite.Require().NoError(err)
	suite.Require().Len(all, 1)
	suite.True(all[0].Limit.Equal(dec("35.5")))
}

func (suite *BudgetServiceTestSuite) TestSetLimit_Validation() {
	ctx := context.Background()
	_, err := suite.container.Budget.SetLimit(ctx, suite.foodKey(), dec("-1"))
	suite.ErrorIs(err, apperrors.ErrValidation)

	bad := suite.foodKey()
	bad.Month = 13
	_, err = suite.container.Budget.SetLimit(ctx, bad, dec("1"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BudgetServiceTestSuite) TestEvaluate_IgnoresOtherMonthsAndIncome() {
	ctx := context.Background()
	_, err := suite.container.Capital.CreateCapital(ctx, suite.userID, dto.CapitalRequest{})
	suite.Require().NoError(err)

	april := draft(domain.DirectionOut, domain.SourceBank, domain.CategoryFood, "40")
	april.Date = fixedNow.AddDate(0, -1, 0)
	_, err = suite.container.Ledger.Apply(ctx, suite.userID, april)
	suite.Require().NoError(err)
	suite.apply(domain.DirectionIn, domain.SourceBank, domain.CategoryFood, "15")
	suite.apply(domain.DirectionOut, domain.SourceBank, domain.CategoryFood, "7")

	eval, err := suite.container.Budget.Evaluate(ctx, suite.foodKey())
	suite.Require().NoError(err)
	suite.True(eval.Spent.Equal(dec("7")))
}

func TestBudgetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}

// --- Mock BudgetRepository, for repository failure paths ---
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindBudget(ctx context.Context, key domain.BudgetKey) (domain.BudgetLimit, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.BudgetLimit), args.Bool(1), args.Error(2)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, userID string, month, year int) ([]domain.BudgetLimit, error) {
	args := m.Called(ctx, userID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetLimit), args.Error(1)
}

func (m *MockBudgetRepository) UpsertBudget(ctx context.Context, budget domain.BudgetLimit) (domain.BudgetLimit, error) {
	args := m.Called(ctx, budget)
	return args.Get(0).(domain.BudgetLimit), args.Error(1)
}

var _ portsrepo.BudgetRepositoryFacade = (*MockBudgetRepository)(nil)

func TestBudgetService_LookupFailureDoesNotNotify(t *testing.T) {
	repo := new(MockBudgetRepository)
	notifier := new(MockNotifier)
	svc := services.NewBudgetService(repo, memory.NewStore(), services.WithNotificationGateway(notifier))
	m := domain.Movement{UserID: "u", Direction: domain.DirectionOut, Category: domain.CategoryFood, Amount: dec("1"), Date: fixedNow}

	repo.On("FindBudget", mock.Anything, domain.BudgetKeyFor(m)).Return(domain.BudgetLimit{}, false, errors.New("db down")).Once()

	svc.OnMovementRecorded(context.Background(), m)

	repo.AssertExpectations(t)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}
