package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/SscSPs/myspendr/internal/core/domain"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Apply(ctx context.Context, userID string, draft domain.MovementDraft) (*domain.Movement, error) {
	args := m.Called(ctx, userID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}
func (m *MockLedgerService) ReverseAndDelete(ctx context.Context, userID string, movementID string) error {
	args := m.Called(ctx, userID, movementID)
	return args.Error(0)
}
func (m *MockLedgerService) ResetPartial(ctx context.Context, userID string) (*domain.CapitalAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapitalAccount), args.Error(1)
}
func (m *MockLedgerService) ResetFull(ctx context.Context, userID string) (*domain.CapitalAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapitalAccount), args.Error(1)
}

var _ portssvc.LedgerSvc = (*MockLedgerService)(nil)

// --- Mock CapitalService ---
type MockCapitalService struct {
	mock.Mock
}

func (m *MockCapitalService) GetCapital(ctx context.Context, userID string) (*domain.CapitalAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapitalAccount), args.Error(1)
}
func (m *MockCapitalService) Report(ctx context.Context, userID string, granularity domain.ReportGranularity) ([]domain.CapitalReportRow, error) {
	args := m.Called(ctx, userID, granularity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CapitalReportRow), args.Error(1)
}
func (m *MockCapitalService) CreateCapital(ctx context.Context, userID string, req dto.CapitalRequest) (*domain.CapitalAccount, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapitalAccount), args.Error(1)
}
func (m *MockCapitalService) UpdateCapital(ctx context.Context, userID string, req dto.CapitalRequest) (*domain.CapitalAccount, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapitalAccount), args.Error(1)
}
func (m *MockCapitalService) DeleteCapital(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ portssvc.CapitalSvcFacade = (*MockCapitalService)(nil)

// --- Mock MovementService ---
type MockMovementService struct {
	mock.Mock
}

func (m *MockMovementService) ListMovements(ctx context.Context, userID string) ([]domain.Movement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}
func (m *MockMovementService) ListMovementsPage(ctx context.Context, userID string, limit int, nextToken string) (*domain.MovementPage, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MovementPage), args.Error(1)
}
func (m *MockMovementService) ListMovementsInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Movement, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}
func (m *MockMovementService) RecentMovements(ctx context.Context, userID string, n int) ([]domain.Movement, error) {
	args := m.Called(ctx, userID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}
func (m *MockMovementService) GetMovement(ctx context.Context, userID, movementID string) (*domain.Movement, error) {
	args := m.Called(ctx, userID, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}
func (m *MockMovementService) TotalByDirection(ctx context.Context, userID string, direction domain.Direction) (*domain.DirectionTotals, error) {
	args := m.Called(ctx, userID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirectionTotals), args.Error(1)
}
func (m *MockMovementService) TotalByDirectionLastMonth(ctx context.Context, userID string, direction domain.Direction) (*domain.DirectionTotals, error) {
	args := m.Called(ctx, userID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirectionTotals), args.Error(1)
}

var _ portssvc.MovementSvcFacade = (*MockMovementService)(nil)

// --- Mock BudgetService ---
type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) SetLimit(ctx context.Context, key domain.BudgetKey, limit decimal.Decimal) (*domain.BudgetLimit, error) {
	args := m.Called(ctx, key, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLimit), args.Error(1)
}
func (m *MockBudgetService) Evaluate(ctx context.Context, key domain.BudgetKey) (*domain.BudgetEvaluation, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetEvaluation), args.Error(1)
}
func (m *MockBudgetService) EvaluateAll(ctx context.Context, userID string, month, year int) ([]domain.BudgetEvaluation, error) {
	args := m.Called(ctx, userID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetEvaluation), args.Error(1)
}

var _ portssvc.BudgetSvc = (*MockBudgetService)(nil)

// --- Mock ChatLinkService ---
type MockChatLinkService struct {
	mock.Mock
}

func (m *MockChatLinkService) IssueLinkToken(ctx context.Context, userID string) (*domain.LinkToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkToken), args.Error(1)
}
func (m *MockChatLinkService) Link(ctx context.Context, chatID, token string) (*domain.ChatLink, error) {
	args := m.Called(ctx, chatID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatLink), args.Error(1)
}
func (m *MockChatLinkService) ResolveUser(ctx context.Context, chatID string) (string, error) {
	args := m.Called(ctx, chatID)
	return args.String(0), args.Error(1)
}
func (m *MockChatLinkService) ChatIDsForUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ portssvc.ChatLinkSvcFacade = (*MockChatLinkService)(nil)

// --- Mock IntakeService ---
type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) Handle(ctx context.Context, event domain.ChatEvent) (domain.ChatReply, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(domain.ChatReply), args.Error(1)
}

var _ portssvc.IntakeSvc = (*MockIntakeService)(nil)

type MockChatAck struct {
	mock.Mock
}

func (m *MockChatAck) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	args := m.Called(ctx, callbackQueryID)
	return args.Error(0)
}

var _ portssvc.ChatCallbackAcknowledger = (*MockChatAck)(nil)

// handlerSuite holds what every handler suite needs to issue authenticated requests.
type handlerSuite struct {
	suite.Suite
	router *gin.Engine
}

func (s *handlerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	v, ok := binding.Validator.Engine().(*validator.Validate)
	s.Require().True(ok)
	s.Require().NoError(dto.RegisterValidators(v))
}

// generateTestToken creates a signed HS256 token for userID.
func (s *handlerSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "myspendr-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

// do serves one request. An empty userID sends no Authorization header.
func (s *handlerSuite) do(method, path, body, userID string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	s.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+s.generateTestToken(userID))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}
