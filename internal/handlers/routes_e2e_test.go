package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/myspendr/internal/core/services"
	"github.com/SscSPs/myspendr/internal/dto"
	"github.com/SscSPs/myspendr/internal/handlers"
	"github.com/SscSPs/myspendr/internal/middleware"
	"github.com/SscSPs/myspendr/internal/platform/config"
	"github.com/SscSPs/myspendr/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGateway struct {
	mu       sync.Mutex
	messages []string
}

func (g *recordingGateway) Notify(_ context.Context, _ string, message string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages = append(g.messages, message)
	return nil
}

func (g *recordingGateway) sent() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.messages...)
}

// TestRoutes_LedgerBudgetAndChatFlow drives the real services over the in-memory store.
func TestRoutes_LedgerBudgetAndChatFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		IsProduction:          true,
		JWTSecret:             testJWTSecret,
		TelegramWebhookSecret: webhookSecret,
	}
	gateway := &recordingGateway{}
	container := services.NewServiceContainer(services.ContainerConfig{
		SessionTTL:   30 * time.Minute,
		LinkTokenTTL: 15 * time.Minute,
		Clock:        time.Now,
	}, memory.NewRepositoryProvider(memory.NewStore()), gateway)

	limiterInstance, err := middleware.NewLimiter("1000-M", nil)
	require.NoError(t, err)

	r := gin.New()
	require.NoError(t, handlers.RegisterRoutes(r, cfg, container, limiterInstance))

	h := &handlerSuite{router: r}
	h.SetT(t)
	const userID = "user-1"

	call := func(method, path, body string) *httptest.ResponseRecorder {
		return h.do(method, path, body, userID)
	}
	webhook := func(body string) handlers.TelegramReply {
		req, err := http.NewRequest(http.MethodPost, "/chat/telegram/webhook", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", webhookSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var reply handlers.TelegramReply
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
		return reply
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"service":"myspendr","version":"1.0"}`, w.Body.String())

	require.Equal(t, http.StatusCreated, call(http.MethodPost, "/api/v1/capital", `{"bank":100,"cash":50}`).Code)
	require.Equal(t, http.StatusOK, call(http.MethodPut, "/api/v1/budgets", `{"category":"FOOD","month":5,"year":2025,"limit":20}`).Code)

	w = call(http.MethodPost, "/api/v1/movements",
		`{"amount":25,"direction":"OUT","category":"FOOD","source":"CASH","description":"groceries","date":"2025-05-25"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var movement dto.MovementResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movement))

	w = call(http.MethodGet, "/api/v1/budgets/FOOD?month=5&year=2025", "")
	require.Equal(t, http.StatusOK, w.Code)
	var budget dto.BudgetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &budget))
	assert.True(t, budget.Overrun)
	assert.True(t, budget.Remaining.Equal(decimal.NewFromInt(-5)))
	assert.Len(t, gateway.sent(), 1)

	w = call(http.MethodGet, "/api/v1/capital", "")
	var capital dto.CapitalResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &capital))
	assert.True(t, capital.Cash.Equal(decimal.NewFromInt(25)))
	assert.True(t, capital.Total.Equal(decimal.NewFromInt(125)))

	// Link a chat and read the balances from it.
	w = call(http.MethodPost, "/api/v1/chat/link-token", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var token dto.LinkTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))

	reply := webhook(`{"update_id":1,"message":{"message_id":1,"chat":{"id":7},"text":"` + token.Command + `"}}`)
	assert.Contains(t, reply.Text, "linked")
	reply = webhook(`{"update_id":2,"message":{"message_id":2,"chat":{"id":7},"text":"/riepilogo"}}`)
	assert.Contains(t, reply.Text, "Cash: 25.00")

	// Reversal restores the sub-balance.
	require.Equal(t, http.StatusNoContent, call(http.MethodDelete, "/api/v1/movements/"+movement.MovementID, "").Code)
	w = call(http.MethodGet, "/api/v1/capital", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &capital))
	assert.True(t, capital.Cash.Equal(decimal.NewFromInt(50)))
}
