package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Notify(ctx context.Context, userID, message string) error {
	args := m.Called(ctx, userID, message)
	return args.Error(0)
}

func TestFanOut_DeliversToAllAndJoinsErrors(t *testing.T) {
	ctx := context.Background()
	ok := new(MockGateway)
	failing := new(MockGateway)
	ok.On("Notify", ctx, "user-1", "over").Return(nil).Once()
	failing.On("Notify", ctx, "user-1", "over").Return(errors.New("down")).Once()

	err := FanOut{failing, ok}.Notify(ctx, "user-1", "over")

	assert.ErrorContains(t, err, "down")
	ok.AssertExpectations(t)
	failing.AssertExpectations(t)
}

func TestBreakerGateway_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	next := new(MockGateway)
	next.On("Notify", ctx, "user-1", "over").Return(errors.New("boom")).Times(2)

	cfg := DefaultBreakerConfig(time.Minute)
	cfg.ConsecutiveFailures = 2
	gw := NewBreakerGateway("test", next, cfg, discardLogger)

	assert.Error(t, gw.Notify(ctx, "user-1", "over"))
	assert.Error(t, gw.Notify(ctx, "user-1", "over"))
	assert.Equal(t, gobreaker.StateOpen, gw.State())

	err := gw.Notify(ctx, "user-1", "over")
	assert.ErrorIs(t, err, apperrors.ErrExternal)
	next.AssertNumberOfCalls(t, "Notify", 2)
}

type recordingPublisher struct {
	mu       sync.Mutex
	exchange string
	key      string
	msgs     []amqp091.Publishing
	err      error
}

func (p *recordingPublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exchange, p.key = exchange, key
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestAMQPGateway_PublishesPersistentJSON(t *testing.T) {
	pub := &recordingPublisher{}
	fixed := time.Date(2025, 5, 25, 10, 0, 0, 0, time.UTC)
	gw := &AMQPGateway{channel: pub, exchangeName: "myspendr", queueName: "budget_overruns", now: func() time.Time { return fixed }}

	require.NoError(t, gw.Notify(context.Background(), "user-1", "Budget exceeded"))

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "myspendr", pub.exchange)
	assert.Equal(t, "budget_overruns", pub.key)
	assert.Equal(t, amqp091.Persistent, pub.msgs[0].DeliveryMode)

	var body AlertMessage
	require.NoError(t, json.Unmarshal(pub.msgs[0].Body, &body))
	assert.Equal(t, AlertMessage{UserID: "user-1", Message: "Budget exceeded", OccurredAt: fixed}, body)
}

func TestAMQPGateway_PublishErrorIsExternal(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("channel closed")}
	gw := &AMQPGateway{channel: pub, exchangeName: "x", queueName: "q", now: time.Now}

	err := gw.Notify(context.Background(), "user-1", "msg")
	assert.ErrorIs(t, err, apperrors.ErrExternal)
}

type staticLinks map[string][]domain.ChatLink

func (s staticLinks) FindChatLinksByUser(_ context.Context, userID string) ([]domain.ChatLink, error) {
	return s[userID], nil
}

func TestTelegramGateway_SendsToEveryLinkedChat(t *testing.T) {
	var mu sync.Mutex
	var got []sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		var req sendMessageRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		got = append(got, req)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	links := staticLinks{"user-1": {{ChatID: "100"}, {ChatID: "200"}}}
	gw := NewTelegramGateway(NewTelegramClient(srv.URL, "TOKEN", srv.Client()), links)

	require.NoError(t, gw.Notify(context.Background(), "user-1", "over budget"))
	require.NoError(t, gw.Notify(context.Background(), "nobody", "ignored"))

	assert.ElementsMatch(t, []sendMessageRequest{{ChatID: "100", Text: "over budget"}, {ChatID: "200", Text: "over budget"}}, got)
}

func TestTelegramClient_NonOKIsExternal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok":false,"description":"bot was blocked by the user"}`))
	}))
	defer srv.Close()

	err := NewTelegramClient(srv.URL, "TOKEN", srv.Client()).SendMessage(context.Background(), "1", "hi")
	assert.ErrorIs(t, err, apperrors.ErrExternal)
	assert.ErrorContains(t, err, "blocked")
}

func TestTelegramClient_TransportErrorHidesToken(t *testing.T) {
	const token = "123456:SECRET-BOT-TOKEN"
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewTelegramClient(baseURL, token, nil)
	for name, call := range map[string]func() error{
		"sendMessage":         func() error { return client.SendMessage(context.Background(), "1", "hi") },
		"answerCallbackQuery": func() error { return client.AnswerCallbackQuery(context.Background(), "q") },
	} {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrExternal)
			assert.NotContains(t, err.Error(), token)
			assert.NotContains(t, err.Error(), "SECRET")
		})
	}
}

func TestTelegramClient_AnswerCallbackQuery(t *testing.T) {
	var got answerCallbackQueryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/answerCallbackQuery", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	defer srv.Close()

	require.NoError(t, NewTelegramClient(srv.URL, "TOKEN", srv.Client()).AnswerCallbackQuery(context.Background(), "cbq-1"))
	assert.Equal(t, "cbq-1", got.CallbackQueryID)
}

func TestLogGateway_NeverFails(t *testing.T) {
	assert.NoError(t, LogGateway{}.Notify(context.Background(), "user-1", "msg"))
}
