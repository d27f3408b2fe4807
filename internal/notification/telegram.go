package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
)

// TelegramClient calls Bot API methods.
type TelegramClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ portssvc.ChatCallbackAcknowledger = (*TelegramClient)(nil)

// NewTelegramClient creates a client. baseURL is normally https://api.telegram.org.
func NewTelegramClient(baseURL, token string, httpClient *http.Client) *TelegramClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TelegramClient{baseURL: baseURL, token: token, httpClient: httpClient}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type answerCallbackQueryRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
}

type botAPIResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts text to one chat.
func (c *TelegramClient) SendMessage(ctx context.Context, chatID, text string) error {
	return c.call(ctx, "sendMessage", sendMessageRequest{ChatID: chatID, Text: text})
}

// AnswerCallbackQuery acknowledges an inline keyboard press so the client stops its progress indicator.
func (c *TelegramClient) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	return c.call(ctx, "answerCallbackQuery", answerCallbackQueryRequest{CallbackQueryID: callbackQueryID})
}

// call posts payload to a Bot API method. Returned errors never carry the request URL,
// which embeds the bot token.
func (c *TelegramClient) call(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bot"+c.token+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build %s request", apperrors.ErrExternal, method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("%w: %s: %w", apperrors.ErrExternal, method, err)
	}
	defer resp.Body.Close()

	var out botAPIResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode != http.StatusOK || !out.OK {
		return fmt.Errorf("%w: %s returned %d: %s", apperrors.ErrExternal, method, resp.StatusCode, out.Description)
	}
	return nil
}

// ChatLinkLookup lists the chats linked to a user.
type ChatLinkLookup interface {
	FindChatLinksByUser(ctx context.Context, userID string) ([]domain.ChatLink, error)
}

// TelegramGateway sends alerts to every chat linked to the user.
type TelegramGateway struct {
	client *TelegramClient
	links  ChatLinkLookup
}

var _ portssvc.NotificationGateway = (*TelegramGateway)(nil)

func NewTelegramGateway(client *TelegramClient, links ChatLinkLookup) *TelegramGateway {
	return &TelegramGateway{client: client, links: links}
}

// Notify is a no-op for users with no linked chat.
func (g *TelegramGateway) Notify(ctx context.Context, userID, message string) error {
	links, err := g.links.FindChatLinksByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up chats for user %s: %w", userID, err)
	}
	var errs []error
	for _, l := range links {
		if err := g.client.SendMessage(ctx, l.ChatID, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
