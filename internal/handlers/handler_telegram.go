package handlers

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/SscSPs/myspendr/internal/core/domain"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/middleware"
	"github.com/gin-gonic/gin"
)

// telegramSecretHeader carries the secret configured with setWebhook.
const telegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Callback data prefixes of the inline keyboards.
const (
	callbackDirection = "dir"
	callbackCategory  = "cat"
	callbackSource    = "src"
)

type telegramChat struct {
	ID int64 `json:"id"`
}

type telegramMessage struct {
	MessageID int64        `json:"message_id"`
	Chat      telegramChat `json:"chat"`
	Text      string       `json:"text"`
}

type telegramCallbackQuery struct {
	ID      string           `json:"id"`
	Data    string           `json:"data"`
	Message *telegramMessage `json:"message"`
}

// TelegramUpdate is the subset of a Bot API update the webhook understands.
type TelegramUpdate struct {
	UpdateID      int64                  `json:"update_id"`
	Message       *telegramMessage       `json:"message"`
	CallbackQuery *telegramCallbackQuery `json:"callback_query"`
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

// TelegramReply is a sendMessage call returned in the webhook response body.
type TelegramReply struct {
	Method      string          `json:"method"`
	ChatID      int64           `json:"chat_id"`
	Text        string          `json:"text"`
	ReplyMarkup *inlineKeyboard `json:"reply_markup,omitempty"`
}

type telegramWebhookHandler struct {
	intakeService portssvc.IntakeSvc
	ack           portssvc.ChatCallbackAcknowledger
	secret        string
}

// RegisterTelegramWebhook registers the Bot API webhook. An empty secret disables the header check.
// ack may be nil, in which case keyboard presses are not acknowledged.
func RegisterTelegramWebhook(rg gin.IRoutes, intakeService portssvc.IntakeSvc, ack portssvc.ChatCallbackAcknowledger, secret string) {
	h := &telegramWebhookHandler{intakeService: intakeService, ack: ack, secret: secret}
	rg.POST("/chat/telegram/webhook", h.webhook)
}

// webhook godoc
// @Summary Telegram webhook
// @Description Receives Bot API updates and answers with a sendMessage call
// @Tags chat
// @Accept  json
// @Produce  json
// @Param   update body TelegramUpdate true "Bot API update"
// @Success 200 {object} TelegramReply
// @Failure 401 {object} map[string]string "Bad secret token"
// @Router /chat/telegram/webhook [post]
func (h *telegramWebhookHandler) webhook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if h.secret != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader(telegramSecretHeader)), []byte(h.secret)) != 1 {
		logger.Warn("Telegram webhook called with a bad secret token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var update TelegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}

	if q := update.CallbackQuery; q != nil && q.ID != "" && h.ack != nil {
		if err := h.ack.AnswerCallbackQuery(c.Request.Context(), q.ID); err != nil {
			logger.Warn("Failed to answer callback query",
				slog.Int64("update_id", update.UpdateID),
				slog.String("error", err.Error()))
		}
	}

	chatID, ev, ok := eventFromUpdate(update)
	if !ok {
		// Nothing we handle; acknowledge so Telegram does not redeliver.
		c.Status(http.StatusOK)
		return
	}

	reply, err := h.intakeService.Handle(c.Request.Context(), ev)
	if err != nil {
		logger.Error("Failed to handle chat event",
			slog.Int64("update_id", update.UpdateID),
			slog.String("event_kind", string(ev.Kind)),
			slog.String("error", err.Error()))
		c.JSON(http.StatusOK, TelegramReply{Method: "sendMessage", ChatID: chatID, Text: "Something went wrong, please try again."})
		return
	}
	c.JSON(http.StatusOK, renderTelegramReply(chatID, reply))
}

// eventFromUpdate turns an update into a chat event. ok is false for updates without text or callback data.
func eventFromUpdate(u TelegramUpdate) (int64, domain.ChatEvent, bool) {
	if q := u.CallbackQuery; q != nil && q.Message != nil {
		prefix, value, found := strings.Cut(q.Data, ":")
		if !found {
			return 0, domain.ChatEvent{}, false
		}
		ev := domain.ChatEvent{ConversationID: strconv.FormatInt(q.Message.Chat.ID, 10), Value: value}
		switch prefix {
		case callbackDirection:
			ev.Kind = domain.ChatDirectionSelected
		case callbackCategory:
			ev.Kind = domain.ChatCategorySelected
		case callbackSource:
			ev.Kind = domain.ChatSourceSelected
		default:
			return 0, domain.ChatEvent{}, false
		}
		return q.Message.Chat.ID, ev, true
	}

	m := u.Message
	if m == nil {
		return 0, domain.ChatEvent{}, false
	}
	text := strings.TrimSpace(m.Text)
	if text == "" {
		return 0, domain.ChatEvent{}, false
	}
	ev := domain.ChatEvent{ConversationID: strconv.FormatInt(m.Chat.ID, 10), Kind: domain.ChatText, Value: text}
	if strings.HasPrefix(text, "/") {
		cmd, arg, _ := strings.Cut(text[1:], " ")
		cmd, _, _ = strings.Cut(cmd, "@") // "/spesa@my_bot" in group chats
		ev.Kind = domain.ChatCommand
		ev.Value = strings.ToLower(cmd)
		ev.Argument = strings.TrimSpace(arg)
	}
	return m.Chat.ID, ev, true
}

func renderTelegramReply(chatID int64, r domain.ChatReply) TelegramReply {
	out := TelegramReply{Method: "sendMessage", ChatID: chatID}

	switch r.Kind {
	case domain.ReplyAskDirection, domain.ReplyAskCategory, domain.ReplyAskSource, domain.ReplyAskAmountDescription:
		out.Text, out.ReplyMarkup = prompt(r.Kind, r.Options)
	case domain.ReplyOutOfOrder:
		text, kb := prompt(domain.ReplyKind(r.Detail), r.Options)
		out.Text, out.ReplyMarkup = "That step is not expected yet. "+text, kb
	case domain.ReplyMovementSaved:
		out.Text = "Saved: " + formatMovement(r.Movement)
	case domain.ReplyCommitFailed:
		out.Text = "Could not save the movement: " + r.Detail
	case domain.ReplyInvalidFormat:
		out.Text = "Could not read that (" + r.Detail + "). Send the amount followed by a description, e.g. 12.50 sushi"
	case domain.ReplyMissingFields:
		out.Text = "Some details are missing. Start again with /" + domain.CommandExpense
	case domain.ReplyNotLinked:
		out.Text = "This chat is not linked to an account. Request a link token in the app, then send /" + domain.CommandStart + " <token>"
	case domain.ReplyLinked:
		out.Text = "Chat linked. Send /" + domain.CommandExpense + " to record a movement."
	case domain.ReplyLinkFailed:
		out.Text = "The link token is invalid or expired."
	case domain.ReplyRecentMovements:
		out.Text = formatRecent(r.Movements)
	case domain.ReplyCapitalSummary:
		s := r.Summary
		out.Text = fmt.Sprintf("Bank: %s\nCash: %s\nOther: %s\nTotal: %s",
			s.Bank.StringFixed(2), s.Cash.StringFixed(2), s.Other.StringFixed(2), s.Total.StringFixed(2))
	case domain.ReplyNoCapital:
		out.Text = "No capital account yet. Create one in the app first."
	case domain.ReplySessionCleared:
		out.Text = "Cancelled."
	case domain.ReplyHelp:
		out.Text = helpText
	case domain.ReplyAlive:
		out.Text = "I'm alive."
	default:
		out.Text = "Unknown command /" + r.Detail + ". Send /" + domain.CommandHelp + " for the list."
	}
	return out
}

var helpText = strings.Join([]string{
	"/" + domain.CommandExpense + " record a movement",
	"/" + domain.CommandRecent + " last movements",
	"/" + domain.CommandSummary + " balances",
	"/" + domain.CommandCancel + " abort the current entry",
	"/" + domain.CommandPing + " check the bot is up",
}, "\n")

// prompt renders the question of an intake step with its keyboard.
func prompt(kind domain.ReplyKind, options []string) (string, *inlineKeyboard) {
	switch kind {
	case domain.ReplyAskDirection:
		return "Income or expense?", keyboard(callbackDirection, options, 2)
	case domain.ReplyAskCategory:
		return "Pick a category:", keyboard(callbackCategory, options, 2)
	case domain.ReplyAskSource:
		return "Which balance?", keyboard(callbackSource, options, 3)
	}
	return "Send the amount and a description, e.g. 12.50 sushi (optionally followed by a date like 2025-05-25).", nil
}

func keyboard(prefix string, options []string, perRow int) *inlineKeyboard {
	if len(options) == 0 {
		return nil
	}
	kb := &inlineKeyboard{}
	var row []inlineButton
	for _, opt := range options {
		row = append(row, inlineButton{Text: opt, CallbackData: prefix + ":" + opt})
		if len(row) == perRow {
			kb.InlineKeyboard = append(kb.InlineKeyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.InlineKeyboard = append(kb.InlineKeyboard, row)
	}
	return kb
}

func formatMovement(m *domain.Movement) string {
	if m == nil {
		return ""
	}
	line := fmt.Sprintf("%s %s %s %s %s", m.Date.Format(domain.DateLayout), m.Direction, m.Amount.StringFixed(2), m.Category, m.Source)
	if m.Description != "" {
		line += " - " + m.Description
	}
	return line
}

func formatRecent(ms []domain.Movement) string {
	if len(ms) == 0 {
		return "No movements yet."
	}
	lines := make([]string, len(ms))
	for i := range ms {
		lines[i] = formatMovement(&ms[i])
	}
	return strings.Join(lines, "\n")
}
