package domain

import "time"

// ChatLink binds an external chat identity to an application user.
type ChatLink struct {
	ChatID   string    `json:"chatID"`
	UserID   string    `json:"userID"`
	LinkedAt time.Time `json:"linkedAt"`
}

// LinkToken is a one-time code a user sends from chat to bind the conversation to their account.
type LinkToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userID"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsExpired reports whether the token can no longer be redeemed.
func (t LinkToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// ReplyKind tells the chat transport what to say next. The core never renders markup.
type ReplyKind string

const (
	ReplyAskDirection         ReplyKind = "ASK_DIRECTION"
	ReplyAskCategory          ReplyKind = "ASK_CATEGORY"
	ReplyAskSource            ReplyKind = "ASK_SOURCE"
	ReplyAskAmountDescription ReplyKind = "ASK_AMOUNT_DESCRIPTION"
	ReplyMovementSaved        ReplyKind = "MOVEMENT_SAVED"
	ReplyCommitFailed         ReplyKind = "COMMIT_FAILED"
	ReplyInvalidFormat        ReplyKind = "INVALID_FORMAT"
	ReplyMissingFields        ReplyKind = "MISSING_FIELDS"
	ReplyOutOfOrder           ReplyKind = "OUT_OF_ORDER"
	ReplyNotLinked            ReplyKind = "NOT_LINKED"
	ReplyLinked               ReplyKind = "LINKED"
	ReplyLinkFailed           ReplyKind = "LINK_FAILED"
	ReplyRecentMovements      ReplyKind = "RECENT_MOVEMENTS"
	ReplyCapitalSummary       ReplyKind = "CAPITAL_SUMMARY"
	ReplyNoCapital            ReplyKind = "NO_CAPITAL"
	ReplySessionCleared       ReplyKind = "SESSION_CLEARED"
	ReplyHelp                 ReplyKind = "HELP"
	ReplyAlive                ReplyKind = "ALIVE"
	ReplyUnknownCommand       ReplyKind = "UNKNOWN_COMMAND"
)

// ChatReply is the abstract answer to one chat event.
type ChatReply struct {
	Kind      ReplyKind
	Options   []string
	Movement  *Movement
	Movements []Movement
	Summary   *CapitalSummary
	Detail    string
}

// ChatEventKind classifies an inbound chat interaction.
type ChatEventKind string

const (
	ChatDirectionSelected ChatEventKind = "DIRECTION_SELECTED"
	ChatCategorySelected  ChatEventKind = "CATEGORY_SELECTED"
	ChatSourceSelected    ChatEventKind = "SOURCE_SELECTED"
	ChatText              ChatEventKind = "TEXT"
	ChatCommand           ChatEventKind = "COMMAND"
)

// Chat commands understood by the intake channel.
const (
	CommandStart   = "start"
	CommandExpense = "spesa"
	CommandRecent  = "ultimi"
	CommandSummary = "riepilogo"
	CommandCancel  = "annulla"
	CommandHelp    = "help"
	CommandPing    = "test"
)

// ChatEvent is one interaction delivered by the chat transport, tagged with its conversation.
type ChatEvent struct {
	ConversationID string
	Kind           ChatEventKind
	Value          string
	Argument       string
}
