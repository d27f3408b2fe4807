package services

import "context"

// NotificationGateway delivers a message to a user over whatever channel is configured.
type NotificationGateway interface {
	Notify(ctx context.Context, userID string, message string) error
}

// ChatCallbackAcknowledger confirms receipt of an inline keyboard press to the chat platform.
type ChatCallbackAcknowledger interface {
	AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error
}
