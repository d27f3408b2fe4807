package services

import (
	"context"

	"github.com/SscSPs/myspendr/internal/core/domain"
)

// IntakeSvc drives the conversational intake flow and chat commands.
type IntakeSvc interface {
	// Handle processes one chat event and returns what the transport should say next.
	Handle(ctx context.Context, event domain.ChatEvent) (domain.ChatReply, error)
}

// ChatLinkSvcFacade binds chat conversations to users.
type ChatLinkSvcFacade interface {
	IssueLinkToken(ctx context.Context, userID string) (*domain.LinkToken, error)
	Link(ctx context.Context, chatID, token string) (*domain.ChatLink, error)
	ResolveUser(ctx context.Context, chatID string) (string, error)
	ChatIDsForUser(ctx context.Context, userID string) ([]string, error)
}
