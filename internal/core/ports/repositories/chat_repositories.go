package repositories

import (
	"context"

	"github.com/SscSPs/myspendr/internal/core/domain"
)

// ChatLinkRepositoryFacade stores chat identities and the one-time tokens that bind them.
type ChatLinkRepositoryFacade interface {
	// SaveLinkToken stores a new token.
	SaveLinkToken(ctx context.Context, token domain.LinkToken) error

	// ConsumeLinkToken deletes the token and returns it; found is false for unknown tokens.
	ConsumeLinkToken(ctx context.Context, token string) (domain.LinkToken, bool, error)

	// UpsertChatLink binds a chat to a user, replacing any previous binding of that chat.
	UpsertChatLink(ctx context.Context, link domain.ChatLink) error

	// FindChatLink resolves a chat to its user.
	FindChatLink(ctx context.Context, chatID string) (domain.ChatLink, bool, error)

	// FindChatLinksByUser lists the chats bound to a user.
	FindChatLinksByUser(ctx context.Context, userID string) ([]domain.ChatLink, error)
}
