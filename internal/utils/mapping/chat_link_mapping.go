package mapping

import (
	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/SscSPs/myspendr/internal/models"
)

func ToDomainChatLink(m models.ChatLink) domain.ChatLink {
	return domain.ChatLink{ChatID: m.ChatID, UserID: m.UserID, LinkedAt: m.LinkedAt.UTC()}
}

func ToDomainLinkToken(m models.LinkToken) domain.LinkToken {
	return domain.LinkToken{Token: m.Token, UserID: m.UserID, ExpiresAt: m.ExpiresAt.UTC()}
}
