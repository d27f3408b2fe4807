package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/utils"
)

// DefaultLinkTokenTTL bounds how long a chat link code can be redeemed.
const DefaultLinkTokenTTL = 15 * time.Minute

const linkTokenBytes = 10

var ErrChatNotLinked = fmt.Errorf("%w: chat is not linked to an account", apperrors.ErrNotFound)

type chatLinkService struct {
	BaseService
	repo     portsrepo.ChatLinkRepositoryFacade
	tokenTTL time.Duration
}

// NewChatLinkService creates a new ChatLinkSvcFacade.
func NewChatLinkService(repo portsrepo.ChatLinkRepositoryFacade, tokenTTL time.Duration, clock Clock) portssvc.ChatLinkSvcFacade {
	if tokenTTL <= 0 {
		tokenTTL = DefaultLinkTokenTTL
	}
	return &chatLinkService{BaseService: BaseService{now: clock}, repo: repo, tokenTTL: tokenTTL}
}

var _ portssvc.ChatLinkSvcFacade = (*chatLinkService)(nil)

func (s *chatLinkService) IssueLinkToken(ctx context.Context, userID string) (*domain.LinkToken, error) {
	code, err := utils.RandomToken(linkTokenBytes)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate link token")
		return nil, fmt.Errorf("failed to issue link token: %w", err)
	}
	token := domain.LinkToken{
		Token:     code,
		UserID:    userID,
		ExpiresAt: s.Now().Add(s.tokenTTL),
	}
	if err := s.repo.SaveLinkToken(ctx, token); err != nil {
		s.LogError(ctx, err, "Failed to save link token")
		return nil, fmt.Errorf("failed to issue link token: %w", err)
	}
	return &token, nil
}

func (s *chatLinkService) Link(ctx context.Context, chatID, token string) (*domain.ChatLink, error) {
	token = strings.TrimSpace(token)
	if chatID == "" || token == "" {
		return nil, fmt.Errorf("%w: chat id and token are required", apperrors.ErrValidation)
	}

	lt, found, err := s.repo.ConsumeLinkToken(ctx, token)
	if err != nil {
		s.LogError(ctx, err, "Failed to redeem link token")
		return nil, fmt.Errorf("failed to link chat: %w", err)
	}
	now := s.Now()
	if !found || lt.IsExpired(now) {
		return nil, fmt.Errorf("%w: link token is unknown or expired", apperrors.ErrNotFound)
	}

	link := domain.ChatLink{ChatID: chatID, UserID: lt.UserID, LinkedAt: now}
	if err := s.repo.UpsertChatLink(ctx, link); err != nil {
		s.LogError(ctx, err, "Failed to save chat link")
		return nil, fmt.Errorf("failed to link chat: %w", err)
	}

	s.LogInfo(ctx, "Chat linked", slog.String("chat_id", chatID), slog.String("user_id", lt.UserID))
	return &link, nil
}

func (s *chatLinkService) ResolveUser(ctx context.Context, chatID string) (string, error) {
	link, found, err := s.repo.FindChatLink(ctx, chatID)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve chat link")
		return "", fmt.Errorf("failed to resolve chat: %w", err)
	}
	if !found {
		return "", ErrChatNotLinked
	}
	return link.UserID, nil
}

func (s *chatLinkService) ChatIDsForUser(ctx context.Context, userID string) ([]string, error) {
	links, err := s.repo.FindChatLinksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat links: %w", err)
	}
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ChatID
	}
	return ids, nil
}
