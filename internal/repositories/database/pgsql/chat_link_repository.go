package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	"github.com/SscSPs/myspendr/internal/models"
	"github.com/SscSPs/myspendr/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxChatLinkRepository struct {
	BaseRepository
}

// newPgxChatLinkRepository creates a new repository for chat links and link codes.
func newPgxChatLinkRepository(pool *pgxpool.Pool) portsrepo.ChatLinkRepositoryFacade {
	return &PgxChatLinkRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ChatLinkRepositoryFacade = (*PgxChatLinkRepository)(nil)

func (r *PgxChatLinkRepository) SaveLinkToken(ctx context.Context, token domain.LinkToken) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO chat_link_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3);
	`, token.Token, token.UserID, token.ExpiresAt)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save link token", err)
	}
	return nil
}

// ConsumeLinkToken deletes the token and returns it, so a code is redeemable once.
func (r *PgxChatLinkRepository) ConsumeLinkToken(ctx context.Context, token string) (domain.LinkToken, bool, error) {
	rows, err := r.Pool.Query(ctx, `DELETE FROM chat_link_tokens WHERE token = $1 RETURNING token, user_id, expires_at;`, token)
	if err != nil {
		return domain.LinkToken{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to consume link token", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.LinkToken])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LinkToken{}, false, nil
		}
		return domain.LinkToken{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan link token", err)
	}
	return mapping.ToDomainLinkToken(m), true, nil
}

func (r *PgxChatLinkRepository) UpsertChatLink(ctx context.Context, link domain.ChatLink) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO chat_links (chat_id, user_id, linked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO UPDATE SET user_id = EXCLUDED.user_id, linked_at = EXCLUDED.linked_at;
	`, link.ChatID, link.UserID, link.LinkedAt)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save chat link", err)
	}
	return nil
}

func (r *PgxChatLinkRepository) FindChatLink(ctx context.Context, chatID string) (domain.ChatLink, bool, error) {
	rows, err := r.Pool.Query(ctx, `SELECT chat_id, user_id, linked_at FROM chat_links WHERE chat_id = $1;`, chatID)
	if err != nil {
		return domain.ChatLink{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to query chat link", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.ChatLink])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChatLink{}, false, nil
		}
		return domain.ChatLink{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan chat link", err)
	}
	return mapping.ToDomainChatLink(m), true, nil
}

func (r *PgxChatLinkRepository) FindChatLinksByUser(ctx context.Context, userID string) ([]domain.ChatLink, error) {
	rows, err := r.Pool.Query(ctx, `SELECT chat_id, user_id, linked_at FROM chat_links WHERE user_id = $1 ORDER BY chat_id;`, userID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query chat links", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ChatLink])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect chat link rows", err)
	}
	links := make([]domain.ChatLink, len(ms))
	for i, m := range ms {
		links[i] = mapping.ToDomainChatLink(m)
	}
	return links, nil
}
