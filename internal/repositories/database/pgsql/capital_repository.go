package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	"github.com/SscSPs/myspendr/internal/models"
	"github.com/SscSPs/myspendr/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCapitalRepository struct {
	BaseRepository
}

// newPgxCapitalRepository creates a new repository for capital accounts.
func newPgxCapitalRepository(pool *pgxpool.Pool) portsrepo.CapitalRepositoryFacade {
	return &PgxCapitalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CapitalRepositoryFacade = (*PgxCapitalRepository)(nil)

const capitalColumns = `capital_id, user_id, bank, cash, other, total, updated_on, created_at`

func (r *PgxCapitalRepository) FindCapitalByUserID(ctx context.Context, userID string) (domain.CapitalAccount, bool, error) {
	return findCapital(ctx, r.Pool, `SELECT `+capitalColumns+` FROM capital_accounts WHERE user_id = $1;`, userID)
}

func (r *PgxCapitalRepository) SaveCapital(ctx context.Context, capital domain.CapitalAccount) error {
	m := mapping.ToModelCapital(capital)
	query := `
		INSERT INTO capital_accounts (` + capitalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query, m.CapitalID, m.UserID, m.Bank, m.Cash, m.Other, m.Total, m.UpdatedOn, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: capital account for user %s", apperrors.ErrDuplicate, m.UserID)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save capital account", err)
	}
	return nil
}

// DeleteCapital removes the account; movements go with it through ON DELETE CASCADE.
func (r *PgxCapitalRepository) DeleteCapital(ctx context.Context, userID string) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM capital_accounts WHERE user_id = $1;`, userID)
	if err != nil {
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to delete capital account", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MutateCapital locks the user's capital row for the duration of fn and persists
// the mutated balances together with fn's movement writes in one transaction.
func (r *PgxCapitalRepository) MutateCapital(ctx context.Context, userID string, fn portsrepo.CapitalMutation) (bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	// No-op once committed.
	defer func() { _ = r.Rollback(ctx, tx) }()

	capital, found, err := findCapital(ctx, tx, `SELECT `+capitalColumns+` FROM capital_accounts WHERE user_id = $1 FOR UPDATE;`, userID)
	if err != nil || !found {
		return found, err
	}

	if err := fn(ctx, &capital, &pgxLedgerTx{tx: tx, capitalID: capital.CapitalID}); err != nil {
		return true, err
	}

	m := mapping.ToModelCapital(capital)
	_, err = tx.Exec(ctx, `
		UPDATE capital_accounts
		SET bank = $2, cash = $3, other = $4, total = $5, updated_on = $6
		WHERE capital_id = $1;
	`, m.CapitalID, m.Bank, m.Cash, m.Other, m.Total, m.UpdatedOn)
	if err != nil {
		return true, apperrors.NewAppError(http.StatusInternalServerError, "failed to update capital account", err)
	}

	return true, r.Commit(ctx, tx)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func findCapital(ctx context.Context, q querier, query string, args ...any) (domain.CapitalAccount, bool, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return domain.CapitalAccount{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to query capital account", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Capital])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CapitalAccount{}, false, nil
		}
		return domain.CapitalAccount{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan capital account", err)
	}
	return mapping.ToDomainCapital(m), true, nil
}

// pgxLedgerTx runs movement writes inside the capital row's transaction.
type pgxLedgerTx struct {
	tx        pgx.Tx
	capitalID string
}

func (t *pgxLedgerTx) SaveMovement(ctx context.Context, movement domain.Movement) error {
	m := mapping.ToModelMovement(movement)
	_, err := t.tx.Exec(ctx, `
		INSERT INTO movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`, m.MovementID, t.capitalID, m.UserID, m.Amount, m.Direction, m.Category, m.Source, m.Description, m.Date, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: movement %s", apperrors.ErrDuplicate, m.MovementID)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save movement", err)
	}
	return nil
}

func (t *pgxLedgerTx) FindMovement(ctx context.Context, movementID string) (domain.Movement, bool, error) {
	rows, err := t.tx.Query(ctx, `SELECT `+movementColumns+` FROM movements WHERE movement_id = $1 AND capital_id = $2;`, movementID, t.capitalID)
	if err != nil {
		return domain.Movement{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to query movement", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Movement])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movement{}, false, nil
		}
		return domain.Movement{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan movement", err)
	}
	return mapping.ToDomainMovement(m), true, nil
}

func (t *pgxLedgerTx) DeleteMovement(ctx context.Context, movementID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM movements WHERE movement_id = $1 AND capital_id = $2;`, movementID, t.capitalID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete movement", err)
	}
	return nil
}

func (t *pgxLedgerTx) DeleteAllMovements(ctx context.Context) (int64, error) {
	tag, err := t.tx.Exec(ctx, `DELETE FROM movements WHERE capital_id = $1;`, t.capitalID)
	if err != nil {
		return 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to delete movements", err)
	}
	return tag.RowsAffected(), nil
}
