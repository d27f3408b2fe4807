package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	"github.com/SscSPs/myspendr/internal/models"
	"github.com/SscSPs/myspendr/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxMovementRepository struct {
	BaseRepository
}

// newPgxMovementRepository creates a new repository for the movement log.
func newPgxMovementRepository(pool *pgxpool.Pool) portsrepo.MovementRepositoryFacade {
	return &PgxMovementRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.MovementRepositoryFacade = (*PgxMovementRepository)(nil)

const movementColumns = `movement_id, capital_id, user_id, amount, direction, category, source, description, movement_date, created_at`

func (r *PgxMovementRepository) FindMovementByID(ctx context.Context, userID, movementID string) (domain.Movement, bool, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+movementColumns+` FROM movements WHERE movement_id = $1 AND user_id = $2;`, movementID, userID)
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

func (r *PgxMovementRepository) ListMovements(ctx context.Context, userID string, q portsrepo.MovementQuery) ([]domain.Movement, error) {
	where, args := movementFilter(userID, q)
	if q.After != nil {
		args = append(args, q.After.Date, q.After.CreatedAt, q.After.MovementID)
		where += fmt.Sprintf(" AND (movement_date, created_at, movement_id) < ($%d, $%d, $%d)", len(args)-2, len(args)-1, len(args))
	}
	query := `SELECT ` + movementColumns + ` FROM movements WHERE ` + where + ` ORDER BY movement_date DESC, created_at DESC, movement_id DESC`
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query movements", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Movement])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect movement rows", err)
	}
	return mapping.ToDomainMovementSlice(ms), nil
}

func (r *PgxMovementRepository) SumByDirection(ctx context.Context, userID string, direction domain.Direction, q portsrepo.MovementQuery) (decimal.Decimal, error) {
	where, args := movementFilter(userID, q)
	args = append(args, string(direction))
	where += fmt.Sprintf(" AND direction = $%d", len(args))
	return r.sum(ctx, where, args...)
}

func (r *PgxMovementRepository) SumSpent(ctx context.Context, key domain.BudgetKey) (decimal.Decimal, error) {
	from, to := key.Range()
	where, args := movementFilter(key.UserID, portsrepo.MovementQuery{From: from, To: to})
	args = append(args, string(domain.DirectionOut), string(key.Category))
	where += fmt.Sprintf(" AND direction = $%d AND category = $%d", len(args)-1, len(args))
	return r.sum(ctx, where, args...)
}

func (r *PgxMovementRepository) sum(ctx context.Context, where string, args ...any) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM movements WHERE `+where+`;`, args...).Scan(&total)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(http.StatusInternalServerError, "failed to sum movements", err)
	}
	return total, nil
}

// movementFilter builds the WHERE clause shared by list and sum queries.
func movementFilter(userID string, q portsrepo.MovementQuery) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{userID}
	if !q.From.IsZero() {
		args = append(args, q.From)
		clauses = append(clauses, fmt.Sprintf("movement_date >= $%d", len(args)))
	}
	if !q.To.IsZero() {
		args = append(args, q.To)
		clauses = append(clauses, fmt.Sprintf("movement_date <= $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}
