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

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for monthly budget limits.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, user_id, category, month, year, limit_amount, updated_at`

func (r *PgxBudgetRepository) FindBudget(ctx context.Context, key domain.BudgetKey) (domain.BudgetLimit, bool, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 AND category = $2 AND month = $3 AND year = $4;`
	rows, err := r.Pool.Query(ctx, query, key.UserID, string(key.Category), key.Month, key.Year)
	if err != nil {
		return domain.BudgetLimit{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to query budget", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Budget])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BudgetLimit{}, false, nil
		}
		return domain.BudgetLimit{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan budget", err)
	}
	return mapping.ToDomainBudget(m), true, nil
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, userID string, month, year int) ([]domain.BudgetLimit, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 AND month = $2 AND year = $3 ORDER BY category;`
	rows, err := r.Pool.Query(ctx, query, userID, month, year)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query budgets", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Budget])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect budget rows", err)
	}
	return mapping.ToDomainBudgetSlice(ms), nil
}

// UpsertBudget replaces the limit for the key, keeping the original budget_id.
func (r *PgxBudgetRepository) UpsertBudget(ctx context.Context, budget domain.BudgetLimit) (domain.BudgetLimit, error) {
	m := mapping.ToModelBudget(budget)
	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, category, month, year) DO UPDATE SET
			limit_amount = EXCLUDED.limit_amount,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + budgetColumns + `;
	`
	rows, err := r.Pool.Query(ctx, query, m.BudgetID, m.UserID, m.Category, m.Month, m.Year, m.Limit, m.UpdatedAt)
	if err != nil {
		return domain.BudgetLimit{}, apperrors.NewAppError(http.StatusInternalServerError, "failed to upsert budget", err)
	}
	saved, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Budget])
	if err != nil {
		return domain.BudgetLimit{}, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan upserted budget", err)
	}
	return mapping.ToDomainBudget(saved), nil
}
