package pgsql

import (
	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CapitalRepo:  newPgxCapitalRepository(dbPool),
		MovementRepo: newPgxMovementRepository(dbPool),
		BudgetRepo:   newPgxBudgetRepository(dbPool),
		ChatLinkRepo: newPgxChatLinkRepository(dbPool),
	}
}
