package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both the Postgres and the in-memory backends build one.
type RepositoryProvider struct {
	CapitalRepo  CapitalRepositoryFacade
	MovementRepo MovementRepositoryFacade
	BudgetRepo   BudgetRepositoryFacade
	ChatLinkRepo ChatLinkRepositoryFacade
}
