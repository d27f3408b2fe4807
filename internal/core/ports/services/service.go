package services

// ServiceContainer holds instances of all the application services.
// Handlers receive it at route registration.
type ServiceContainer struct {
	Ledger   LedgerSvc
	Capital  CapitalSvcFacade
	Movement MovementSvcFacade
	Budget   BudgetSvcFacade
	Intake   IntakeSvc
	ChatLink ChatLinkSvcFacade

	// ChatAck is nil when no chat platform client is configured.
	ChatAck ChatCallbackAcknowledger
}
