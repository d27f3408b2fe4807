package services

import (
	"time"

	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
)

// ContainerConfig carries the tunables the services need from configuration.
type ContainerConfig struct {
	SessionTTL   time.Duration
	LinkTokenTTL time.Duration
	Clock        Clock
}

// NewServiceContainer wires every service from the repositories and the notification gateway.
// notifier may be nil, in which case overruns are only logged.
func NewServiceContainer(cfg ContainerConfig, repos portsrepo.RepositoryProvider, notifier portssvc.NotificationGateway) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	budgetOpts := []BudgetOption{WithBudgetClock(cfg.Clock)}
	if notifier != nil {
		budgetOpts = append(budgetOpts, WithNotificationGateway(notifier))
	}
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.MovementRepo, budgetOpts...)

	// The budget tracker observes committed OUT movements.
	container.Ledger = NewLedgerService(
		repos.CapitalRepo,
		WithMovementObserver(container.Budget),
		WithLedgerClock(cfg.Clock),
	)

	container.Capital = NewCapitalService(repos.CapitalRepo, cfg.Clock)
	container.Movement = NewMovementService(repos.MovementRepo, cfg.Clock)
	container.ChatLink = NewChatLinkService(repos.ChatLinkRepo, cfg.LinkTokenTTL, cfg.Clock)
	container.Intake = NewIntakeService(
		NewSessionStore(cfg.SessionTTL, cfg.Clock),
		container.Ledger,
		container.ChatLink,
		container.Capital,
		container.Movement,
		cfg.Clock,
	)

	return container
}
