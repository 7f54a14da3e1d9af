package services

import (
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/events"
	"github.com/SscSPs/ledger_core/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher, options ...ServiceOption) *portssvc.ServiceContainer {
	options = append([]ServiceOption{WithPageSizes(cfg.DefaultPageSize, cfg.MaxPageSize)}, options...)

	// One guard is shared so that imbalances found by reporting block the journal.
	guard := NewIntegrityGuard()

	container := &portssvc.ServiceContainer{Integrity: guard}
	container.Account = NewAccountService(repos.AccountRepo, repos.JournalRepo, cfg.DefaultCurrency, options...)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, guard, publisher, options...)
	container.Reporting = NewReportingService(repos.ReportingRepo, guard, options...)
	container.Analytics = NewAnalyticsService(repos, cfg.DefaultCurrency, options...)
	container.Goal = NewGoalService(repos, container.Journal, cfg.DefaultCurrency, options...)
	return container
}
