package services

import (
	portsrepo "github.com/SscSPs/member_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/member_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/member_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...Option) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first, the recorders and reports resolve role accounts through it
	container.Account = NewAccountService(repos.AccountRepo, repos.JournalRepo, cfg.RoleMapping(), options...)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, options...)
	container.Recorder = NewRecorderService(container.Account, repos.JournalRepo, options...)
	container.Reporting = NewReportingService(repos.ReportingRepo, container.Account, options...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.JournalSvcFacade = (*journalService)(nil)
	_ portssvc.RecorderSvc      = (*recorderService)(nil)
	_ portssvc.ReportingService = (*reportingService)(nil)
)
