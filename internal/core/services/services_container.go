package services

import (
	"fmt"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/clock"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// sink may be nil when no event publisher is configured.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, sink portssvc.JournalEventSink) (*portssvc.ServiceContainer, error) {
	rule, err := accounting.ParseBalanceRule(cfg.BalanceRule)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_BALANCE_RULE: %w", err)
	}

	systemClock := clock.System{}

	container := &portssvc.ServiceContainer{}
	container.Account = NewAccountService(repos.AccountRepo, systemClock)
	container.Journal = NewPostingEngine(
		repos.AccountRepo,
		repos.JournalRepo,
		WithClock(systemClock),
		WithBalanceRule(rule),
		WithRetryPolicy(uint(cfg.PostingMaxAttempts), cfg.PostingRetryInitialInterval, cfg.PostingRetryMaxInterval),
		WithEventSink(sink),
	)

	return container, nil
}
