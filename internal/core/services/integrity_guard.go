package services

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
)

// LedgerWide is the quarantine key that blocks every account at once.
const LedgerWide = "*"

// IntegrityGuard blocks new postings against accounts whose history failed
// an integrity check, until an operator releases them.
type IntegrityGuard struct {
	BaseService
	mu          sync.RWMutex
	quarantined map[string]string // account id -> reason
}

// NewIntegrityGuard creates an empty guard.
func NewIntegrityGuard() *IntegrityGuard {
	return &IntegrityGuard{quarantined: make(map[string]string)}
}

var _ portssvc.IntegritySvc = (*IntegrityGuard)(nil)

// Quarantine blocks accountIDs. An empty list blocks the whole ledger.
func (g *IntegrityGuard) Quarantine(accountIDs []string, reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(accountIDs) == 0 {
		g.quarantined[LedgerWide] = reason
		return
	}
	for _, id := range accountIDs {
		g.quarantined[id] = reason
	}
}

// Check returns ErrLedgerInconsistency if any of accountIDs is blocked.
func (g *IntegrityGuard) Check(accountIDs []string) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if reason, ok := g.quarantined[LedgerWide]; ok {
		return fmt.Errorf("%w: ledger is quarantined: %s", apperrors.ErrLedgerInconsistency, reason)
	}
	for _, id := range accountIDs {
		if reason, ok := g.quarantined[id]; ok {
			return fmt.Errorf("%w: account %s is quarantined: %s", apperrors.ErrLedgerInconsistency, id, reason)
		}
	}
	return nil
}

// QuarantinedAccounts returns a copy of the blocked accounts and reasons.
func (g *IntegrityGuard) QuarantinedAccounts(_ context.Context) map[string]string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return maps.Clone(g.quarantined)
}

// ReleaseAccounts lifts the block on accountIDs. LedgerWide clears everything.
func (g *IntegrityGuard) ReleaseAccounts(ctx context.Context, accountIDs []string) {
	g.mu.Lock()
	for _, id := range accountIDs {
		if id == LedgerWide {
			clear(g.quarantined)
			break
		}
		delete(g.quarantined, id)
	}
	remaining := len(g.quarantined)
	g.mu.Unlock()

	g.LogInfo(ctx, "Quarantine released",
		slog.Any("account_ids", accountIDs),
		slog.Int("remaining", remaining))
}
