// Package seed loads a chart of accounts, opening transactions and goals
// from YAML and applies them through the ledger services. Applying the same
// file twice leaves the ledger unchanged.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// maxConcurrent bounds the account and goal creations in flight.
const maxConcurrent = 4

type AccountSeed struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	Currency       string `yaml:"currency"`
	OpeningBalance string `yaml:"opening_balance"`
	Description    string `yaml:"description"`
}

// EntrySeed refers to its account by name.
type EntrySeed struct {
	Account string `yaml:"account"`
	Type    string `yaml:"type"`
	Amount  string `yaml:"amount"`
}

// TransactionSeed must carry a reference; it doubles as the idempotency key.
type TransactionSeed struct {
	Reference   string      `yaml:"reference"`
	Description string      `yaml:"description"`
	Entries     []EntrySeed `yaml:"entries"`
}

type GoalSeed struct {
	Name                string `yaml:"name"`
	Target              string `yaml:"target"`
	Currency            string `yaml:"currency"`
	FundFrom            string `yaml:"fund_from"`
	InitialContribution string `yaml:"initial_contribution"`
}

// File is the seed document.
type File struct {
	Accounts     []AccountSeed     `yaml:"accounts"`
	Transactions []TransactionSeed `yaml:"transactions"`
	Goals        []GoalSeed        `yaml:"goals"`
}

// Summary counts what Apply changed.
type Summary struct {
	AccountsCreated      int
	AccountsExisting     int
	TransactionsPosted   int
	TransactionsReplayed int
	GoalsCreated         int
	GoalsExisting        int
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document and checks references between its parts.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: failed to parse seed YAML: %v", apperrors.ErrValidation, err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	names := make(map[string]struct{}, len(f.Accounts))
	for i, a := range f.Accounts {
		key := strings.ToLower(strings.TrimSpace(a.Name))
		if key == "" {
			return fmt.Errorf("%w: account %d has no name", apperrors.ErrValidation, i)
		}
		if _, dup := names[key]; dup {
			return fmt.Errorf("%w: account %q listed twice", apperrors.ErrValidation, a.Name)
		}
		names[key] = struct{}{}
	}
	refs := make(map[string]struct{}, len(f.Transactions))
	for i, t := range f.Transactions {
		if strings.TrimSpace(t.Reference) == "" {
			return fmt.Errorf("%w: transaction %d has no reference", apperrors.ErrValidation, i)
		}
		if _, dup := refs[t.Reference]; dup {
			return fmt.Errorf("%w: reference %q listed twice", apperrors.ErrValidation, t.Reference)
		}
		refs[t.Reference] = struct{}{}
	}
	return nil
}

// Apply creates the accounts, posts the transactions in file order and then
// creates the goals. Accounts that already exist by name are reused.
func Apply(ctx context.Context, svc *portssvc.ServiceContainer, f *File) (*Summary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	summary := &Summary{}

	created, existing, err := applyAccounts(ctx, svc.Account, f.Accounts)
	if err != nil {
		return nil, err
	}
	summary.AccountsCreated, summary.AccountsExisting = created, existing

	ids, err := accountIDsByName(ctx, svc.Account)
	if err != nil {
		return nil, err
	}

	for _, t := range f.Transactions {
		req, err := t.request(ids)
		if err != nil {
			return nil, err
		}
		result, err := svc.Journal.PostTransaction(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("seed transaction %s: %w", t.Reference, err)
		}
		if result.Replayed {
			summary.TransactionsReplayed++
		} else {
			summary.TransactionsPosted++
		}
	}

	created, existing, err = applyGoals(ctx, svc.Goal, f.Goals, ids)
	if err != nil {
		return nil, err
	}
	summary.GoalsCreated, summary.GoalsExisting = created, existing

	logger.Info("Seed applied",
		slog.Int("accounts_created", summary.AccountsCreated),
		slog.Int("transactions_posted", summary.TransactionsPosted),
		slog.Int("transactions_replayed", summary.TransactionsReplayed),
		slog.Int("goals_created", summary.GoalsCreated),
	)
	return summary, nil
}

func applyAccounts(ctx context.Context, accounts portssvc.AccountWriterSvc, seeds []AccountSeed) (int, int, error) {
	var created, existing atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for _, a := range seeds {
		g.Go(func() error {
			_, err := accounts.CreateAccount(gctx, dto.CreateAccountRequest{
				Name:           a.Name,
				AccountType:    a.Type,
				CurrencyCode:   a.Currency,
				OpeningBalance: a.OpeningBalance,
				Description:    a.Description,
			})
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, apperrors.ErrDuplicateAccount):
				existing.Add(1)
			default:
				return fmt.Errorf("seed account %q: %w", a.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return int(created.Load()), int(existing.Load()), nil
}

func accountIDsByName(ctx context.Context, accounts portssvc.AccountReaderSvc) (map[string]string, error) {
	all, err := accounts.ListAccounts(ctx, dto.ListAccountsParams{IncludeClosed: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for seeding: %w", err)
	}
	ids := make(map[string]string, len(all))
	for _, a := range all {
		ids[strings.ToLower(a.Name)] = a.AccountID
	}
	return ids, nil
}

func lookup(ids map[string]string, name string) (string, error) {
	id, ok := ids[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: seed refers to unknown account %q", apperrors.ErrValidation, name)
	}
	return id, nil
}

func (t TransactionSeed) request(ids map[string]string) (dto.PostTransactionRequest, error) {
	req := dto.PostTransactionRequest{
		Reference:      t.Reference,
		Description:    t.Description,
		IdempotencyKey: "seed:" + t.Reference,
		Entries:        make([]dto.EntryRequest, len(t.Entries)),
	}
	for i, e := range t.Entries {
		id, err := lookup(ids, e.Account)
		if err != nil {
			return dto.PostTransactionRequest{}, err
		}
		req.Entries[i] = dto.EntryRequest{AccountID: id, Amount: e.Amount, Type: e.Type}
	}
	return req, nil
}

func applyGoals(ctx context.Context, goals portssvc.GoalSvcFacade, seeds []GoalSeed, ids map[string]string) (int, int, error) {
	var created, existing atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for _, s := range seeds {
		req := dto.CreateGoalRequest{
			Name:                s.Name,
			TargetAmount:        s.Target,
			CurrencyCode:        s.Currency,
			InitialContribution: s.InitialContribution,
			IdempotencyKey:      "seed:goal:" + strings.ToLower(s.Name),
		}
		if s.FundFrom != "" {
			id, err := lookup(ids, s.FundFrom)
			if err != nil {
				return 0, 0, err
			}
			req.FundingAccountID = id
		}
		g.Go(func() error {
			_, err := goals.CreateGoal(gctx, req)
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, apperrors.ErrDuplicateAccount):
				existing.Add(1)
			default:
				return fmt.Errorf("seed goal %q: %w", s.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return int(created.Load()), int(existing.Load()), nil
}
