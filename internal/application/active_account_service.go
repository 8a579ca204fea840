package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pocketbank/pocketbank-cli/internal/domain"
	"github.com/pocketbank/pocketbank-cli/internal/events"
	"github.com/pocketbank/pocketbank-cli/internal/logging"
	"github.com/pocketbank/pocketbank-cli/internal/ports"
)

// ActiveAccountService owns the persisted active-account snapshot and decides
// when a broadcast is warranted. The authoritative balance is always the last
// server fetch.
type ActiveAccountService struct {
	cache ports.KeyValueStore
	bank  ports.BankService
	bus   *events.Bus
	log   *logrus.Logger
}

// ReconcileResult is what screens render from. Active is nil when no valid
// snapshot exists.
type ReconcileResult struct {
	Active       *domain.Account
	TotalBalance decimal.Decimal
}

// Overview is the account-list screen state, rebuilt on every focus.
type Overview struct {
	Accounts     []domain.Account
	TotalBalance decimal.Decimal
	Active       *domain.Account
}

func NewActiveAccountService(cache ports.KeyValueStore, bank ports.BankService, bus *events.Bus, log *logrus.Logger) *ActiveAccountService {
	if log == nil {
		log = logging.Discard()
	}

	return &ActiveAccountService{cache: cache, bank: bank, bus: bus, log: log}
}

// ReadSnapshot returns the persisted snapshot, or nil when none exists.
// Malformed stored data is treated as absent and logged.
func (s *ActiveAccountService) ReadSnapshot(ctx context.Context) (*domain.Account, error) {
	raw, err := s.cache.Get(ctx, KeyActiveCard)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("read active account snapshot: %w", err)
	}

	account, err := decodeCard(raw)
	if err != nil {
		s.log.WithError(err).Warn("discarding unparseable active account snapshot")
		return nil, nil
	}

	return &account, nil
}

// SetActiveAccount overwrites the snapshot and broadcasts the change.
func (s *ActiveAccountService) SetActiveAccount(ctx context.Context, account domain.Account) error {
	encoded, err := encodeCard(account)
	if err != nil {
		return fmt.Errorf("encode active account snapshot: %w", err)
	}

	if err := s.cache.Set(ctx, KeyActiveCard, encoded); err != nil {
		return fmt.Errorf("persist active account snapshot: %w", err)
	}

	s.bus.Publish(events.ActiveAccountChanged)
	return nil
}

// Reconcile validates the persisted snapshot against a freshly fetched
// account list. The list entry wins; a missing id reads as absent. Never
// mutates the cache, never broadcasts.
func (s *ActiveAccountService) Reconcile(ctx context.Context, latest []domain.Account) (ReconcileResult, error) {
	result := ReconcileResult{TotalBalance: domain.TotalBalance(latest)}

	snapshot, err := s.ReadSnapshot(ctx)
	if err != nil {
		return result, err
	}
	if snapshot == nil {
		return result, nil
	}

	if account, ok := domain.FindAccount(latest, snapshot.ID); ok {
		result.Active = &account
	}

	return result, nil
}

// RefreshAfterMutation re-fetches after a balance-mutating operation and
// rewrites the snapshot from server truth, clearing it when the account is
// gone. Both outcomes broadcast; a fetch failure touches nothing.
func (s *ActiveAccountService) RefreshAfterMutation(ctx context.Context, session domain.Session, id domain.AccountID) (*domain.Account, error) {
	latest, err := s.bank.FetchAccounts(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("refresh accounts: %w", err)
	}

	account, ok := domain.FindAccount(latest, id)
	if !ok {
		if err := s.cache.Remove(ctx, KeyActiveCard); err != nil {
			return nil, fmt.Errorf("clear active account snapshot: %w", err)
		}

		s.log.WithField("accountId", id).Info("active account no longer exists, snapshot cleared")
		s.bus.Publish(events.ActiveAccountChanged)
		return nil, nil
	}

	encoded, err := encodeCard(account)
	if err != nil {
		return nil, fmt.Errorf("encode active account snapshot: %w", err)
	}
	if err := s.cache.Set(ctx, KeyActiveCard, encoded); err != nil {
		return nil, fmt.Errorf("persist active account snapshot: %w", err)
	}

	s.bus.Publish(events.ActiveAccountChanged)
	return &account, nil
}

// LoadOverview fetches server truth and reconciles in one step. The snapshot
// is never cleared on a fetch failure.
func (s *ActiveAccountService) LoadOverview(ctx context.Context, session domain.Session) (Overview, error) {
	latest, err := s.bank.FetchAccounts(ctx, session)
	if err != nil {
		return Overview{}, fmt.Errorf("fetch accounts: %w", err)
	}

	result, err := s.Reconcile(ctx, latest)
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		Accounts:     latest,
		TotalBalance: result.TotalBalance,
		Active:       result.Active,
	}, nil
}
