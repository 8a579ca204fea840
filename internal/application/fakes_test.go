package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank-cli/internal/domain"
)

type memStore struct {
	entries map[string]string
	sets    int
	removes int
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]string{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	value, ok := m.entries[key]
	if !ok {
		return "", fmt.Errorf("state key %q: %w", key, domain.ErrCacheMiss)
	}

	return value, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	m.sets++
	m.entries[key] = value
	return nil
}

func (m *memStore) Remove(_ context.Context, key string) error {
	m.removes++
	delete(m.entries, key)
	return nil
}

type stubBank struct {
	accounts []domain.Account
	fetchErr error
	fetches  int
}

func (b *stubBank) Login(context.Context, string, string) (domain.Session, []domain.Account, error) {
	return domain.Session{Token: "tok", UserID: "u-1"}, b.accounts, nil
}

func (b *stubBank) FetchAccounts(context.Context, domain.Session) ([]domain.Account, error) {
	b.fetches++
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}

	return b.accounts, nil
}

func (b *stubBank) Transfer(context.Context, domain.Session, domain.AccountID, string, decimal.Decimal) error {
	return nil
}
