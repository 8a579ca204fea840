package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketbank/pocketbank-cli/internal/application"
	"github.com/pocketbank/pocketbank-cli/internal/domain"
	"github.com/pocketbank/pocketbank-cli/internal/events"
)

type memStore struct {
	entries map[string]string
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
	m.entries[key] = value
	return nil
}

func (m *memStore) Remove(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

type stubBank struct {
	accounts    []domain.Account
	fetchErr    error
	transferErr error
}

func (b *stubBank) Login(context.Context, string, string) (domain.Session, []domain.Account, error) {
	return domain.Session{Token: "tok", UserID: "u-1"}, b.accounts, nil
}

func (b *stubBank) FetchAccounts(context.Context, domain.Session) ([]domain.Account, error) {
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}

	return b.accounts, nil
}

func (b *stubBank) Transfer(context.Context, domain.Session, domain.AccountID, string, decimal.Decimal) error {
	return b.transferErr
}

func newTestDeps(t *testing.T, bank *stubBank) (Deps, *memStore) {
	t.Helper()

	store := newMemStore()
	store.entries[application.KeyToken] = "tok"
	store.entries[application.KeyUserID] = "u-1"

	bus := events.NewBus(nil)
	deps := Deps{
		Sessions: application.NewSessionService(store, nil),
		Active:   application.NewActiveAccountService(store, bank, bus, nil),
		Bank:     bank,
		Bus:      bus,
	}

	return deps, store
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestAccountsScreenLoadsOverviewOnFocus(t *testing.T) {
	bank := &stubBank{accounts: []domain.Account{
		{ID: "1", AccountName: "Checking", Balance: decimal.NewFromInt(100)},
		{ID: "2", AccountName: "Savings", Balance: decimal.NewFromInt(50)},
	}}
	deps, _ := newTestDeps(t, bank)

	m := newAccountsModel(deps, newStyles())
	m, _ = m.focus()
	require.True(t, m.focused)
	require.True(t, m.loading)

	msg := runCmd(t, m.loadCmd(m.seq))
	m, _ = m.update(msg)

	assert.False(t, m.loading)
	view := m.view()
	assert.Contains(t, view, "Total Balance: $150.00")
	assert.Contains(t, view, "Checking")
	assert.Contains(t, view, "Savings")
}

func TestAccountsScreenDropsStaleLoadResult(t *testing.T) {
	bank := &stubBank{accounts: []domain.Account{{ID: "1", AccountName: "Checking", Balance: decimal.NewFromInt(100)}}}
	deps, _ := newTestDeps(t, bank)

	m := newAccountsModel(deps, newStyles())
	m, _ = m.focus()

	staleSeq := m.seq
	staleMsg := runCmd(t, m.loadCmd(staleSeq))

	// The screen loses focus while the refresh is in flight.
	m = m.blur()
	m, _ = m.update(staleMsg)

	assert.True(t, m.loading, "late result must be discarded, not rendered")
	assert.Empty(t, m.overview.Accounts)
}

func TestAccountsScreenSelectSetsActiveAndAlerts(t *testing.T) {
	bank := &stubBank{accounts: []domain.Account{
		{ID: "1", AccountName: "Checking", Balance: decimal.NewFromInt(100)},
		{ID: "2", AccountName: "Savings", Balance: decimal.NewFromInt(50)},
	}}
	deps, store := newTestDeps(t, bank)

	m := newAccountsModel(deps, newStyles())
	m, _ = m.focus()
	m, _ = m.update(runCmd(t, m.loadCmd(m.seq)))

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.updateKeys(tea.KeyMsg{Type: tea.KeyEnter})
	msg := runCmd(t, cmd)

	m, _ = m.update(msg)
	assert.Contains(t, m.view(), "Savings has been set as the active account!")
	assert.Contains(t, store.entries[application.KeyActiveCard], `"id":"2"`)
}

func TestAccountsScreenBusSignalTriggersReload(t *testing.T) {
	bank := &stubBank{accounts: []domain.Account{{ID: "1", AccountName: "Checking", Balance: decimal.NewFromInt(100)}}}
	deps, _ := newTestDeps(t, bank)

	m := newAccountsModel(deps, newStyles())
	m, _ = m.focus()
	seqBefore := m.seq

	deps.Bus.Publish(events.ActiveAccountChanged)

	select {
	case <-m.signals:
	default:
		t.Fatal("focused screen must receive the broadcast")
	}

	m, cmd := m.update(accountsBusMsg{})
	require.NotNil(t, cmd)
	assert.Greater(t, m.seq, seqBefore)
	assert.True(t, m.loading)
}

func TestAccountsScreenBlurReleasesSubscription(t *testing.T) {
	bank := &stubBank{accounts: []domain.Account{{ID: "1", AccountName: "Checking", Balance: decimal.NewFromInt(100)}}}
	deps, _ := newTestDeps(t, bank)

	m := newAccountsModel(deps, newStyles())
	m, _ = m.focus()
	m = m.blur()

	require.NotPanics(t, func() { deps.Bus.Publish(events.ActiveAccountChanged) })
	assert.Nil(t, m.sub)
	assert.Nil(t, m.signals)
}

func TestAccountsScreenFetchFailureShowsNoActiveAccount(t *testing.T) {
	bank := &stubBank{fetchErr: errors.New("connection refused")}
	deps, store := newTestDeps(t, bank)
	store.entries[application.KeyActiveCard] = `{"id":"1","accountName":"Checking","balance":"100"}`

	m := newAccountsModel(deps, newStyles())
	m, _ = m.focus()
	m, _ = m.update(runCmd(t, m.loadCmd(m.seq)))

	assert.Contains(t, m.view(), "Failed to load bank accounts")
	// The snapshot is never cleared speculatively on a fetch failure.
	assert.Contains(t, store.entries, application.KeyActiveCard)
}

func TestTransferScreenRequiresActiveAccount(t *testing.T) {
	deps, _ := newTestDeps(t, &stubBank{})

	m := newTransferModel(deps, newStyles())
	m, _ = m.focus()
	m, _ = m.update(runCmd(t, m.readSnapshotCmd(m.seq)))

	m.recipient.SetValue("99999")
	m.amount.SetValue("10")
	m, cmd := m.submit()
	assert.Nil(t, cmd)
	assert.Contains(t, m.view(), "No active account")
}

func TestTransferScreenValidatesInput(t *testing.T) {
	deps, store := newTestDeps(t, &stubBank{})
	store.entries[application.KeyActiveCard] = `{"id":"1","accountName":"Checking","balance":"100"}`

	m := newTransferModel(deps, newStyles())
	m, _ = m.focus()
	m, _ = m.update(runCmd(t, m.readSnapshotCmd(m.seq)))
	require.NotNil(t, m.snapshot)

	m, cmd := m.submit()
	assert.Nil(t, cmd)
	assert.Contains(t, m.alert, "Please enter both")

	m.recipient.SetValue("99999")
	m.amount.SetValue("-5")
	m, cmd = m.submit()
	assert.Nil(t, cmd)
	assert.Contains(t, m.alert, "Amount must be a positive number")
}

func TestTransferScreenRendersServerConfirmedBalance(t *testing.T) {
	bank := &stubBank{accounts: []domain.Account{
		{ID: "1", AccountName: "Checking", Balance: decimal.NewFromFloat(74.25)},
	}}
	deps, store := newTestDeps(t, bank)
	store.entries[application.KeyActiveCard] = `{"id":"1","accountName":"Checking","balance":"100"}`

	m := newTransferModel(deps, newStyles())
	m, _ = m.focus()
	m, _ = m.update(runCmd(t, m.readSnapshotCmd(m.seq)))

	m.recipient.SetValue("99999")
	m.amount.SetValue("25.75")
	m, cmd := m.submit()
	require.NotNil(t, cmd)
	require.True(t, m.submitting)

	msg := runCmd(t, m.transferCmd(m.seq, "1", "99999", decimal.NewFromFloat(25.75)))
	m, _ = m.update(msg)

	require.NotNil(t, m.snapshot)
	// The rendered balance is the server-confirmed value, not 100-25.75
	// recomputed client-side.
	assert.Contains(t, m.view(), "Balance: $74.25")
	assert.Contains(t, m.view(), "Transfer completed successfully.")
	assert.Empty(t, m.recipient.Value())
	assert.Empty(t, m.amount.Value())
}

func TestTransferScreenResolvesSubmitWhenOwnBroadcastArrivesFirst(t *testing.T) {
	bank := &stubBank{accounts: []domain.Account{
		{ID: "1", AccountName: "Checking", Balance: decimal.NewFromFloat(74.25)},
	}}
	deps, store := newTestDeps(t, bank)
	store.entries[application.KeyActiveCard] = `{"id":"1","accountName":"Checking","balance":"100"}`

	m := newTransferModel(deps, newStyles())
	m, _ = m.focus()
	m, _ = m.update(runCmd(t, m.readSnapshotCmd(m.seq)))

	m.recipient.SetValue("99999")
	m.amount.SetValue("25.75")
	m, _ = m.submit()
	require.True(t, m.submitting)

	// Running the command publishes active-account-changed, so the screen's
	// own bus signal can reach the update loop ahead of the done message.
	done := runCmd(t, m.transferCmd(m.seq, "1", "99999", decimal.NewFromFloat(25.75)))

	m, cmd := m.update(transferBusMsg{})
	require.NotNil(t, cmd, "listener must be rearmed")
	m, _ = m.update(done)

	assert.False(t, m.submitting, "submitting must resolve once the transfer completes")
	require.NotNil(t, m.snapshot)
	assert.Contains(t, m.view(), "Transfer completed successfully.")
	assert.Contains(t, m.view(), "Balance: $74.25")
}

func TestTransferScreenSurfacesTransferFailure(t *testing.T) {
	bank := &stubBank{transferErr: errors.New("status 400: insufficient funds")}
	deps, store := newTestDeps(t, bank)
	store.entries[application.KeyActiveCard] = `{"id":"1","accountName":"Checking","balance":"100"}`

	m := newTransferModel(deps, newStyles())
	m, _ = m.focus()
	m, _ = m.update(runCmd(t, m.readSnapshotCmd(m.seq)))

	msg := runCmd(t, m.transferCmd(m.seq, "1", "99999", decimal.NewFromInt(10)))
	m, _ = m.update(msg)

	assert.Contains(t, m.view(), "Transfer failed")
	assert.Contains(t, store.entries[application.KeyActiveCard], `"id":"1"`)
}

func TestLoginScreenSavesSessionOnSuccess(t *testing.T) {
	bank := &stubBank{accounts: []domain.Account{{ID: "1", AccountName: "Checking", Balance: decimal.NewFromInt(100)}}}
	deps, store := newTestDeps(t, bank)
	delete(store.entries, application.KeyToken)
	delete(store.entries, application.KeyUserID)

	m := newLoginModel(deps, newStyles())
	m.bankNumber.SetValue("12345")
	m.password.SetValue("hunter2")

	m, cmd := m.submit()
	require.NotNil(t, cmd)

	msg := runCmd(t, cmd)
	done, ok := msg.(loginDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)

	assert.Equal(t, "tok", store.entries[application.KeyToken])
	assert.Equal(t, "u-1", store.entries[application.KeyUserID])
	assert.Contains(t, store.entries[application.KeyCards], `"accountName":"Checking"`)
}

func TestRenderOverviewView(t *testing.T) {
	active := domain.Account{ID: "2", AccountName: "Savings", Balance: decimal.NewFromInt(50)}
	overview := application.Overview{
		Accounts: []domain.Account{
			{ID: "1", AccountName: "Checking", Balance: decimal.NewFromInt(100)},
			active,
		},
		TotalBalance: decimal.NewFromInt(150),
		Active:       &active,
	}

	view := renderOverviewView(overview, newStyles())
	assert.Contains(t, view, "Total Balance: $150.00")
	assert.Contains(t, view, "Checking")
	assert.Contains(t, view, "(active)")
}
