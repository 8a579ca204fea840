package bank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketbank/pocketbank-cli/internal/domain"
)

func TestClientLoginParsesSessionAndCards(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/users/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "12345", req["bankNumber"])
		require.Equal(t, "hunter2", req["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"user": {"id": 7, "bankNumber": "12345"},
			"cards": [
				{"id": 1, "accountName": "Checking", "balance": 100.5},
				{"id": 2, "accountName": "Savings", "balance": 50}
			],
			"token": "tok-abc"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	session, cards, err := client.Login(context.Background(), "12345", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, domain.Session{Token: "tok-abc", UserID: "7", BankNumber: "12345"}, session)
	require.Len(t, cards, 2)
	assert.Equal(t, domain.AccountID("1"), cards[0].ID)
	assert.Equal(t, "Checking", cards[0].AccountName)
	assert.True(t, cards[0].Balance.Equal(decimal.NewFromFloat(100.5)))
}

func TestClientLoginBadCredentials(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, _, err := client.Login(context.Background(), "12345", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestClientFetchAccountsSendsBearerToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/7", r.URL.Path)
		require.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user": {"bankAccounts": [{"id": "1", "accountName": "Checking", "balance": 75.25}]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	accounts, err := client.FetchAccounts(context.Background(), domain.Session{Token: "tok-abc", UserID: "7"})
	require.NoError(t, err)

	require.Len(t, accounts, 1)
	assert.Equal(t, domain.AccountID("1"), accounts[0].ID)
	assert.True(t, accounts[0].Balance.Equal(decimal.NewFromFloat(75.25)))
}

func TestClientFetchAccountsExpiredSession(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.FetchAccounts(context.Background(), domain.Session{Token: "stale", UserID: "7"})
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestClientFetchAccountsWithoutSession(t *testing.T) {
	t.Parallel()

	client := NewClient("http://localhost:0", nil)
	_, err := client.FetchAccounts(context.Background(), domain.Session{})
	require.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestClientTransferEncodesAmountAsNumber(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/transfer", r.URL.Path)

		var req struct {
			SenderAccountID     string      `json:"senderAccountId"`
			RecipientBankNumber string      `json:"recipientBankNumber"`
			Amount              json.Number `json:"amount"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "1", req.SenderAccountID)
		assert.Equal(t, "99999", req.RecipientBankNumber)
		assert.Equal(t, "25.75", req.Amount.String())

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	err := client.Transfer(context.Background(), domain.Session{Token: "tok", UserID: "7"}, "1", "99999", decimal.NewFromFloat(25.75))
	require.NoError(t, err)
}

func TestClientTransferRejectedSurfacesStatusAndBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "insufficient funds", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	err := client.Transfer(context.Background(), domain.Session{Token: "tok", UserID: "7"}, "1", "99999", decimal.NewFromInt(1000000))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestClientHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, server.Client())
	_, _, err := client.Login(ctx, "12345", "hunter2")
	require.ErrorIs(t, err, context.Canceled)
}
