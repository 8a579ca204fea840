// Package bank is the HTTP adapter for the remote account service. Every
// call is a single attempt against the caller's context.
package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank-cli/internal/domain"
	"github.com/pocketbank/pocketbank-cli/internal/ports"
)

const maxResponseBytes = 1 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ ports.BankService = (*Client)(nil)

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type loginRequest struct {
	BankNumber string `json:"bankNumber"`
	Password   string `json:"password"`
}

type loginResponse struct {
	User struct {
		ID         json.Number `json:"id"`
		BankNumber string      `json:"bankNumber"`
	} `json:"user"`
	Cards []cardPayload `json:"cards"`
	Token string        `json:"token"`
}

type userResponse struct {
	User struct {
		BankAccounts []cardPayload `json:"bankAccounts"`
	} `json:"user"`
}

type cardPayload struct {
	ID          json.Number     `json:"id"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
}

type transferRequest struct {
	SenderAccountID     string      `json:"senderAccountId"`
	RecipientBankNumber string      `json:"recipientBankNumber"`
	Amount              json.Number `json:"amount"`
}

func (c *Client) Login(ctx context.Context, bankNumber, password string) (domain.Session, []domain.Account, error) {
	body, err := json.Marshal(loginRequest{BankNumber: bankNumber, Password: password})
	if err != nil {
		return domain.Session{}, nil, fmt.Errorf("encode login request: %w", err)
	}

	data, status, err := c.do(ctx, http.MethodPost, "/api/users/login", "", body)
	if err != nil {
		return domain.Session{}, nil, err
	}
	if status != http.StatusOK {
		return domain.Session{}, nil, fmt.Errorf("%w: status %d: %s", domain.ErrInvalidCredentials, status, trimmedBody(data))
	}

	var payload loginResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Session{}, nil, fmt.Errorf("decode login response: %w", err)
	}

	session := domain.Session{
		Token:      payload.Token,
		UserID:     payload.User.ID.String(),
		BankNumber: payload.User.BankNumber,
	}
	if !session.Valid() {
		return domain.Session{}, nil, fmt.Errorf("login response missing token or user id")
	}

	return session, accountsFromPayload(payload.Cards), nil
}

func (c *Client) FetchAccounts(ctx context.Context, session domain.Session) ([]domain.Account, error) {
	if !session.Valid() {
		return nil, domain.ErrNotLoggedIn
	}

	data, status, err := c.do(ctx, http.MethodGet, "/api/users/"+session.UserID, session.Token, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSessionExpired, status)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetch accounts: status %d: %s", status, trimmedBody(data))
	}

	var payload userResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode accounts response: %w", err)
	}

	return accountsFromPayload(payload.User.BankAccounts), nil
}

func (c *Client) Transfer(ctx context.Context, session domain.Session, senderID domain.AccountID, recipientBankNumber string, amount decimal.Decimal) error {
	if !session.Valid() {
		return domain.ErrNotLoggedIn
	}

	body, err := json.Marshal(transferRequest{
		SenderAccountID:     string(senderID),
		RecipientBankNumber: recipientBankNumber,
		Amount:              json.Number(amount.String()),
	})
	if err != nil {
		return fmt.Errorf("encode transfer request: %w", err)
	}

	data, status, err := c.do(ctx, http.MethodPost, "/api/transfer", session.Token, body)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%w: status %d", domain.ErrSessionExpired, status)
	}
	if status != http.StatusOK {
		return fmt.Errorf("transfer: status %d: %s", status, trimmedBody(data))
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	request.Header.Set("User-Agent", "pocket/bank-client")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, 0, fmt.Errorf("perform request: %w", err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	return data, response.StatusCode, nil
}

func accountsFromPayload(cards []cardPayload) []domain.Account {
	accounts := make([]domain.Account, 0, len(cards))
	for _, card := range cards {
		accounts = append(accounts, domain.Account{
			ID:          domain.AccountID(card.ID.String()),
			AccountName: card.AccountName,
			Balance:     card.Balance,
		})
	}

	return accounts
}

func trimmedBody(data []byte) string {
	return strings.TrimSpace(string(data))
}
