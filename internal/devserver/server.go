// Package devserver is an in-memory fixture implementation of the bank API,
// used for offline development and as the backend for CLI tests.
package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/pocketbank/pocketbank-cli/internal/domain"
	"github.com/pocketbank/pocketbank-cli/internal/logging"
	"github.com/pocketbank/pocketbank-cli/internal/ports"
)

type user struct {
	id           string
	bankNumber   string
	passwordHash []byte
	accounts     []domain.Account
}

type Server struct {
	log    *logrus.Logger
	clock  ports.Clock
	router *mux.Router

	mu     sync.Mutex
	users  map[string]*user // keyed by user id
	tokens map[string]string
}

func New(log *logrus.Logger, clock ports.Clock) *Server {
	if log == nil {
		log = logging.Discard()
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	s := &Server{
		log:    log,
		clock:  clock,
		users:  map[string]*user{},
		tokens: map[string]string{},
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/users/login", s.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/api/users/{userId}", s.handleGetUser).Methods(http.MethodGet)
	router.HandleFunc("/api/transfer", s.handleTransfer).Methods(http.MethodPost)
	router.Use(s.logRequests)
	s.router = router

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// AddUser registers a user with a bcrypt-hashed password.
func (s *Server) AddUser(bankNumber, password string, accounts []domain.Account) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("%d", len(s.users)+1)
	s.users[id] = &user{
		id:           id,
		bankNumber:   bankNumber,
		passwordHash: hash,
		accounts:     append([]domain.Account(nil), accounts...),
	}

	return nil
}

// SeedDemo loads the demo user: bank number 12345, password hunter2,
// two cards.
func (s *Server) SeedDemo() error {
	return s.AddUser("12345", "hunter2", []domain.Account{
		{ID: "1", AccountName: "Everyday Checking", Balance: decimal.NewFromInt(100)},
		{ID: "2", AccountName: "Rainy Day Savings", Balance: decimal.NewFromInt(50)},
	})
}

type cardPayload struct {
	ID          string          `json:"id"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
}

func cardsPayload(accounts []domain.Account) []cardPayload {
	cards := make([]cardPayload, 0, len(accounts))
	for _, account := range accounts {
		cards = append(cards, cardPayload{
			ID:          string(account.ID),
			AccountName: account.AccountName,
			Balance:     account.Balance,
		})
	}

	return cards
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BankNumber string `json:"bankNumber"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account := s.findByBankNumberLocked(req.BankNumber)
	if account == nil || bcrypt.CompareHashAndPassword(account.passwordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()
	s.tokens[token] = account.id

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{
			"id":         account.id,
			"bankNumber": account.bankNumber,
		},
		"cards": cardsPayload(account.accounts),
		"token": token,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	s.mu.Lock()
	defer s.mu.Unlock()

	caller := s.authenticateLocked(r)
	if caller == nil || caller.id != userID {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"bankAccounts": cardsPayload(caller.accounts),
		},
	})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderAccountID     string          `json:"senderAccountId"`
		RecipientBankNumber string          `json:"recipientBankNumber"`
		Amount              decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.SenderAccountID == "" || req.RecipientBankNumber == "" {
		writeError(w, http.StatusBadRequest, "senderAccountId and recipientBankNumber are required")
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	caller := s.authenticateLocked(r)
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	senderIdx := -1
	for i, account := range caller.accounts {
		if string(account.ID) == req.SenderAccountID {
			senderIdx = i
			break
		}
	}
	if senderIdx < 0 {
		writeError(w, http.StatusNotFound, "sender account not found")
		return
	}
	if caller.accounts[senderIdx].Balance.LessThan(req.Amount) {
		writeError(w, http.StatusBadRequest, "insufficient funds")
		return
	}

	recipient := s.findByBankNumberLocked(req.RecipientBankNumber)
	if recipient == nil || len(recipient.accounts) == 0 {
		writeError(w, http.StatusNotFound, "recipient not found")
		return
	}

	caller.accounts[senderIdx].Balance = caller.accounts[senderIdx].Balance.Sub(req.Amount)
	recipient.accounts[0].Balance = recipient.accounts[0].Balance.Add(req.Amount)

	s.log.WithFields(logrus.Fields{
		"sender":    req.SenderAccountID,
		"recipient": req.RecipientBankNumber,
		"amount":    req.Amount.String(),
		"at":        s.clock.Now(),
	}).Info("transfer executed")

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) findByBankNumberLocked(bankNumber string) *user {
	for _, u := range s.users {
		if u.bankNumber == bankNumber {
			return u
		}
	}

	return nil
}

func (s *Server) authenticateLocked(r *http.Request) *user {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return nil
	}

	userID, ok := s.tokens[token]
	if !ok {
		return nil
	}

	return s.users[userID]
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Info("request")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
