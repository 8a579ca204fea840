package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pocketbank/pocketbank-cli/internal/domain"
	"github.com/pocketbank/pocketbank-cli/internal/logging"
	"github.com/pocketbank/pocketbank-cli/internal/ports"
)

// SessionService persists the login session in the key/value cache.
type SessionService struct {
	cache ports.KeyValueStore
	log   *logrus.Logger
}

func NewSessionService(cache ports.KeyValueStore, log *logrus.Logger) *SessionService {
	if log == nil {
		log = logging.Discard()
	}

	return &SessionService{cache: cache, log: log}
}

// Load reads the persisted session. A missing token or userId means the user
// is not logged in.
func (s *SessionService) Load(ctx context.Context) (domain.Session, error) {
	token, err := s.cache.Get(ctx, KeyToken)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return domain.Session{}, domain.ErrNotLoggedIn
		}
		return domain.Session{}, fmt.Errorf("load session token: %w", err)
	}

	userID, err := s.cache.Get(ctx, KeyUserID)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return domain.Session{}, domain.ErrNotLoggedIn
		}
		return domain.Session{}, fmt.Errorf("load session user id: %w", err)
	}

	session := domain.Session{Token: token, UserID: userID}
	if !session.Valid() {
		return domain.Session{}, domain.ErrNotLoggedIn
	}

	// bankNumber is display-only.
	bankNumber, err := s.cache.Get(ctx, KeyBankNumber)
	if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		return domain.Session{}, fmt.Errorf("load session bank number: %w", err)
	}
	session.BankNumber = bankNumber

	return session, nil
}

// Save persists the session and the card list returned by login.
func (s *SessionService) Save(ctx context.Context, session domain.Session, cards []domain.Account) error {
	if !session.Valid() {
		return fmt.Errorf("save session: missing token or user id")
	}

	encodedCards, err := encodeCards(cards)
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}

	entries := []struct {
		key   string
		value string
	}{
		{KeyToken, session.Token},
		{KeyUserID, session.UserID},
		{KeyBankNumber, session.BankNumber},
		{KeyCards, encodedCards},
	}
	for _, entry := range entries {
		if err := s.cache.Set(ctx, entry.key, entry.value); err != nil {
			return fmt.Errorf("save session key %q: %w", entry.key, err)
		}
	}

	return nil
}

// Clear removes every session key, the active-account snapshot included.
func (s *SessionService) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyToken, KeyUserID, KeyBankNumber, KeyCards, KeyActiveCard} {
		if err := s.cache.Remove(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("clear session key %q: %w", key, err))
		}
	}

	return errors.Join(errs...)
}
