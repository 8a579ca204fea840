package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank-cli/internal/domain"
)

// BankService is the remote account API. Every call is a single attempt;
// retries are the caller's policy.
type BankService interface {
	Login(ctx context.Context, bankNumber, password string) (domain.Session, []domain.Account, error)
	FetchAccounts(ctx context.Context, session domain.Session) ([]domain.Account, error)
	Transfer(ctx context.Context, session domain.Session, senderID domain.AccountID, recipientBankNumber string, amount decimal.Decimal) error
}
