package domain

import "github.com/shopspring/decimal"

type AccountID string

// Account is a bank account ("card") as the remote service reports it. The
// balance is server-authoritative.
type Account struct {
	ID          AccountID
	AccountName string
	Balance     decimal.Decimal
}

// TotalBalance sums the balances; duplicate IDs are summed as-is.
func TotalBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, account := range accounts {
		total = total.Add(account.Balance)
	}

	return total
}

// FindAccount returns the first account with the given ID.
func FindAccount(accounts []Account, id AccountID) (Account, bool) {
	for _, account := range accounts {
		if account.ID == id {
			return account, true
		}
	}

	return Account{}, false
}
