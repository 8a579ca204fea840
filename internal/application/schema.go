package application

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank-cli/internal/domain"
)

// cardSchema is the JSON shape stored under the cards and activeCard keys:
// {"id", "accountName", "balance"}.
type cardSchema struct {
	ID          string          `json:"id"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
}

func toCardSchema(account domain.Account) cardSchema {
	return cardSchema{
		ID:          string(account.ID),
		AccountName: account.AccountName,
		Balance:     account.Balance,
	}
}

func fromCardSchema(card cardSchema) domain.Account {
	return domain.Account{
		ID:          domain.AccountID(card.ID),
		AccountName: card.AccountName,
		Balance:     card.Balance,
	}
}

func encodeCard(account domain.Account) (string, error) {
	data, err := json.Marshal(toCardSchema(account))
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func decodeCard(raw string) (domain.Account, error) {
	var card cardSchema
	if err := json.Unmarshal([]byte(raw), &card); err != nil {
		return domain.Account{}, err
	}

	return fromCardSchema(card), nil
}

func encodeCards(accounts []domain.Account) (string, error) {
	cards := make([]cardSchema, 0, len(accounts))
	for _, account := range accounts {
		cards = append(cards, toCardSchema(account))
	}

	data, err := json.Marshal(cards)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
