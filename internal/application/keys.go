package application

// Persistent cache keys. cards and activeCard hold JSON-encoded payloads.
const (
	KeyToken      = "token"
	KeyUserID     = "userId"
	KeyBankNumber = "bankNumber"
	KeyCards      = "cards"
	KeyActiveCard = "activeCard"
)
