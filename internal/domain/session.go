package domain

// Session holds the persisted credentials. Absence of either Token or UserID
// means "not logged in".
type Session struct {
	Token      string
	UserID     string
	BankNumber string
}

func (s Session) Valid() bool {
	return s.Token != "" && s.UserID != ""
}
