package tui

import (
	"github.com/sirupsen/logrus"

	"github.com/pocketbank/pocketbank-cli/internal/application"
	"github.com/pocketbank/pocketbank-cli/internal/events"
	"github.com/pocketbank/pocketbank-cli/internal/logging"
	"github.com/pocketbank/pocketbank-cli/internal/ports"
)

// Deps carries the services the screens render from.
type Deps struct {
	Sessions *application.SessionService
	Active   *application.ActiveAccountService
	Bank     ports.BankService
	Bus      *events.Bus
	Log      *logrus.Logger
}

func (d Deps) logger() *logrus.Logger {
	if d.Log == nil {
		return logging.Discard()
	}

	return d.Log
}
