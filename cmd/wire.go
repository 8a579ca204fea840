package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	bankadapter "github.com/pocketbank/pocketbank-cli/internal/adapters/bank"
	"github.com/pocketbank/pocketbank-cli/internal/adapters/statecache"
	"github.com/pocketbank/pocketbank-cli/internal/application"
	"github.com/pocketbank/pocketbank-cli/internal/events"
	"github.com/pocketbank/pocketbank-cli/internal/logging"
	"github.com/pocketbank/pocketbank-cli/internal/ports"
)

type app struct {
	sessions *application.SessionService
	active   *application.ActiveAccountService
	bank     ports.BankService
	bus      *events.Bus
	log      *logrus.Logger
	now      func() time.Time
}

const defaultAPIBaseURL = "http://localhost:5000"

func wireApp() (*app, error) {
	log := logging.Setup()

	cfg := viper.New()
	cfg.SetDefault("api.base_url", defaultAPIBaseURL)

	store, err := statecache.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire state cache: %w", err)
	}

	// POCKETBANK_API_URL beats the config file.
	bank := bankadapter.NewClient(
		envOrDefault("POCKETBANK_API_URL", cfg.GetString("api.base_url")),
		&http.Client{Timeout: 30 * time.Second},
	)

	bus := events.NewBus(log)

	return &app{
		sessions: application.NewSessionService(store, log),
		active:   application.NewActiveAccountService(store, bank, bus, log),
		bank:     bank,
		bus:      bus,
		log:      log,
		now:      time.Now,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
