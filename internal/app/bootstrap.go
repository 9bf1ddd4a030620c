package app

import (
	"log/slog"

	"treasury_go/internal/infra"
	"treasury_go/internal/infra/storage"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
	Metrics *infra.Metrics
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization: env, config, logging,
// storage and metrics. Quote seeding happens later, once services exist.
func (b *Bootstrap) Initialize(configPath string) error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// Broadcast payloads carry prices as JSON numbers, matching the
	// documented wire contract.
	decimal.MarshalJSONWithoutQuotes = true

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("database initialized", slog.String("path", cfg.Database.Path))

	b.Metrics = infra.NewMetrics()

	slog.Info("bootstrap complete",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
	)
	return nil
}
