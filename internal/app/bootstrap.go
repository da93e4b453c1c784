package app

import (
	"log/slog"
	"os"
	"time"

	"okx_bridge/internal/domain"
	"okx_bridge/internal/execution"
	"okx_bridge/internal/infra"
	"okx_bridge/internal/infra/okx"
	"okx_bridge/internal/infra/storage"
	"okx_bridge/internal/service"
	"okx_bridge/internal/webhook"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config   *infra.Config
	Storage  *storage.Storage
	Exchange *okx.Client
	Cache    *service.InstrumentCache
	Executor *execution.Executor
	Server   *webhook.Server
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize wires the whole pipeline: config, logger, storage, exchange
// client, metadata cache, executor and webhook server.
func (b *Bootstrap) Initialize() error {
	// 1. Load Config (missing credentials fail here, before anything runs)
	cfgPath := os.Getenv("BRIDGE_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}
	cfg, err := infra.LoadConfig(cfgPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("🚀 Bootstrapping OKX bridge...",
		slog.String("name", cfg.App.Name),
		slog.String("version", cfg.App.Version),
	)

	// 3. Snapshot storage. Optional: a broken DB degrades to a cold cache,
	// it does not block startup.
	var snapshots domain.SnapshotStore
	dbPath := cfg.Cache.DBPath
	if dbPath == "" {
		dbPath = "data/bridge.db"
	}
	store, err := storage.NewStorage(dbPath)
	if err != nil {
		slog.Warn("snapshot storage unavailable, starting with a cold cache", slog.Any("error", err))
	} else {
		b.Storage = store
		snapshots = store
		slog.Info("✅ Snapshot storage ready", slog.String("path", dbPath))
	}

	// 4. Exchange client + metadata cache
	b.Exchange = okx.NewClient(cfg)
	ttl := time.Duration(cfg.Cache.TTLMin) * time.Minute
	b.Cache = service.NewInstrumentCache(b.Exchange, snapshots, ttl)

	// 5. Executor + webhook server
	b.Executor = execution.NewExecutor(cfg.Webhook.Secret, b.Cache, b.Exchange)
	b.Server = webhook.NewServer(cfg.Server.Addr, b.Executor)
	slog.Info("✅ Execution pipeline ready", slog.String("addr", cfg.Server.Addr))

	return nil
}
