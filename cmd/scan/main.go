package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/msardana94/momentumbot/internal/config"
	"github.com/msardana94/momentumbot/internal/journal"
	"github.com/msardana94/momentumbot/internal/marketdata"
	"github.com/msardana94/momentumbot/internal/observ"
	"github.com/msardana94/momentumbot/internal/run"
	"github.com/msardana94/momentumbot/internal/statestore"
	"github.com/msardana94/momentumbot/internal/telegram"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfgPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	envPath := flag.String("env", ".env", "optional dotenv file for local secrets")
	flag.Parse()

	// local dev convenience; in CI the secrets are injected directly
	_ = godotenv.Load(*envPath)

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			observ.Log("config_load_failed", map[string]any{"path": *cfgPath, "err": err.Error()})
			return run.ExitStateStore
		}
	}
	if err := cfg.ReadSecrets(); err != nil {
		observ.Log("config_secrets_missing", map[string]any{"err": err.Error()})
		return run.ExitCommandChannel
	}

	runID := uuid.NewString()
	observ.SetRunID(runID)
	observ.Log("run_start", map[string]any{"state_backend": cfg.State.Backend})

	store, err := statestore.New(cfg.State)
	if err != nil {
		observ.Log("state_store_init_failed", map[string]any{"err": err.Error()})
		return run.ExitStateStore
	}
	defer store.Close()

	runner := &run.Runner{
		Cfg:     cfg,
		Store:   store,
		Channel: telegram.NewClient(cfg.Telegram),
		Data:    marketdata.NewChartClient(cfg.MarketData),
		RunID:   runID,
	}

	if jnl, err := journal.New(cfg.Journal.Path); err != nil {
		observ.Log("journal_init_failed", map[string]any{"err": err.Error()})
	} else {
		runner.Journal = jnl
	}

	if cfg.State.Kafka.Enabled {
		pub := statestore.NewPublisher(cfg.State.Kafka.Brokers, cfg.State.Kafka.Topic)
		defer pub.Close()
		runner.Publisher = pub
	}

	return runner.Run(context.Background())
}
