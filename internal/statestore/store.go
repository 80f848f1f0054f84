package statestore

import (
	"context"
	"fmt"

	"github.com/msardana94/momentumbot/internal/config"
	"github.com/msardana94/momentumbot/internal/portfolio"
)

// Store persists the portfolio record. Save is a full-record overwrite.
type Store interface {
	Load(ctx context.Context) (portfolio.Portfolio, error)
	Save(ctx context.Context, p portfolio.Portfolio) error
	Close() error
}

// New builds a store from configuration.
func New(cfg config.State) (Store, error) {
	switch cfg.Backend {
	case "file", "":
		return NewFileStore(cfg.Path, cfg.InitialCash), nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path, cfg.InitialCash)
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}
