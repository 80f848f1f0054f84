package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/msardana94/momentumbot/internal/portfolio"
)

// FileStore keeps the portfolio as one pretty-printed JSON file. Writes go
// through a temp file and rename so a crash never leaves a torn record.
type FileStore struct {
	path        string
	initialCash float64
}

func NewFileStore(path string, initialCash float64) *FileStore {
	return &FileStore{path: path, initialCash: initialCash}
}

func (s *FileStore) Load(_ context.Context) (portfolio.Portfolio, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return portfolio.New(s.initialCash), nil
		}
		return portfolio.New(s.initialCash), fmt.Errorf("read portfolio state: %w", err)
	}
	var p portfolio.Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return portfolio.New(s.initialCash), fmt.Errorf("unmarshal portfolio state: %w", err)
	}
	if p.Holdings == nil {
		p.Holdings = []portfolio.Position{}
	}
	return p, nil
}

func (s *FileStore) Save(_ context.Context, p portfolio.Portfolio) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal portfolio state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("write temp portfolio state: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("rename portfolio state: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
