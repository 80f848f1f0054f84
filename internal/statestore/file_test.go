package statestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msardana94/momentumbot/internal/portfolio"
)

func TestFileStore_FirstRunDefaults(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "portfolio.json"), 25000)

	p, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, p.Cash.Equal(decimal.NewFromInt(25000)))
	assert.Empty(t, p.Holdings)
	assert.Equal(t, int64(0), p.Cursor)
}

func TestFileStore_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "portfolio.json")
	s := NewFileStore(path, 25000)
	ctx := context.Background()

	p := portfolio.New(25000).WithPosition("VEDL", 18, false).WithCursor(42)
	require.NoError(t, s.Save(ctx, p))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.Holdings, got.Holdings)
	assert.Equal(t, int64(42), got.Cursor)
	assert.True(t, p.Cash.Equal(got.Cash))
}

func TestFileStore_SaveOverwritesWholeRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	s := NewFileStore(path, 25000)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, portfolio.New(25000).WithPosition("AAA", 1, false)))
	require.NoError(t, s.Save(ctx, portfolio.New(25000).WithPosition("BBB", 2, false)))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Holdings, 1)
	assert.Equal(t, "BBB", got.Holdings[0].Symbol)
}

func TestNew_BackendSelection(t *testing.T) {
	dir := t.TempDir()

	s, err := New(stateConfig("file", filepath.Join(dir, "p.json")))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = New(stateConfig("sqlite", filepath.Join(dir, "p.db")))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	_, err = New(stateConfig("redis", ""))
	assert.Error(t, err)
}
