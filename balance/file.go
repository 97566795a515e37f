package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

// record is the on-disk layout: {"cash": 200.5}.
type record struct {
	Cash json.Number `json:"cash"`
}

// FileStore keeps the balance in a small JSON file.
type FileStore struct {
	path   string
	def    decimal.Decimal
	logger *slog.Logger
}

func NewFile(path string, def decimal.Decimal, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, def: def, logger: logger}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Read(ctx context.Context) decimal.Decimal {
	cash, err := s.load()
	if err != nil {
		s.logger.WarnContext(ctx, "balance unavailable, using default",
			slog.String("path", s.path),
			slog.String("default", s.def.String()),
			slog.Any("error", err))
		return s.def
	}
	return cash
}

func (s *FileStore) load() (decimal.Decimal, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return decimal.Zero, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return decimal.Zero, fmt.Errorf("decode %s: %w", s.path, err)
	}
	cash, err := decimal.NewFromString(rec.Cash.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse cash %q: %w", rec.Cash, err)
	}
	return cash, nil
}

// Write replaces the file by renaming a fully written temp file over it.
func (s *FileStore) Write(ctx context.Context, cash decimal.Decimal) error {
	data, err := json.Marshal(record{Cash: json.Number(cash.String())})
	if err != nil {
		return fmt.Errorf("encode balance: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp balance: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp balance: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp balance: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp balance: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace balance: %w", err)
	}

	s.logger.DebugContext(ctx, "balance written", slog.String("path", s.path), slog.String("cash", cash.String()))
	return nil
}

func (s *FileStore) Close() error { return nil }
