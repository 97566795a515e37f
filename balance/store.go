// Package balance persists the account's cash as a single durable value.
package balance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Store holds one cash amount.
//
// Read never fails: when the stored value is missing or cannot be parsed
// it returns the store's default (the starting capital). Write replaces
// the whole value; a later Read sees either the old or the new value,
// never a mix.
type Store interface {
	Read(ctx context.Context) decimal.Decimal
	Write(ctx context.Context, cash decimal.Decimal) error
	Close() error
}

const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Open returns the backend named by kind.
func Open(kind, path string, def decimal.Decimal, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch kind {
	case KindFile, "":
		return NewFile(path, def, logger), nil
	case KindSQLite:
		return NewSQLite(path, def, logger)
	default:
		return nil, fmt.Errorf("unknown balance store %q", kind)
	}
}
