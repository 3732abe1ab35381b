package ports

import (
	"context"

	"github.com/bnema/notesgit/internal/domain"
)

// LedgerStore is the remote file backend holding the ledger.
type LedgerStore interface {
	// Find returns the handles of all non-trashed objects named exactly name,
	// in backend order.
	Find(ctx context.Context, name string) ([]domain.LedgerHandle, error)
	// Download returns the full content. A missing object yields
	// domain.ErrLedgerNotFound.
	Download(ctx context.Context, handle domain.LedgerHandle) (string, error)
	Create(ctx context.Context, name string, content string) (domain.LedgerHandle, error)
	Replace(ctx context.Context, handle domain.LedgerHandle, content string) error
}
