package repository

import (
	"context"

	"fieldsales-backend/internal/domain/model"
)

type InventoryLogRepository interface {
	// Append inserts one ledger row. Entries are never updated or deleted.
	Append(ctx context.Context, tx Tx, entry *model.InventoryLogEntry) error
	// History returns entries for a product, newest first, joined with the
	// actor's display name. Returns the page plus the total row count.
	History(ctx context.Context, tx Tx, productID string, offset, limit int) ([]*model.InventoryHistoryEntry, int, error)
	// SumByProduct returns the sum of all change amounts for a product.
	// Used by reconciliation checks against the authoritative balance.
	SumByProduct(ctx context.Context, tx Tx, productID string) (int, error)
}
