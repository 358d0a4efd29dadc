package model

import (
	"time"
)

// InventoryLogEntry is one append-only row of the stock ledger. The sum of
// ChangeAmount across all entries for a product, applied in creation order,
// equals Product.StockQuantity at every point in time.
type InventoryLogEntry struct {
	ID           string
	ProductID    string
	ChangeAmount int // signed delta; negative for order decrements
	Reason       string
	PerformedBy  string
	CreatedAt    time.Time
}

// InventoryHistoryEntry is a ledger row joined with the actor's display name
// for admin history views.
type InventoryHistoryEntry struct {
	InventoryLogEntry
	PerformedByName string
}
