package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/infra/logging"
)

// Compile-time check
var _ InventoryUseCase = (*inventoryUC)(nil)

// InventoryUseCase is the stock ledger: every balance change flows through
// Adjust so the sum of log entries always equals the authoritative quantity.
type InventoryUseCase interface {
	// Adjust applies a signed stock delta and appends the matching ledger
	// row in one transaction. Returns the updated product.
	Adjust(ctx context.Context, productID string, change int, reason, performedBy string) (*model.Product, error)
	// AdjustInTx applies the same delta inside a caller-owned transaction so
	// composite operations (order creation) commit or roll back as one unit.
	AdjustInTx(ctx context.Context, tx repository.Tx, productID string, change int, reason, performedBy string) (*model.Product, error)
	// History returns the ledger for a product, newest first, with actor
	// names, plus the total entry count.
	History(ctx context.Context, productID string, page, pageSize int) ([]*model.InventoryHistoryEntry, int, error)
}

type inventoryUC struct {
	products repository.ProductRepository
	logs     repository.InventoryLogRepository
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewInventoryUseCase(products repository.ProductRepository, logs repository.InventoryLogRepository, tm repository.TransactionManager, logger *zerolog.Logger) *inventoryUC {
	return &inventoryUC{products: products, logs: logs, tm: tm, log: logger}
}

func (u *inventoryUC) Adjust(ctx context.Context, productID string, change int, reason, performedBy string) (*model.Product, error) {
	defer logging.TraceDuration(u.log, "InventoryUC.Adjust")()
	if productID == "" || reason == "" {
		return nil, domain.ErrInvalidArgument
	}

	var updated *model.Product
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.AdjustInTx(ctx, tx, productID, change, reason, performedBy)
		if err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AdjustInTx performs the locked read-modify-write plus ledger append inside
// an existing transaction. The order coordinator calls this per line item so
// the decrements commit or roll back with the order itself.
//
// Negative balances are permitted here; rejecting them is a caller policy
// (the order path enforces it, manual corrections do not).
func (u *inventoryUC) AdjustInTx(ctx context.Context, tx repository.Tx, productID string, change int, reason, performedBy string) (*model.Product, error) {
	p, err := u.products.FindByIDForUpdate(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	newQty := p.StockQuantity + change
	if err := u.products.UpdateStock(ctx, tx, productID, newQty); err != nil {
		return nil, err
	}

	entry := &model.InventoryLogEntry{
		ID:           model.NewUUID(),
		ProductID:    productID,
		ChangeAmount: change,
		Reason:       reason,
		PerformedBy:  performedBy,
		CreatedAt:    time.Now(),
	}
	if err := u.logs.Append(ctx, tx, entry); err != nil {
		return nil, err
	}

	p.StockQuantity = newQty
	return p, nil
}

func (u *inventoryUC) History(ctx context.Context, productID string, page, pageSize int) ([]*model.InventoryHistoryEntry, int, error) {
	defer logging.TraceDuration(u.log, "InventoryUC.History")()
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize
	return u.logs.History(ctx, repository.NoTX, productID, offset, pageSize)
}
