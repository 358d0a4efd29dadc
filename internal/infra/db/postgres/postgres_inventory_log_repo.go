package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
)

var _ repository.InventoryLogRepository = (*inventoryLogRepo)(nil)

type inventoryLogRepo struct {
	pool *pgxpool.Pool
}

func NewInventoryLogRepo(pool *pgxpool.Pool) repository.InventoryLogRepository {
	return &inventoryLogRepo{pool: pool}
}

func (r *inventoryLogRepo) Append(ctx context.Context, tx repository.Tx, entry *model.InventoryLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	const q = `
INSERT INTO inventory_logs (id, product_id, change_amount, reason, performed_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		entry.ID, entry.ProductID, entry.ChangeAmount, entry.Reason, entry.PerformedBy, entry.CreatedAt,
	)
	return err
}

func (r *inventoryLogRepo) History(ctx context.Context, tx repository.Tx, productID string, offset, limit int) ([]*model.InventoryHistoryEntry, int, error) {
	const countQ = `SELECT COUNT(*) FROM inventory_logs WHERE product_id = $1;`
	row, err := pickRow(ctx, r.pool, tx, countQ, productID)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, domain.ErrReadDatabaseRow
	}

	const q = `
SELECT l.id, l.product_id, l.change_amount, l.reason, l.performed_by, l.created_at,
       COALESCE(p.full_name, '')
  FROM inventory_logs l
  LEFT JOIN profiles p ON p.id::text = l.performed_by
 WHERE l.product_id = $1
 ORDER BY l.created_at DESC, l.id DESC
 OFFSET $2 LIMIT $3;
`
	rows, err := pickRows(ctx, r.pool, tx, q, productID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.InventoryHistoryEntry
	for rows.Next() {
		var e model.InventoryHistoryEntry
		err := rows.Scan(
			&e.ID, &e.ProductID, &e.ChangeAmount, &e.Reason, &e.PerformedBy, &e.CreatedAt,
			&e.PerformedByName,
		)
		if err != nil {
			return nil, 0, domain.ErrReadDatabaseRow
		}
		out = append(out, &e)
	}
	return out, total, rows.Err()
}

func (r *inventoryLogRepo) SumByProduct(ctx context.Context, tx repository.Tx, productID string) (int, error) {
	const q = `SELECT COALESCE(SUM(change_amount), 0) FROM inventory_logs WHERE product_id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, productID)
	if err != nil {
		return 0, err
	}
	var sum int
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}
