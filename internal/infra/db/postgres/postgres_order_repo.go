package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) repository.OrderRepository {
	return &orderRepo{pool: pool}
}

// Insert writes the order row and every item row. Callers hold the
// coordinating transaction; a failure on any insert aborts the whole order.
func (r *orderRepo) Insert(ctx context.Context, tx repository.Tx, o *model.Order) error {
	const orderQ = `
INSERT INTO orders (id, order_number, collector_id, store_id, status, subtotal, tax_amount, total_amount, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`
	_, err := execSQL(ctx, r.pool, tx, orderQ,
		o.ID, o.OrderNumber, o.CollectorID, o.StoreID, o.Status,
		o.Subtotal, o.TaxAmount, o.TotalAmount, o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}

	const itemQ = `
INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, subtotal)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	for i := range o.Items {
		item := &o.Items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.OrderID = o.ID
		_, err := execSQL(ctx, r.pool, tx, itemQ,
			item.ID, item.OrderID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.Subtotal,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

const orderColumns = `o.id, o.order_number, o.collector_id, o.store_id, o.status, o.subtotal, o.tax_amount, o.total_amount, o.notes, o.created_at, o.updated_at,
       COALESCE(c.full_name, ''), COALESCE(s.name, '')`

const orderJoins = `
  FROM orders o
  LEFT JOIN profiles c ON c.id = o.collector_id
  LEFT JOIN stores s   ON s.id = o.store_id`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CollectorID, &o.StoreID, &o.Status,
		&o.Subtotal, &o.TaxAmount, &o.TotalAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		&o.CollectorName, &o.StoreName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &o, nil
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + orderJoins + ` WHERE o.id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, tx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepo) loadItems(ctx context.Context, tx repository.Tx, o *model.Order) error {
	const q = `
SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
  FROM order_items
 WHERE order_id = $1
 ORDER BY id;
`
	rows, err := pickRows(ctx, r.pool, tx, q, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it model.OrderItem
		err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Subtotal)
		if err != nil {
			return domain.ErrReadDatabaseRow
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (r *orderRepo) List(ctx context.Context, tx repository.Tx, filter model.OrderFilter, offset, limit int) ([]*model.Order, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if filter.CollectorID != "" {
		args = append(args, filter.CollectorID)
		where += ` AND o.collector_id = $` + strconv.Itoa(len(args))
	}
	if filter.StoreID != "" {
		args = append(args, filter.StoreID)
		where += ` AND o.store_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND o.status = $` + strconv.Itoa(len(args))
	}

	countQ := `SELECT COUNT(*) FROM orders o` + where + `;`
	row, err := pickRow(ctx, r.pool, tx, countQ, args...)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, domain.ErrReadDatabaseRow
	}

	args = append(args, offset)
	offArg := strconv.Itoa(len(args))
	args = append(args, limit)
	limArg := strconv.Itoa(len(args))

	// Newest first; id breaks creation-time ties for stable pagination.
	q := `SELECT ` + orderColumns + orderJoins + where +
		` ORDER BY o.created_at DESC, o.id DESC OFFSET $` + offArg + ` LIMIT $` + limArg + `;`

	rows, err := pickRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, o := range out {
		if err := r.loadItems(ctx, tx, o); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// UpdateStatus is a compare-and-set on the status column. A concurrent
// transition blocks on the row lock, re-evaluates the WHERE clause and
// affects zero rows, so only one of two racing transitions from the same
// state can win.
func (r *orderRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, from, to model.OrderStatus) error {
	const q = `UPDATE orders SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, from, to, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		const existsQ = `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1);`
		row, err := pickRow(ctx, r.pool, tx, existsQ, id)
		if err != nil {
			return err
		}
		var exists bool
		if err := row.Scan(&exists); err != nil {
			return domain.ErrReadDatabaseRow
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}
