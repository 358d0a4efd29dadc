package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) repository.ProductRepository {
	return &productRepo{pool: pool}
}

const productColumns = `id, name, description, category_id, unit_price, stock_quantity, image_url, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.UnitPrice,
		&p.StockQuantity, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}

func (r *productRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	p.UpdatedAt = time.Now()
	const q = `
INSERT INTO products (` + productColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  description = EXCLUDED.description,
  category_id = EXCLUDED.category_id,
  unit_price = EXCLUDED.unit_price,
  image_url = EXCLUDED.image_url,
  is_active = EXCLUDED.is_active,
  updated_at = EXCLUDED.updated_at;
`
	// stock_quantity is absent from the UPDATE set: the balance moves only
	// through UpdateStock, driven by the inventory ledger.
	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.Name, p.Description, p.CategoryID, p.UnitPrice,
		p.StockQuantity, p.ImageURL, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *productRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanProduct(row)
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanProduct(row)
}

func (r *productRepo) UpdateStock(ctx context.Context, tx repository.Tx, id string, newQuantity int) error {
	const q = `UPDATE products SET stock_quantity = $2, updated_at = $3 WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, newQuantity, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, tx repository.Tx, filter model.ProductFilter) ([]*model.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		q += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		q += ` AND category_id = $` + strconv.Itoa(len(args))
	}
	if filter.ActiveOnly {
		q += ` AND is_active = TRUE`
	}
	q += ` ORDER BY name;`

	rows, err := pickRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
