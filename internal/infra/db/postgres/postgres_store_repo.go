package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
)

var _ repository.StoreRepository = (*storeRepo)(nil)

type storeRepo struct {
	pool *pgxpool.Pool
}

func NewStoreRepo(pool *pgxpool.Pool) repository.StoreRepository {
	return &storeRepo{pool: pool}
}

func scanStore(row pgx.Row) (*model.Store, error) {
	var s model.Store
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &s, nil
}

func (r *storeRepo) Save(ctx context.Context, tx repository.Tx, s *model.Store) error {
	s.UpdatedAt = time.Now()
	const q = `
INSERT INTO stores (id, name, address, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  address = EXCLUDED.address,
  is_active = EXCLUDED.is_active,
  updated_at = EXCLUDED.updated_at;
`
	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.Name, s.Address, s.IsActive, s.CreatedAt, s.UpdatedAt)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *storeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Store, error) {
	const q = `SELECT id, name, address, is_active, created_at, updated_at FROM stores WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanStore(row)
}

func (r *storeRepo) FindByName(ctx context.Context, tx repository.Tx, name string) (*model.Store, error) {
	const q = `
SELECT id, name, address, is_active, created_at, updated_at
  FROM stores
 WHERE name = $1
 ORDER BY created_at
 LIMIT 1;
`
	row, err := pickRow(ctx, r.pool, tx, q, name)
	if err != nil {
		return nil, err
	}
	return scanStore(row)
}

func (r *storeRepo) List(ctx context.Context, tx repository.Tx, activeOnly bool) ([]*model.Store, error) {
	q := `SELECT id, name, address, is_active, created_at, updated_at FROM stores`
	if activeOnly {
		q += ` WHERE is_active = TRUE`
	}
	q += ` ORDER BY name;`

	rows, err := pickRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
