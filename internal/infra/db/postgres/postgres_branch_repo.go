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

var _ repository.BranchRepository = (*branchRepo)(nil)

type branchRepo struct {
	pool *pgxpool.Pool
}

func NewBranchRepo(pool *pgxpool.Pool) repository.BranchRepository {
	return &branchRepo{pool: pool}
}

func (r *branchRepo) Save(ctx context.Context, tx repository.Tx, b *model.Branch) error {
	b.UpdatedAt = time.Now()
	const q = `
INSERT INTO branches (id, code, name, location, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  location = EXCLUDED.location,
  is_active = EXCLUDED.is_active,
  updated_at = EXCLUDED.updated_at;
`
	// code is absent from the UPDATE set: the display identifier is immutable.
	_, err := execSQL(ctx, r.pool, tx, q,
		b.ID, b.Code, b.Name, b.Location, b.IsActive, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *branchRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Branch, error) {
	const q = `
SELECT id, code, name, location, is_active, created_at, updated_at
  FROM branches
 WHERE id = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var b model.Branch
	err = row.Scan(&b.ID, &b.Code, &b.Name, &b.Location, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &b, nil
}

// ListSummaries joins per-branch collector counts and the newest order placed
// by any of the branch's collectors.
func (r *branchRepo) ListSummaries(ctx context.Context, tx repository.Tx) ([]*model.BranchSummary, error) {
	const q = `
SELECT b.id, b.code, b.name, b.location, b.is_active, b.created_at, b.updated_at,
       COUNT(DISTINCT p.id) AS collector_count,
       MAX(o.created_at)    AS last_order_at
  FROM branches b
  LEFT JOIN profiles p ON p.branch_id = b.id AND p.role = 'collector'
  LEFT JOIN orders o   ON o.collector_id = p.id
 GROUP BY b.id
 ORDER BY b.name;
`
	rows, err := pickRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.BranchSummary
	for rows.Next() {
		var s model.BranchSummary
		err := rows.Scan(
			&s.ID, &s.Code, &s.Name, &s.Location, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
			&s.CollectorCount, &s.LastOrderAt,
		)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *branchRepo) CodeExists(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM branches WHERE code = $1);`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func (r *branchRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM branches WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
