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

var _ repository.ProfileRepository = (*profileRepo)(nil)

type profileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepo{pool: pool}
}

const profileColumns = `id, email, full_name, role, phone, branch_id, display_id, is_active, device_connected_at, last_seen_at, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.Role, &p.Phone, &p.BranchID, &p.DisplayID,
		&p.IsActive, &p.DeviceConnectedAt, &p.LastSeenAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}

func (r *profileRepo) Save(ctx context.Context, tx repository.Tx, p *model.Profile) error {
	p.UpdatedAt = time.Now()
	const q = `
INSERT INTO profiles (` + profileColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  role = EXCLUDED.role,
  phone = EXCLUDED.phone,
  branch_id = EXCLUDED.branch_id,
  is_active = EXCLUDED.is_active,
  updated_at = EXCLUDED.updated_at;
`
	// display_id is deliberately absent from the UPDATE set: once assigned it
	// never changes.
	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.Email, p.FullName, p.Role, p.Phone, p.BranchID, p.DisplayID,
		p.IsActive, p.DeviceConnectedAt, p.LastSeenAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *profileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanProfile(row)
}

func (r *profileRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	return scanProfile(row)
}

func (r *profileRepo) List(ctx context.Context, tx repository.Tx, filter repository.ProfileFilter) ([]*model.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE 1=1`
	args := []interface{}{}
	if filter.Role != "" {
		args = append(args, filter.Role)
		q += ` AND role = $` + strconv.Itoa(len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		q += ` AND is_active = $` + strconv.Itoa(len(args))
	}
	if filter.BranchID != "" {
		args = append(args, filter.BranchID)
		q += ` AND branch_id = $` + strconv.Itoa(len(args))
	}
	q += ` ORDER BY created_at DESC;`

	rows, err := pickRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profileRepo) CountByBranch(ctx context.Context, tx repository.Tx, branchID string) (int, error) {
	const q = `SELECT COUNT(*) FROM profiles WHERE branch_id = $1 AND role = 'collector';`
	row, err := pickRow(ctx, r.pool, tx, q, branchID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *profileRepo) DisplayIDExists(ctx context.Context, tx repository.Tx, displayID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM profiles WHERE display_id = $1);`
	row, err := pickRow(ctx, r.pool, tx, q, displayID)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func (r *profileRepo) TouchLastSeen(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
	const q = `UPDATE profiles SET last_seen_at = $2 WHERE id = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, at)
	return err
}

func (r *profileRepo) SetDeviceConnected(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
	const q = `UPDATE profiles SET device_connected_at = $2, updated_at = $2 WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
