package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.ActivationCodeRepository = (*activationCodeRepo)(nil)

type activationCodeRepo struct {
	pool *pgxpool.Pool
}

func NewActivationCodeRepo(pool *pgxpool.Pool) repository.ActivationCodeRepository {
	return &activationCodeRepo{pool: pool}
}

func (r *activationCodeRepo) Insert(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	const q = `
INSERT INTO activation_codes (id, user_id, code, is_used, expires_at, created_at, used_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		code.ID, code.UserID, code.Code, code.IsUsed, code.ExpiresAt, code.CreatedAt, code.UsedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByCodeForUpdate locks the single unused row matching code. The FOR
// UPDATE lock serializes concurrent consumption attempts of the same code.
func (r *activationCodeRepo) FindByCodeForUpdate(ctx context.Context, tx repository.Tx, code string) (*model.ActivationCode, error) {
	const q = `
SELECT id, user_id, code, is_used, expires_at, created_at, used_at
  FROM activation_codes
 WHERE code = $1 AND is_used = FALSE
   FOR UPDATE;
`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	var ac model.ActivationCode
	err = row.Scan(&ac.ID, &ac.UserID, &ac.Code, &ac.IsUsed, &ac.ExpiresAt, &ac.CreatedAt, &ac.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &ac, nil
}

// MarkUsed flips is_used under an is_used = FALSE guard; the affected-row
// count is the mechanism of truth for single-use consumption.
func (r *activationCodeRepo) MarkUsed(ctx context.Context, tx repository.Tx, id string, usedAt time.Time) error {
	const q = `
UPDATE activation_codes
   SET is_used = TRUE, used_at = $2
 WHERE id = $1 AND is_used = FALSE;
`
	tag, err := execSQL(ctx, r.pool, tx, q, id, usedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidCode
	}
	return nil
}

func (r *activationCodeRepo) InvalidateAllForUser(ctx context.Context, tx repository.Tx, userID string, usedAt time.Time) error {
	const q = `
UPDATE activation_codes
   SET is_used = TRUE, used_at = $2
 WHERE user_id = $1 AND is_used = FALSE;
`
	_, err := execSQL(ctx, r.pool, tx, q, userID, usedAt)
	return err
}

func (r *activationCodeRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.ActivationCode, error) {
	const q = `
SELECT id, user_id, code, is_used, expires_at, created_at, used_at
  FROM activation_codes
 WHERE user_id = $1 AND is_used = FALSE
 ORDER BY created_at DESC
 LIMIT 1;
`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	var ac model.ActivationCode
	err = row.Scan(&ac.ID, &ac.UserID, &ac.Code, &ac.IsUsed, &ac.ExpiresAt, &ac.CreatedAt, &ac.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &ac, nil
}
