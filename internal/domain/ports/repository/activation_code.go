package repository

import (
	"context"
	"time"

	"fieldsales-backend/internal/domain/model"
)

// ActivationCodeRepository is the port for managing activation codes.
type ActivationCodeRepository interface {
	// Insert persists a fresh code. Returns domain.ErrAlreadyExists on a
	// uniqueness conflict so callers can retry with a new random draw.
	Insert(ctx context.Context, tx Tx, code *model.ActivationCode) error
	// FindByCodeForUpdate locks and returns the unused row matching code,
	// or domain.ErrNotFound. Must be called inside a transaction.
	FindByCodeForUpdate(ctx context.Context, tx Tx, code string) (*model.ActivationCode, error)
	// MarkUsed conditionally flips is_used on the row; the UPDATE carries an
	// is_used = FALSE guard and reports domain.ErrInvalidCode when no row
	// was affected, so a code can never be consumed twice.
	MarkUsed(ctx context.Context, tx Tx, id string, usedAt time.Time) error
	// InvalidateAllForUser marks every unused code for the user as used.
	InvalidateAllForUser(ctx context.Context, tx Tx, userID string, usedAt time.Time) error
	// FindActiveByUser returns the newest unused code for the user, or
	// domain.ErrNotFound. Expiry filtering is the caller's concern.
	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.ActivationCode, error)
}
