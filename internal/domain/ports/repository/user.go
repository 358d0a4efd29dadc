package repository

import (
	"context"
	"time"

	"fieldsales-backend/internal/domain/model"
)

// -----------------------------
// Profiles
// -----------------------------

// ProfileFilter narrows profile listings.
type ProfileFilter struct {
	Role     model.Role
	IsActive *bool
	BranchID string
}

type ProfileRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Profile) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Profile, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Profile, error)
	List(ctx context.Context, tx Tx, filter ProfileFilter) ([]*model.Profile, error)
	CountByBranch(ctx context.Context, tx Tx, branchID string) (int, error)
	// DisplayIDExists reports whether a collector display identifier is taken.
	DisplayIDExists(ctx context.Context, tx Tx, displayID string) (bool, error)
	// TouchLastSeen is best-effort visibility tracking; callers must not fail
	// the primary operation when it errors.
	TouchLastSeen(ctx context.Context, tx Tx, id string, at time.Time) error
	SetDeviceConnected(ctx context.Context, tx Tx, id string, at time.Time) error
}
