package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/infra/logging"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// ProfileUpdate carries the mutable profile fields; nil means leave as-is.
type ProfileUpdate struct {
	FullName *string
	Phone    *string
	IsActive *bool
}

// UserUseCase exposes profile operations used by admin and device flows.
type UserUseCase interface {
	Get(ctx context.Context, id string) (*model.Profile, error)
	List(ctx context.Context, filter repository.ProfileFilter) ([]*model.Profile, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (*model.Profile, error)
	SetActive(ctx context.Context, id string, active bool) (*model.Profile, error)
	// TouchLastSeen is explicitly best-effort: failures are logged and
	// swallowed, never propagated to the primary operation.
	TouchLastSeen(ctx context.Context, id string)
	MarkDeviceConnected(ctx context.Context, id string) error
}

type userUC struct {
	profiles repository.ProfileRepository
	log      *zerolog.Logger
}

func NewUserUseCase(profiles repository.ProfileRepository, logger *zerolog.Logger) *userUC {
	return &userUC{profiles: profiles, log: logger}
}

func (u *userUC) Get(ctx context.Context, id string) (*model.Profile, error) {
	defer logging.TraceDuration(u.log, "UserUC.Get")()
	return u.profiles.FindByID(ctx, repository.NoTX, id)
}

func (u *userUC) List(ctx context.Context, filter repository.ProfileFilter) ([]*model.Profile, error) {
	defer logging.TraceDuration(u.log, "UserUC.List")()
	return u.profiles.List(ctx, repository.NoTX, filter)
}

func (u *userUC) Update(ctx context.Context, id string, upd ProfileUpdate) (*model.Profile, error) {
	defer logging.TraceDuration(u.log, "UserUC.Update")()
	p, err := u.profiles.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if upd.FullName != nil {
		if *upd.FullName == "" {
			return nil, domain.ErrInvalidArgument
		}
		p.FullName = *upd.FullName
	}
	if upd.Phone != nil {
		p.Phone = upd.Phone
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	if err := u.profiles.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *userUC) SetActive(ctx context.Context, id string, active bool) (*model.Profile, error) {
	return u.Update(ctx, id, ProfileUpdate{IsActive: &active})
}

func (u *userUC) TouchLastSeen(ctx context.Context, id string) {
	if err := u.profiles.TouchLastSeen(ctx, repository.NoTX, id, time.Now()); err != nil {
		u.log.Warn().Err(err).Str("user_id", id).Msg("last-seen touch failed")
	}
}

func (u *userUC) MarkDeviceConnected(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "UserUC.MarkDeviceConnected")()
	return u.profiles.SetDeviceConnected(ctx, repository.NoTX, id, time.Now())
}
