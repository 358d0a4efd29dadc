package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/infra/logging"
)

var _ BranchUseCase = (*branchUC)(nil)

// BranchUpdate carries the mutable branch fields; nil means leave as-is.
// The branch code is deliberately absent: it is immutable after creation.
type BranchUpdate struct {
	Name     *string
	Location *string
	IsActive *bool
}

type BranchUseCase interface {
	Create(ctx context.Context, name string, location *string) (*model.Branch, error)
	Get(ctx context.Context, id string) (*model.Branch, error)
	ListSummaries(ctx context.Context) ([]*model.BranchSummary, error)
	Update(ctx context.Context, id string, upd BranchUpdate) (*model.Branch, error)
	Delete(ctx context.Context, id string) error
}

type branchUC struct {
	branches repository.BranchRepository
	profiles repository.ProfileRepository
	idgen    *IdentifierGenerator
	log      *zerolog.Logger
}

func NewBranchUseCase(
	branches repository.BranchRepository,
	profiles repository.ProfileRepository,
	idgen *IdentifierGenerator,
	logger *zerolog.Logger,
) *branchUC {
	return &branchUC{branches: branches, profiles: profiles, idgen: idgen, log: logger}
}

func (u *branchUC) Create(ctx context.Context, name string, location *string) (*model.Branch, error) {
	defer logging.TraceDuration(u.log, "BranchUC.Create")()
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	code, err := u.idgen.BranchCode(ctx, name, func(ctx context.Context, candidate string) (bool, error) {
		return u.branches.CodeExists(ctx, repository.NoTX, candidate)
	})
	if err != nil {
		return nil, err
	}
	b, err := model.NewBranch("", name, location)
	if err != nil {
		return nil, err
	}
	b.Code = code
	if err := u.branches.Save(ctx, repository.NoTX, b); err != nil {
		return nil, err
	}
	u.log.Info().Str("branch_id", b.ID).Str("code", b.Code).Msg("branch created")
	return b, nil
}

func (u *branchUC) Get(ctx context.Context, id string) (*model.Branch, error) {
	defer logging.TraceDuration(u.log, "BranchUC.Get")()
	return u.branches.FindByID(ctx, repository.NoTX, id)
}

func (u *branchUC) ListSummaries(ctx context.Context) ([]*model.BranchSummary, error) {
	defer logging.TraceDuration(u.log, "BranchUC.ListSummaries")()
	return u.branches.ListSummaries(ctx, repository.NoTX)
}

func (u *branchUC) Update(ctx context.Context, id string, upd BranchUpdate) (*model.Branch, error) {
	defer logging.TraceDuration(u.log, "BranchUC.Update")()
	b, err := u.branches.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, domain.ErrInvalidArgument
		}
		b.Name = *upd.Name
	}
	if upd.Location != nil {
		b.Location = upd.Location
	}
	if upd.IsActive != nil {
		b.IsActive = *upd.IsActive
	}
	if err := u.branches.Save(ctx, repository.NoTX, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (u *branchUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "BranchUC.Delete")()
	n, err := u.profiles.CountByBranch(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrBranchNotEmpty
	}
	return u.branches.Delete(ctx, repository.NoTX, id)
}
