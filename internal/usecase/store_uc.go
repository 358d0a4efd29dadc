package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/infra/logging"
)

var _ StoreUseCase = (*storeUC)(nil)

type StoreUpdate struct {
	Name     *string
	Address  *string
	IsActive *bool
}

type StoreUseCase interface {
	Create(ctx context.Context, name string, address *string) (*model.Store, error)
	Get(ctx context.Context, id string) (*model.Store, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Store, error)
	Update(ctx context.Context, id string, upd StoreUpdate) (*model.Store, error)
}

type storeUC struct {
	stores repository.StoreRepository
	log    *zerolog.Logger
}

func NewStoreUseCase(stores repository.StoreRepository, logger *zerolog.Logger) *storeUC {
	return &storeUC{stores: stores, log: logger}
}

func (u *storeUC) Create(ctx context.Context, name string, address *string) (*model.Store, error) {
	defer logging.TraceDuration(u.log, "StoreUC.Create")()
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	s, err := model.NewStore("", name, address)
	if err != nil {
		return nil, err
	}
	if err := u.stores.Save(ctx, repository.NoTX, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (u *storeUC) Get(ctx context.Context, id string) (*model.Store, error) {
	defer logging.TraceDuration(u.log, "StoreUC.Get")()
	return u.stores.FindByID(ctx, repository.NoTX, id)
}

func (u *storeUC) List(ctx context.Context, activeOnly bool) ([]*model.Store, error) {
	defer logging.TraceDuration(u.log, "StoreUC.List")()
	return u.stores.List(ctx, repository.NoTX, activeOnly)
}

func (u *storeUC) Update(ctx context.Context, id string, upd StoreUpdate) (*model.Store, error) {
	defer logging.TraceDuration(u.log, "StoreUC.Update")()
	s, err := u.stores.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, domain.ErrInvalidArgument
		}
		s.Name = *upd.Name
	}
	if upd.Address != nil {
		s.Address = upd.Address
	}
	if upd.IsActive != nil {
		s.IsActive = *upd.IsActive
	}
	if err := u.stores.Save(ctx, repository.NoTX, s); err != nil {
		return nil, err
	}
	return s, nil
}
