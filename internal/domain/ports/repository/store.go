package repository

import (
	"context"

	"fieldsales-backend/internal/domain/model"
)

type StoreRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Store) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Store, error)
	FindByName(ctx context.Context, tx Tx, name string) (*model.Store, error)
	List(ctx context.Context, tx Tx, activeOnly bool) ([]*model.Store, error)
}
