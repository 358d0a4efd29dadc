package repository

import (
	"context"

	"fieldsales-backend/internal/domain/model"
)

type CategoryRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Category) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Category, error)
	// List returns categories ordered by sort order, then name.
	List(ctx context.Context, tx Tx, activeOnly bool) ([]*model.Category, error)
}
