package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/infra/logging"
)

var _ CategoryUseCase = (*categoryUC)(nil)

// CategoryUpdate carries the mutable category fields; nil means leave as-is.
type CategoryUpdate struct {
	Name        *string
	Description *string
	SortOrder   *int
	IsActive    *bool
}

type CategoryUseCase interface {
	Create(ctx context.Context, name string, description *string, sortOrder int) (*model.Category, error)
	Update(ctx context.Context, id string, upd CategoryUpdate) (*model.Category, error)
	// List returns categories ordered by sort order; activeOnly hides
	// soft-deleted ones.
	List(ctx context.Context, activeOnly bool) ([]*model.Category, error)
	// Delete soft-deletes by flipping IsActive. Products keep their
	// category reference.
	Delete(ctx context.Context, id string) (*model.Category, error)
}

type categoryUC struct {
	categories repository.CategoryRepository
	log        *zerolog.Logger
}

func NewCategoryUseCase(categories repository.CategoryRepository, logger *zerolog.Logger) *categoryUC {
	return &categoryUC{categories: categories, log: logger}
}

func (u *categoryUC) Create(ctx context.Context, name string, description *string, sortOrder int) (*model.Category, error) {
	defer logging.TraceDuration(u.log, "CategoryUC.Create")()
	c, err := model.NewCategory("", name, description, sortOrder)
	if err != nil {
		return nil, err
	}
	if err := u.categories.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *categoryUC) Update(ctx context.Context, id string, upd CategoryUpdate) (*model.Category, error) {
	defer logging.TraceDuration(u.log, "CategoryUC.Update")()
	c, err := u.categories.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, domain.ErrInvalidArgument
		}
		c.Name = *upd.Name
	}
	if upd.Description != nil {
		c.Description = upd.Description
	}
	if upd.SortOrder != nil {
		c.SortOrder = *upd.SortOrder
	}
	if upd.IsActive != nil {
		c.IsActive = *upd.IsActive
	}
	if err := u.categories.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *categoryUC) List(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	defer logging.TraceDuration(u.log, "CategoryUC.List")()
	return u.categories.List(ctx, repository.NoTX, activeOnly)
}

func (u *categoryUC) Delete(ctx context.Context, id string) (*model.Category, error) {
	defer logging.TraceDuration(u.log, "CategoryUC.Delete")()
	inactive := false
	return u.Update(ctx, id, CategoryUpdate{IsActive: &inactive})
}
