package repository

import (
	"context"

	"fieldsales-backend/internal/domain/model"
)

type BranchRepository interface {
	Save(ctx context.Context, tx Tx, b *model.Branch) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Branch, error)
	ListSummaries(ctx context.Context, tx Tx) ([]*model.BranchSummary, error)
	CodeExists(ctx context.Context, tx Tx, code string) (bool, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
