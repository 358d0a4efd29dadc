package repository

import (
	"context"

	"fieldsales-backend/internal/domain/model"
)

type ProductRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Product) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Product, error)
	// FindByIDForUpdate locks the product row for the duration of the
	// enclosing transaction so concurrent stock adjustments serialize.
	FindByIDForUpdate(ctx context.Context, tx Tx, id string) (*model.Product, error)
	// UpdateStock writes the new authoritative balance. Only the inventory
	// ledger calls this.
	UpdateStock(ctx context.Context, tx Tx, id string, newQuantity int) error
	List(ctx context.Context, tx Tx, filter model.ProductFilter) ([]*model.Product, error)
}
