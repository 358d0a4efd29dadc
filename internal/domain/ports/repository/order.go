package repository

import (
	"context"

	"fieldsales-backend/internal/domain/model"
)

type OrderRepository interface {
	// Insert persists the order row and all of its items. Must be called
	// inside the coordinating transaction.
	Insert(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	// List returns orders matching the filter, newest first with id as the
	// tiebreak, plus the total match count for pagination.
	List(ctx context.Context, tx Tx, filter model.OrderFilter, offset, limit int) ([]*model.Order, int, error)
	// UpdateStatus writes the new status guarded by the expected current
	// one; domain.ErrNotFound when absent, domain.ErrInvalidTransition when
	// the row no longer holds `from` (a concurrent transition won).
	UpdateStatus(ctx context.Context, tx Tx, id string, from, to model.OrderStatus) error
}
