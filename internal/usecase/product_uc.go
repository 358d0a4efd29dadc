package usecase

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/infra/logging"
)

var _ ProductUseCase = (*productUC)(nil)

// ProductCreate carries the fields for a new catalog entry. InitialStock is
// applied through the inventory ledger so the opening balance is auditable
// like any later movement.
type ProductCreate struct {
	Name         string
	Description  *string
	CategoryID   *string
	UnitPrice    float64
	ImageURL     *string
	InitialStock int
}

// ProductUpdate carries the mutable product fields; nil means leave as-is.
// Stock is intentionally not here: all stock movement goes through the
// inventory use case so every change lands in the ledger.
type ProductUpdate struct {
	Name        *string
	Description *string
	CategoryID  *string
	UnitPrice   *float64
	ImageURL    *string
	IsActive    *bool
}

type ProductUseCase interface {
	Create(ctx context.Context, req ProductCreate, performedBy string) (*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error)
	Update(ctx context.Context, id string, upd ProductUpdate) (*model.Product, error)
}

type productUC struct {
	products  repository.ProductRepository
	inventory InventoryUseCase
	tm        repository.TransactionManager
	log       *zerolog.Logger
}

func NewProductUseCase(
	products repository.ProductRepository,
	inventory InventoryUseCase,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *productUC {
	return &productUC{products: products, inventory: inventory, tm: tm, log: logger}
}

func (u *productUC) Create(ctx context.Context, req ProductCreate, performedBy string) (*model.Product, error) {
	defer logging.TraceDuration(u.log, "ProductUC.Create")()
	if req.InitialStock < 0 {
		return nil, domain.ErrInvalidArgument
	}
	p, err := model.NewProduct("", req.Name, req.UnitPrice, 0)
	if err != nil {
		return nil, err
	}
	p.Description = req.Description
	p.CategoryID = req.CategoryID
	p.ImageURL = req.ImageURL

	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err = u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if err := u.products.Save(ctx, tx, p); err != nil {
			return err
		}
		if req.InitialStock > 0 {
			if _, err := u.inventory.AdjustInTx(ctx, tx, p.ID, req.InitialStock, "initial", performedBy); err != nil {
				return err
			}
			p.StockQuantity = req.InitialStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (u *productUC) Get(ctx context.Context, id string) (*model.Product, error) {
	defer logging.TraceDuration(u.log, "ProductUC.Get")()
	return u.products.FindByID(ctx, repository.NoTX, id)
}

func (u *productUC) List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	defer logging.TraceDuration(u.log, "ProductUC.List")()
	return u.products.List(ctx, repository.NoTX, filter)
}

func (u *productUC) Update(ctx context.Context, id string, upd ProductUpdate) (*model.Product, error) {
	defer logging.TraceDuration(u.log, "ProductUC.Update")()
	p, err := u.products.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, domain.ErrInvalidArgument
		}
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = upd.Description
	}
	if upd.CategoryID != nil {
		p.CategoryID = upd.CategoryID
	}
	if upd.UnitPrice != nil {
		if *upd.UnitPrice < 0 {
			return nil, domain.ErrInvalidArgument
		}
		p.UnitPrice = *upd.UnitPrice
	}
	if upd.ImageURL != nil {
		p.ImageURL = upd.ImageURL
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	if err := u.products.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	return p, nil
}
