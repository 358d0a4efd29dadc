package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"fieldsales-backend/internal/config"
	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/infra/logging"
	"fieldsales-backend/internal/infra/metrics"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID string
	Quantity  int
}

// OrderUseCase coordinates order creation with inventory consistency: the
// order row, its items, and the per-item stock decrements commit or roll
// back as a single unit.
type OrderUseCase interface {
	Create(ctx context.Context, collectorID, storeID string, notes *string, items []OrderItemRequest) (*model.Order, error)
	Get(ctx context.Context, orderID string) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter, page, pageSize int) ([]*model.Order, int, error)
	UpdateStatus(ctx context.Context, orderID string, next model.OrderStatus) (*model.Order, error)
	// ResolveStore finds the store matching the collector's branch by name,
	// creating it on first use. Idempotent per branch name.
	ResolveStore(ctx context.Context, branchID string) (*model.Store, error)
}

type orderUC struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	stores    repository.StoreRepository
	branches  repository.BranchRepository
	inventory InventoryUseCase
	tm        repository.TransactionManager
	cfg       config.OrderConfig
	log       *zerolog.Logger
}

func NewOrderUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	stores repository.StoreRepository,
	branches repository.BranchRepository,
	inventory InventoryUseCase,
	tm repository.TransactionManager,
	cfg config.OrderConfig,
	logger *zerolog.Logger,
) *orderUC {
	return &orderUC{
		orders:    orders,
		products:  products,
		stores:    stores,
		branches:  branches,
		inventory: inventory,
		tm:        tm,
		cfg:       cfg,
		log:       logger,
	}
}

// round2 keeps money arithmetic stable at two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func newOrderNumber() string {
	return "ORD-" + ulid.Make().String()
}

func (u *orderUC) Create(ctx context.Context, collectorID, storeID string, notes *string, items []OrderItemRequest) (*model.Order, error) {
	defer logging.TraceDuration(u.log, "OrderUC.Create")()

	if collectorID == "" || storeID == "" || len(items) == 0 {
		metrics.IncOrderCreateFailure("invalid")
		return nil, domain.ErrInvalidOrder
	}
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			metrics.IncOrderCreateFailure("invalid")
			return nil, domain.ErrInvalidOrder
		}
	}

	// Merge duplicate lines so the stock check sees the combined quantity,
	// then sort by product id to give concurrent orders a consistent lock
	// order.
	merged := make([]OrderItemRequest, 0, len(items))
	byProduct := make(map[string]int, len(items))
	for _, it := range items {
		if idx, ok := byProduct[it.ProductID]; ok {
			merged[idx].Quantity += it.Quantity
			continue
		}
		byProduct[it.ProductID] = len(merged)
		merged = append(merged, it)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	items = merged

	var created *model.Order
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		now := time.Now()
		order := &model.Order{
			ID:          model.NewUUID(),
			OrderNumber: newOrderNumber(),
			CollectorID: collectorID,
			StoreID:     storeID,
			Status:      model.OrderStatusPending,
			Notes:       notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		// Lock each product row up front: the price snapshot, the stock
		// check, and the later decrement must all observe the same row
		// version. Concurrent orders for the same product serialize here.
		for _, req := range items {
			p, err := u.products.FindByIDForUpdate(ctx, tx, req.ProductID)
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrInvalidOrder
			}
			if err != nil {
				return err
			}
			if p.StockQuantity < req.Quantity {
				return domain.ErrInsufficientStock
			}
			sub := round2(p.UnitPrice * float64(req.Quantity))
			order.Items = append(order.Items, model.OrderItem{
				ID:          model.NewUUID(),
				OrderID:     order.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    req.Quantity,
				UnitPrice:   p.UnitPrice,
				Subtotal:    sub,
			})
			order.Subtotal += sub
		}
		order.Subtotal = round2(order.Subtotal)
		order.TaxAmount = round2(order.Subtotal * u.cfg.TaxRate)
		order.TotalAmount = round2(order.Subtotal + order.TaxAmount)

		if err := u.orders.Insert(ctx, tx, order); err != nil {
			return err
		}

		for _, req := range items {
			if _, err := u.inventory.AdjustInTx(ctx, tx, req.ProductID, -req.Quantity, "order", collectorID); err != nil {
				return err
			}
		}

		created = order
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidOrder):
			metrics.IncOrderCreateFailure("invalid")
		case errors.Is(err, domain.ErrInsufficientStock):
			metrics.IncOrderCreateFailure("stock")
		default:
			metrics.IncOrderCreateFailure("other")
		}
		return nil, err
	}

	metrics.IncOrderCreated(created.TotalAmount)
	return created, nil
}

func (u *orderUC) Get(ctx context.Context, orderID string) (*model.Order, error) {
	defer logging.TraceDuration(u.log, "OrderUC.Get")()
	return u.orders.FindByID(ctx, repository.NoTX, orderID)
}

func (u *orderUC) List(ctx context.Context, filter model.OrderFilter, page, pageSize int) ([]*model.Order, int, error) {
	defer logging.TraceDuration(u.log, "OrderUC.List")()
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize
	return u.orders.List(ctx, repository.NoTX, filter, offset, pageSize)
}

func (u *orderUC) UpdateStatus(ctx context.Context, orderID string, next model.OrderStatus) (*model.Order, error) {
	defer logging.TraceDuration(u.log, "OrderUC.UpdateStatus")()
	if !next.Valid() {
		return nil, domain.ErrInvalidArgument
	}

	var updated *model.Order
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		o, err := u.orders.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !o.Status.CanTransitionTo(next) {
			return domain.ErrInvalidTransition
		}
		// Guarded on the status we validated against; a racing transition
		// that commits first makes this affect zero rows and fail.
		if err := u.orders.UpdateStatus(ctx, tx, orderID, o.Status, next); err != nil {
			return err
		}
		o.Status = next
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *orderUC) ResolveStore(ctx context.Context, branchID string) (*model.Store, error) {
	defer logging.TraceDuration(u.log, "OrderUC.ResolveStore")()
	if branchID == "" {
		return nil, domain.ErrInvalidArgument
	}

	branch, err := u.branches.FindByID(ctx, repository.NoTX, branchID)
	if err != nil {
		return nil, err
	}

	var store *model.Store
	// Serializable keeps two first-orders from the same branch from creating
	// the store twice.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err = u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		existing, err := u.stores.FindByName(ctx, tx, branch.Name)
		if err == nil {
			store = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		fresh, err := model.NewStore("", branch.Name, branch.Location)
		if err != nil {
			return err
		}
		if err := u.stores.Save(ctx, tx, fresh); err != nil {
			return err
		}
		store = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}
