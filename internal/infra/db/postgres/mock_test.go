//go:build !integration

package postgres

import (
	"context"
	"time"

	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	red "fieldsales-backend/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerProductRepo mocks the database repository the decorator wraps.
type mockInnerProductRepo struct {
	SaveFunc              func(ctx context.Context, tx repository.Tx, p *model.Product) error
	FindByIDFunc          func(ctx context.Context, tx repository.Tx, id string) (*model.Product, error)
	FindByIDForUpdateFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Product, error)
	UpdateStockFunc       func(ctx context.Context, tx repository.Tx, id string, newQuantity int) error
	ListFunc              func(ctx context.Context, tx repository.Tx, filter model.ProductFilter) ([]*model.Product, error)
}

var _ repository.ProductRepository = (*mockInnerProductRepo)(nil)

func (m *mockInnerProductRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	return m.SaveFunc(ctx, tx, p)
}
func (m *mockInnerProductRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerProductRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}
func (m *mockInnerProductRepo) UpdateStock(ctx context.Context, tx repository.Tx, id string, newQuantity int) error {
	return m.UpdateStockFunc(ctx, tx, id, newQuantity)
}
func (m *mockInnerProductRepo) List(ctx context.Context, tx repository.Tx, filter model.ProductFilter) ([]*model.Product, error) {
	return m.ListFunc(ctx, tx, filter)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc   func(ctx context.Context, key string) (string, error)
	SetFunc   func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc   func(ctx context.Context, keys ...string) error
	PingFunc  func(ctx context.Context) error
	CloseFunc func() error
}

var _ red.RedisClient = (*mockRedisClient)(nil)

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
func (m *mockRedisClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
