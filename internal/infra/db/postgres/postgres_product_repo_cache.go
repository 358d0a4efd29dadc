package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/infra/metrics"
	red "fieldsales-backend/internal/infra/redis"
)

var _ repository.ProductRepository = (*productRepoCacheDecorator)(nil)

// productRepoCacheDecorator caches catalog reads. Stock-bearing paths
// (FindByIDForUpdate, UpdateStock) always go to the database: the cache must
// never sit between the ledger and the authoritative balance.
type productRepoCacheDecorator struct {
	inner repository.ProductRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewProductRepoCacheDecorator(inner repository.ProductRepository, cache red.RedisClient, ttl time.Duration) repository.ProductRepository {
	return &productRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func productKey(id string) string { return fmt.Sprintf("product:%s", id) }

func (d *productRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	val, err := d.cache.Get(ctx, productKey(id))
	if err == nil {
		metrics.IncCacheRequest("product", "hit")
		var p model.Product
		if json.Unmarshal([]byte(val), &p) == nil {
			return &p, nil
		}
	} else if err != redis.Nil {
		// Redis being down degrades to plain DB reads.
	}

	metrics.IncCacheRequest("product", "miss")
	p, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if p != nil {
		bytes, _ := json.Marshal(p)
		_ = d.cache.Set(ctx, productKey(id), bytes, d.ttl)
	}
	return p, nil
}

// FindByIDForUpdate must observe the locked row, never a stale cache entry.
func (d *productRepoCacheDecorator) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	return d.inner.FindByIDForUpdate(ctx, tx, id)
}

func (d *productRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	_ = d.cache.Del(ctx, productKey(p.ID))
	return d.inner.Save(ctx, tx, p)
}

func (d *productRepoCacheDecorator) UpdateStock(ctx context.Context, tx repository.Tx, id string, newQuantity int) error {
	_ = d.cache.Del(ctx, productKey(id))
	return d.inner.UpdateStock(ctx, tx, id, newQuantity)
}

// List is left uncached: filters vary and the admin catalog view tolerates a
// database round trip.
func (d *productRepoCacheDecorator) List(ctx context.Context, tx repository.Tx, filter model.ProductFilter) ([]*model.Product, error) {
	return d.inner.List(ctx, tx, filter)
}
