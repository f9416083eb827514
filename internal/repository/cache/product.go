// Package cache provides a Redis read-through cache in front of a product repository
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"financialproducts/internal/metrics"
	"financialproducts/internal/models"
	"financialproducts/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix = "fp:products"
	listKey   = keyPrefix + ":list"
)

func productKey(id string) string {
	return fmt.Sprintf("%s:id:%s", keyPrefix, id)
}

type productRepository struct {
	inner  repository.ProductRepository
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProductRepository wraps inner so that List and GetByID are served from Redis.
// Redis failures are logged and the call goes to inner.
func NewProductRepository(inner repository.ProductRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) repository.ProductRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &productRepository{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *productRepository) Create(ctx context.Context, product *models.FinancialProduct) error {
	if err := r.inner.Create(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, listKey)
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *models.FinancialProduct) error {
	if err := r.inner.Update(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, listKey, productKey(product.ID))
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, listKey, productKey(id))
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.FinancialProduct, error) {
	key := productKey(id)

	var cached models.FinancialProduct
	if r.getJSON(ctx, "get", key, &cached) {
		return &cached, nil
	}

	product, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.setJSON(ctx, key, product)
	return product, nil
}

func (r *productRepository) List(ctx context.Context) ([]models.FinancialProduct, error) {
	var cached []models.FinancialProduct
	if r.getJSON(ctx, "list", listKey, &cached) {
		return cached, nil
	}

	products, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	r.setJSON(ctx, listKey, products)
	return products, nil
}

func (r *productRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.inner.Exists(ctx, id)
}

func (r *productRepository) ListDueForRevision(ctx context.Context, day time.Time) ([]models.FinancialProduct, error) {
	return r.inner.ListDueForRevision(ctx, day)
}

// Ping reports the health of the backing store. Redis is optional.
func (r *productRepository) Ping(ctx context.Context) error {
	if err := r.redis.Ping(ctx).Err(); err != nil {
		r.logger.Warn("cache.ping_failed", zap.Error(err))
	}
	return r.inner.Ping(ctx)
}

func (r *productRepository) getJSON(ctx context.Context, op, key string, dest any) bool {
	data, err := r.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues(op, "miss").Inc()
		return false
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues(op, "error").Inc()
		r.logger.Warn("cache.get_failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		metrics.CacheLookups.WithLabelValues(op, "error").Inc()
		r.logger.Warn("cache.decode_failed", zap.String("key", key), zap.Error(err))
		return false
	}
	metrics.CacheLookups.WithLabelValues(op, "hit").Inc()
	return true
}

func (r *productRepository) setJSON(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("cache.encode_failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.redis.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("cache.set_failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *productRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.redis.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("cache.invalidate_failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
