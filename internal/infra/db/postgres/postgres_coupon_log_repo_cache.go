package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/repository"
	"birthday-coupons/internal/infra/metrics"
	red "birthday-coupons/internal/infra/redis"
)

var _ repository.CouponLogRepository = (*couponLogRepoCacheDecorator)(nil)

// couponLogRepoCacheDecorator serves the display-only read paths from a
// TTL cache keyed by query shape. Every write invalidates the affected
// user's key plus the aggregate list/count keys. The cache is advisory;
// eligibility decisions never read through it.
type couponLogRepoCacheDecorator struct {
	inner repository.CouponLogRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewCouponLogRepoCacheDecorator(inner repository.CouponLogRepository, cache red.RedisClient, ttl time.Duration) repository.CouponLogRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &couponLogRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func userKey(userID string) string { return fmt.Sprintf("coupon_log:user:%s", userID) }

func listKey(q repository.ListQuery) string {
	return fmt.Sprintf("coupon_log:all:%d:%d:%s:%s", q.Limit, q.Offset, q.OrderBy, q.OrderDir)
}

const (
	countKey         = "coupon_log:count"
	countRedeemedKey = "coupon_log:count_redeemed"
	// aggregateVersionKey versions the ListAll key space so one delete
	// invalidates every query shape.
	aggregateVersionKey = "coupon_log:all:ver"
)

func (d *couponLogRepoCacheDecorator) Insert(ctx context.Context, tx repository.Tx, entry *model.CouponLogEntry) (string, error) {
	id, err := d.inner.Insert(ctx, tx, entry)
	if err == nil {
		d.invalidate(ctx, entry.UserID)
	}
	return id, err
}

func (d *couponLogRepoCacheDecorator) MarkRedeemed(ctx context.Context, tx repository.Tx, couponID, orderID string, redeemedAt time.Time) error {
	// Resolve the owning user before the update so their key can be
	// dropped too.
	var userID string
	if e, err := d.inner.FindByCouponID(ctx, tx, couponID); err == nil {
		userID = e.UserID
	}
	if err := d.inner.MarkRedeemed(ctx, tx, couponID, orderID, redeemedAt); err != nil {
		return err
	}
	d.invalidate(ctx, userID)
	return nil
}

func (d *couponLogRepoCacheDecorator) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.CouponLogEntry, error) {
	// Correlation reads stay authoritative.
	return d.inner.FindByCode(ctx, tx, code)
}

func (d *couponLogRepoCacheDecorator) FindByCouponID(ctx context.Context, tx repository.Tx, couponID string) (*model.CouponLogEntry, error) {
	return d.inner.FindByCouponID(ctx, tx, couponID)
}

func (d *couponLogRepoCacheDecorator) ListForUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.CouponLogEntry, error) {
	key := userKey(userID)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var entries []*model.CouponLogEntry
		if json.Unmarshal([]byte(val), &entries) == nil {
			metrics.IncCacheRequest("coupon_log", "hit")
			return entries, nil
		}
	}

	metrics.IncCacheRequest("coupon_log", "miss")
	entries, err := d.inner.ListForUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(entries); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return entries, nil
}

func (d *couponLogRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx, q repository.ListQuery) ([]*model.CouponLogEntry, error) {
	ver, _ := d.cache.Get(ctx, aggregateVersionKey)
	key := listKey(q) + ":" + ver
	if val, err := d.cache.Get(ctx, key); err == nil {
		var entries []*model.CouponLogEntry
		if json.Unmarshal([]byte(val), &entries) == nil {
			metrics.IncCacheRequest("coupon_log_all", "hit")
			return entries, nil
		}
	}

	metrics.IncCacheRequest("coupon_log_all", "miss")
	entries, err := d.inner.ListAll(ctx, tx, q)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(entries); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return entries, nil
}

func (d *couponLogRepoCacheDecorator) Count(ctx context.Context, tx repository.Tx) (int, error) {
	return d.cachedCount(ctx, countKey, func() (int, error) { return d.inner.Count(ctx, tx) })
}

func (d *couponLogRepoCacheDecorator) CountRedeemed(ctx context.Context, tx repository.Tx) (int, error) {
	return d.cachedCount(ctx, countRedeemedKey, func() (int, error) { return d.inner.CountRedeemed(ctx, tx) })
}

func (d *couponLogRepoCacheDecorator) CountIssuedSince(ctx context.Context, tx repository.Tx, since time.Time) (int, error) {
	// Cutoff-dependent; not worth a cache slot per timestamp.
	return d.inner.CountIssuedSince(ctx, tx, since)
}

func (d *couponLogRepoCacheDecorator) cachedCount(ctx context.Context, key string, load func() (int, error)) (int, error) {
	if val, err := d.cache.Get(ctx, key); err == nil {
		var n int
		if json.Unmarshal([]byte(val), &n) == nil {
			metrics.IncCacheRequest("coupon_log_count", "hit")
			return n, nil
		}
	}
	metrics.IncCacheRequest("coupon_log_count", "miss")
	n, err := load()
	if err != nil {
		return 0, err
	}
	bytes, _ := json.Marshal(n)
	_ = d.cache.Set(ctx, key, bytes, d.ttl)
	return n, nil
}

func (d *couponLogRepoCacheDecorator) invalidate(ctx context.Context, userID string) {
	if userID != "" {
		_ = d.cache.Del(ctx, userKey(userID))
	}
	_ = d.cache.Del(ctx, countKey, countRedeemedKey)
	// Bump the aggregate version instead of enumerating list keys.
	_ = d.cache.Set(ctx, aggregateVersionKey, time.Now().UnixNano(), 0)
}
