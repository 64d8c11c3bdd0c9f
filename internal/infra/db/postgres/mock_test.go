//go:build !integration

package postgres

import (
	"context"
	"time"

	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/repository"
	red "birthday-coupons/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerCouponLogRepo mocks the database repository the decorator wraps.
type mockInnerCouponLogRepo struct {
	InsertFunc           func(ctx context.Context, tx repository.Tx, entry *model.CouponLogEntry) (string, error)
	MarkRedeemedFunc     func(ctx context.Context, tx repository.Tx, couponID, orderID string, redeemedAt time.Time) error
	FindByCodeFunc       func(ctx context.Context, tx repository.Tx, code string) (*model.CouponLogEntry, error)
	FindByCouponIDFunc   func(ctx context.Context, tx repository.Tx, couponID string) (*model.CouponLogEntry, error)
	ListForUserFunc      func(ctx context.Context, tx repository.Tx, userID string) ([]*model.CouponLogEntry, error)
	ListAllFunc          func(ctx context.Context, tx repository.Tx, q repository.ListQuery) ([]*model.CouponLogEntry, error)
	CountFunc            func(ctx context.Context, tx repository.Tx) (int, error)
	CountRedeemedFunc    func(ctx context.Context, tx repository.Tx) (int, error)
	CountIssuedSinceFunc func(ctx context.Context, tx repository.Tx, since time.Time) (int, error)
}

var _ repository.CouponLogRepository = (*mockInnerCouponLogRepo)(nil)

func (m *mockInnerCouponLogRepo) Insert(ctx context.Context, tx repository.Tx, entry *model.CouponLogEntry) (string, error) {
	return m.InsertFunc(ctx, tx, entry)
}

func (m *mockInnerCouponLogRepo) MarkRedeemed(ctx context.Context, tx repository.Tx, couponID, orderID string, redeemedAt time.Time) error {
	return m.MarkRedeemedFunc(ctx, tx, couponID, orderID, redeemedAt)
}

func (m *mockInnerCouponLogRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.CouponLogEntry, error) {
	return m.FindByCodeFunc(ctx, tx, code)
}

func (m *mockInnerCouponLogRepo) FindByCouponID(ctx context.Context, tx repository.Tx, couponID string) (*model.CouponLogEntry, error) {
	return m.FindByCouponIDFunc(ctx, tx, couponID)
}

func (m *mockInnerCouponLogRepo) ListForUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.CouponLogEntry, error) {
	return m.ListForUserFunc(ctx, tx, userID)
}

func (m *mockInnerCouponLogRepo) ListAll(ctx context.Context, tx repository.Tx, q repository.ListQuery) ([]*model.CouponLogEntry, error) {
	return m.ListAllFunc(ctx, tx, q)
}

func (m *mockInnerCouponLogRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	return m.CountFunc(ctx, tx)
}

func (m *mockInnerCouponLogRepo) CountRedeemed(ctx context.Context, tx repository.Tx) (int, error) {
	return m.CountRedeemedFunc(ctx, tx)
}

func (m *mockInnerCouponLogRepo) CountIssuedSince(ctx context.Context, tx repository.Tx, since time.Time) (int, error) {
	return m.CountIssuedSinceFunc(ctx, tx, since)
}

// mockRedisClient implements red.RedisClient with func fields; nil
// funcs behave like an empty cache.
type mockRedisClient struct {
	GetFunc   func(ctx context.Context, key string) (string, error)
	SetFunc   func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc   func(ctx context.Context, keys ...string) error
	SetNXFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}

var _ red.RedisClient = (*mockRedisClient)(nil)

type errCacheMiss struct{}

func (errCacheMiss) Error() string { return "cache miss" }

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", errCacheMiss{}
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

func (m *mockRedisClient) HSet(ctx context.Context, key string, values ...interface{}) error {
	return nil
}

func (m *mockRedisClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (m *mockRedisClient) HDel(ctx context.Context, key string, fields ...string) error { return nil }

func (m *mockRedisClient) SAdd(ctx context.Context, key string, members ...interface{}) error {
	return nil
}

func (m *mockRedisClient) SRem(ctx context.Context, key string, members ...interface{}) error {
	return nil
}

func (m *mockRedisClient) SMembers(ctx context.Context, key string) ([]string, error) {
	return nil, nil
}

func (m *mockRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if m.SetNXFunc != nil {
		return m.SetNXFunc(ctx, key, value, expiration)
	}
	return true, nil
}

func (m *mockRedisClient) Close() error { return nil }
