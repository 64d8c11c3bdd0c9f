package discount

import (
	"context"
	"fmt"
	"sync"

	"birthday-coupons/internal/domain"
	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/adapter"
)

var _ adapter.DiscountEngine = (*NoopEngine)(nil)

// NoopEngine is a simple in-memory engine for dev mode and tests.
type NoopEngine struct {
	mu     sync.Mutex
	seq    int64
	byID   map[string]model.CouponSpec
	byCode map[string]string // code -> id
}

func NewNoopEngine() *NoopEngine {
	return &NoopEngine{
		byID:   make(map[string]model.CouponSpec),
		byCode: make(map[string]string),
	}
}

func (e *NoopEngine) CreateCoupon(ctx context.Context, spec model.CouponSpec) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.byCode[spec.Code]; exists {
		return "", domain.ErrDuplicateCode
	}
	e.seq++
	id := fmt.Sprintf("noop-%d", e.seq)
	e.byID[id] = spec
	e.byCode[spec.Code] = id
	return id, nil
}

func (e *NoopEngine) LookupByCode(ctx context.Context, code string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.byCode[code]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (e *NoopEngine) GetCoupon(ctx context.Context, couponID string) (*model.Coupon, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	spec, ok := e.byID[couponID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &model.Coupon{
		ID:           couponID,
		Code:         spec.Code,
		DiscountType: spec.DiscountType,
		Amount:       spec.Amount,
		ExpiresAt:    spec.ExpiresAt,
	}, nil
}
