package adapter

import (
	"context"

	"birthday-coupons/internal/domain/model"
)

// DiscountEngine is the boundary to the external coupon engine. The
// core only creates birthday coupons and reads them back for display
// and email merge fields.
type DiscountEngine interface {
	// CreateCoupon registers a coupon and returns its engine-side id.
	CreateCoupon(ctx context.Context, spec model.CouponSpec) (string, error)
	// LookupByCode returns the coupon id for a code, or
	// domain.ErrNotFound if the code is free.
	LookupByCode(ctx context.Context, code string) (string, error)
	// GetCoupon fetches a coupon by its engine id.
	GetCoupon(ctx context.Context, couponID string) (*model.Coupon, error)
}
