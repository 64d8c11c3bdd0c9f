package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/repository"
)

// Compile-time check
var _ CouponLogUseCase = (*couponLogUC)(nil)

// UserCoupon is one audit entry annotated for the account page: Active
// means the coupon is still usable and worth showing in the banner.
type UserCoupon struct {
	Entry  *model.CouponLogEntry `json:"entry"`
	Active bool                  `json:"active"`
}

type CouponLogUseCase interface {
	// ListForUser returns a user's coupons newest first, each flagged
	// active when unredeemed and inside the expiry window.
	ListForUser(ctx context.Context, userID string) ([]UserCoupon, error)
	// ListAll pages over the full audit log for the admin view and
	// returns the total row count alongside the page.
	ListAll(ctx context.Context, q repository.ListQuery) ([]*model.CouponLogEntry, int, error)
}

type couponLogUC struct {
	logs       repository.CouponLogRepository
	expiryDays int
	log        *zerolog.Logger
}

func NewCouponLogUseCase(logs repository.CouponLogRepository, expiryDays int, logger *zerolog.Logger) *couponLogUC {
	return &couponLogUC{logs: logs, expiryDays: expiryDays, log: logger}
}

func (uc *couponLogUC) ListForUser(ctx context.Context, userID string) ([]UserCoupon, error) {
	entries, err := uc.logs.ListForUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]UserCoupon, 0, len(entries))
	for _, e := range entries {
		out = append(out, UserCoupon{
			Entry:  e,
			Active: e.ActiveAt(now, uc.expiryDays),
		})
	}
	return out, nil
}

func (uc *couponLogUC) ListAll(ctx context.Context, q repository.ListQuery) ([]*model.CouponLogEntry, int, error) {
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	entries, err := uc.logs.ListAll(ctx, repository.NoTX, q)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.logs.Count(ctx, repository.NoTX)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
