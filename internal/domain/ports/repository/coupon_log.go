package repository

import (
	"context"
	"time"

	"birthday-coupons/internal/domain/model"
)

// ListQuery shapes the admin log listing. OrderBy must be one of the
// whitelisted audit columns; implementations fall back to
// coupon_generation_date DESC for anything else.
type ListQuery struct {
	Limit    int
	Offset   int
	OrderBy  string
	OrderDir string
}

type CouponLogRepository interface {
	// Insert appends one immutable audit row and returns its id.
	Insert(ctx context.Context, tx Tx, entry *model.CouponLogEntry) (string, error)
	// MarkRedeemed fills the redemption fields exactly once. Calling it
	// again with the same order id is a no-op; a row already redeemed
	// under a different order is left untouched.
	MarkRedeemed(ctx context.Context, tx Tx, couponID, orderID string, redeemedAt time.Time) error
	// FindByCode returns the audit entry for a coupon code this core
	// minted, or domain.ErrNotFound.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.CouponLogEntry, error)
	// FindByCouponID returns the audit entry for an engine coupon id.
	FindByCouponID(ctx context.Context, tx Tx, couponID string) (*model.CouponLogEntry, error)
	// ListForUser returns a user's entries newest first.
	ListForUser(ctx context.Context, tx Tx, userID string) ([]*model.CouponLogEntry, error)
	// ListAll pages over every entry for the admin log view.
	ListAll(ctx context.Context, tx Tx, q ListQuery) ([]*model.CouponLogEntry, error)
	// Count returns the total number of audit rows.
	Count(ctx context.Context, tx Tx) (int, error)
	// CountRedeemed returns how many entries carry a redemption.
	CountRedeemed(ctx context.Context, tx Tx) (int, error)
	// CountIssuedSince counts entries generated at or after the cutoff.
	CountIssuedSince(ctx context.Context, tx Tx, since time.Time) (int, error)
}
