package model

import (
	"time"

	"github.com/google/uuid"

	"birthday-coupons/internal/domain"
)

// CouponLogEntry is the audit record for one minted birthday coupon.
// The core fields are immutable after insert; RedeemedAt and OrderID are
// filled exactly once by the redemption correlator.
type CouponLogEntry struct {
	ID          string     `json:"id"`
	CouponID    string     `json:"coupon_id"`
	CouponCode  string     `json:"coupon_code"`
	UserID      string     `json:"user_id"`
	Birthday    string     `json:"user_birthday"` // MM-DD
	GeneratedAt time.Time  `json:"coupon_generation_date"`
	RedeemedAt  *time.Time `json:"coupon_redeemed_date,omitempty"`
	OrderID     *string    `json:"order_id,omitempty"`
}

func NewCouponLogEntry(couponID, couponCode, userID string, birthday Birthday, generatedAt time.Time) (*CouponLogEntry, error) {
	if couponID == "" || couponCode == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !birthday.Valid() {
		return nil, domain.ErrInvalidBirthday
	}
	return &CouponLogEntry{
		ID:          uuid.NewString(),
		CouponID:    couponID,
		CouponCode:  couponCode,
		UserID:      userID,
		Birthday:    birthday.MonthDay(),
		GeneratedAt: generatedAt,
	}, nil
}

// Redeemed reports whether the coupon has been used on an order.
func (e *CouponLogEntry) Redeemed() bool { return e.RedeemedAt != nil }

// ActiveAt reports whether the coupon is still usable: minted, not yet
// redeemed, and not expired relative to the configured expiry window.
func (e *CouponLogEntry) ActiveAt(now time.Time, expiryDays int) bool {
	if e.Redeemed() {
		return false
	}
	return now.Before(e.GeneratedAt.AddDate(0, 0, expiryDays))
}
