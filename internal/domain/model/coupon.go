package model

import (
	"fmt"
	"time"

	"birthday-coupons/internal/domain"
)

// DiscountType mirrors the discount engine's coupon types.
type DiscountType string

const (
	DiscountFixedCart DiscountType = "fixed_cart"
	DiscountPercent   DiscountType = "percent"
)

// CouponSpec is everything the discount engine needs to create a
// birthday coupon. Usage limits are fixed at one per coupon and one per
// user; the coupon is stackable and never grants free shipping.
type CouponSpec struct {
	Code              string
	Description       string
	DiscountType      DiscountType
	Amount            float64
	UsageLimit        int
	UsageLimitPerUser int
	IndividualUse     bool
	FreeShipping      bool
	ExpiresAt         time.Time
	EmailRestriction  []string
	Metadata          map[string]string
}

// NewBirthdayCouponSpec builds the spec for one recipient from the
// configured discount parameters.
func NewBirthdayCouponSpec(code string, dtype DiscountType, amount float64, expiresAt time.Time, userID, email string, issuedAt time.Time) (CouponSpec, error) {
	if code == "" || userID == "" || email == "" {
		return CouponSpec{}, domain.ErrInvalidArgument
	}
	if amount <= 0 {
		return CouponSpec{}, domain.ErrInvalidArgument
	}
	if dtype != DiscountFixedCart && dtype != DiscountPercent {
		return CouponSpec{}, domain.ErrInvalidArgument
	}
	return CouponSpec{
		Code:              code,
		Description:       "Birthday Coupon",
		DiscountType:      dtype,
		Amount:            amount,
		UsageLimit:        1,
		UsageLimitPerUser: 1,
		IndividualUse:     false,
		FreeShipping:      false,
		ExpiresAt:         expiresAt,
		EmailRestriction:  []string{email},
		Metadata: map[string]string{
			"birthday_coupon": "yes",
			"user_id":         userID,
			"issue_date":      issuedAt.Format(time.RFC3339),
		},
	}, nil
}

// Coupon is the engine-owned coupon as this core reads it back.
type Coupon struct {
	ID           string
	Code         string
	DiscountType DiscountType
	Amount       float64
	ExpiresAt    time.Time
}

// AmountText renders a human-readable discount description for email
// merge fields, e.g. "10.00 fixed discount" or "15% discount".
func (c Coupon) AmountText() string {
	switch c.DiscountType {
	case DiscountPercent:
		return fmt.Sprintf("%.0f%% discount", c.Amount)
	default:
		return fmt.Sprintf("%.2f fixed discount", c.Amount)
	}
}
