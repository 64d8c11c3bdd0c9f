//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"birthday-coupons/internal/domain"
)

// --- Birthday Model Tests ---

func TestNewBirthday(t *testing.T) {
	t.Run("should accept a regular date", func(t *testing.T) {
		b, err := NewBirthday(15, 6)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if b.MonthDay() != "06-15" {
			t.Errorf("expected MonthDay to be 06-15, but got %s", b.MonthDay())
		}
	})

	t.Run("should accept February 29", func(t *testing.T) {
		if _, err := NewBirthday(29, 2); err != nil {
			t.Fatalf("expected Feb 29 to be a valid stored birthday, got: %v", err)
		}
	})

	t.Run("should reject impossible day/month combinations", func(t *testing.T) {
		cases := []struct{ day, month int }{
			{30, 2}, {31, 4}, {0, 1}, {1, 0}, {32, 1}, {1, 13}, {-5, 6},
		}
		for _, c := range cases {
			if _, err := NewBirthday(c.day, c.month); !errors.Is(err, domain.ErrInvalidBirthday) {
				t.Errorf("expected ErrInvalidBirthday for (%d,%d), got %v", c.day, c.month, err)
			}
		}
	})
}

func TestBirthdayNextOccurrence(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("occurrence later this year", func(t *testing.T) {
		b := Birthday{Day: 15, Month: 6}
		occ := b.NextOccurrence(day(2025, time.June, 8))
		if !occ.Equal(day(2025, time.June, 15)) {
			t.Errorf("expected 2025-06-15, got %s", occ)
		}
		if diff := b.DaysUntil(day(2025, time.June, 8)); diff != 7 {
			t.Errorf("expected 7 days until occurrence, got %d", diff)
		}
	})

	t.Run("today counts as this year's occurrence", func(t *testing.T) {
		b := Birthday{Day: 8, Month: 6}
		today := time.Date(2025, time.June, 8, 14, 30, 0, 0, time.UTC)
		if diff := b.DaysUntil(today); diff != 0 {
			t.Errorf("expected 0 days when birthday is today, got %d", diff)
		}
	})

	t.Run("passed occurrence rolls to next year", func(t *testing.T) {
		b := Birthday{Day: 2, Month: 1}
		occ := b.NextOccurrence(day(2025, time.December, 28))
		if !occ.Equal(day(2026, time.January, 2)) {
			t.Errorf("expected rollover to 2026-01-02, got %s", occ)
		}
		if diff := b.DaysUntil(day(2025, time.December, 28)); diff != 5 {
			t.Errorf("expected 5 days across the year boundary, got %d", diff)
		}
	})

	t.Run("leap day normalizes to Feb 28 in non-leap years", func(t *testing.T) {
		b := Birthday{Day: 29, Month: 2}
		occ := b.NextOccurrence(day(2025, time.February, 1))
		if !occ.Equal(day(2025, time.February, 28)) {
			t.Errorf("expected 2025-02-28, got %s", occ)
		}
	})

	t.Run("leap day stays on Feb 29 in leap years", func(t *testing.T) {
		b := Birthday{Day: 29, Month: 2}
		occ := b.NextOccurrence(day(2024, time.February, 1))
		if !occ.Equal(day(2024, time.February, 29)) {
			t.Errorf("expected 2024-02-29, got %s", occ)
		}
	})

	t.Run("day distance survives DST transitions", func(t *testing.T) {
		loc, err := time.LoadLocation("Europe/Berlin")
		if err != nil {
			t.Skip("tzdata unavailable")
		}
		b := Birthday{Day: 5, Month: 4}
		today := time.Date(2025, time.March, 29, 12, 0, 0, 0, loc)
		if diff := b.DaysUntil(today); diff != 7 {
			t.Errorf("expected 7 days across DST change, got %d", diff)
		}
	})
}

// --- CouponSpec Model Tests ---

func TestNewBirthdayCouponSpec(t *testing.T) {
	issued := time.Date(2025, time.June, 8, 9, 0, 0, 0, time.UTC)
	expiry := issued.AddDate(0, 0, 14)

	t.Run("should build a single-use restricted coupon", func(t *testing.T) {
		spec, err := NewBirthdayCouponSpec("BIRTHDAY-ABC", DiscountFixedCart, 10, expiry, "user-42", "jo@example.com", issued)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if spec.UsageLimit != 1 || spec.UsageLimitPerUser != 1 {
			t.Error("expected usage limits to be fixed at 1")
		}
		if spec.IndividualUse {
			t.Error("expected birthday coupons to be stackable")
		}
		if len(spec.EmailRestriction) != 1 || spec.EmailRestriction[0] != "jo@example.com" {
			t.Errorf("expected email restriction to the recipient, got %v", spec.EmailRestriction)
		}
		if spec.Metadata["birthday_coupon"] != "yes" || spec.Metadata["user_id"] != "user-42" {
			t.Errorf("expected birthday metadata, got %v", spec.Metadata)
		}
	})

	t.Run("should reject non-positive amounts and unknown types", func(t *testing.T) {
		if _, err := NewBirthdayCouponSpec("C", DiscountFixedCart, 0, expiry, "u", "e@x", issued); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for zero amount, got %v", err)
		}
		if _, err := NewBirthdayCouponSpec("C", DiscountType("bogus"), 5, expiry, "u", "e@x", issued); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for unknown type, got %v", err)
		}
	})
}

// --- CouponLogEntry Model Tests ---

func TestCouponLogEntry(t *testing.T) {
	issued := time.Date(2025, time.June, 8, 9, 0, 0, 0, time.UTC)

	t.Run("should create with MM-DD birthday and a fresh id", func(t *testing.T) {
		e, err := NewCouponLogEntry("cpn-1", "BIRTHDAY-XYZ123", "42", Birthday{Day: 15, Month: 6}, issued)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if e.ID == "" {
			t.Error("expected a generated entry id")
		}
		if e.Birthday != "06-15" {
			t.Errorf("expected birthday 06-15, got %s", e.Birthday)
		}
		if e.Redeemed() {
			t.Error("new entries must not be redeemed")
		}
	})

	t.Run("ActiveAt respects redemption and expiry", func(t *testing.T) {
		e, _ := NewCouponLogEntry("cpn-1", "CODE", "42", Birthday{Day: 15, Month: 6}, issued)
		if !e.ActiveAt(issued.AddDate(0, 0, 3), 14) {
			t.Error("expected entry to be active within the expiry window")
		}
		if e.ActiveAt(issued.AddDate(0, 0, 20), 14) {
			t.Error("expected entry to be inactive after expiry")
		}
		ts := issued.AddDate(0, 0, 1)
		e.RedeemedAt = &ts
		if e.ActiveAt(issued.AddDate(0, 0, 3), 14) {
			t.Error("expected redeemed entry to be inactive")
		}
	})
}
