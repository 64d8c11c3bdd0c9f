//go:build !integration

package usecase

import (
	"context"
	"testing"
	"time"

	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/repository"
)

func TestCouponLogUC_ListForUser(t *testing.T) {
	ctx := context.Background()
	b, _ := model.NewBirthday(14, 6)

	fresh, _ := model.NewCouponLogEntry("c1", "BIRTHDAY-A", "42", b, time.Now().AddDate(0, 0, -1))
	expired, _ := model.NewCouponLogEntry("c2", "BIRTHDAY-B", "42", b, time.Now().AddDate(0, 0, -30))
	used, _ := model.NewCouponLogEntry("c3", "BIRTHDAY-C", "42", b, time.Now().AddDate(0, 0, -2))
	ts := time.Now().Add(-time.Hour)
	used.RedeemedAt = &ts

	logs := &mockCouponLogRepo{
		ListForUserFn: func(ctx context.Context, tx repository.Tx, userID string) ([]*model.CouponLogEntry, error) {
			return []*model.CouponLogEntry{fresh, used, expired}, nil
		},
	}
	uc := NewCouponLogUseCase(logs, 14, newTestLogger())

	got, err := uc.ListForUser(ctx, "42")
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if !got[0].Active {
		t.Errorf("fresh coupon not active")
	}
	if got[1].Active {
		t.Errorf("redeemed coupon reported active")
	}
	if got[2].Active {
		t.Errorf("expired coupon reported active")
	}
}

func TestCouponLogUC_ListAll(t *testing.T) {
	ctx := context.Background()

	var seen repository.ListQuery
	logs := &mockCouponLogRepo{
		ListAllFn: func(ctx context.Context, tx repository.Tx, q repository.ListQuery) ([]*model.CouponLogEntry, error) {
			seen = q
			return nil, nil
		},
		CountFn: func(ctx context.Context, tx repository.Tx) (int, error) {
			return 120, nil
		},
	}
	uc := NewCouponLogUseCase(logs, 14, newTestLogger())

	_, total, err := uc.ListAll(ctx, repository.ListQuery{Limit: 0, Offset: -5})
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if seen.Limit != 50 || seen.Offset != 0 {
		t.Errorf("query not clamped: %+v", seen)
	}
	if total != 120 {
		t.Errorf("total = %d, want 120", total)
	}
}
