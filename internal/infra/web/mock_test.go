//go:build !integration

package web

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/repository"
	"birthday-coupons/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type mockCouponLogUC struct {
	ListForUserFn func(ctx context.Context, userID string) ([]usecase.UserCoupon, error)
	ListAllFn     func(ctx context.Context, q repository.ListQuery) ([]*model.CouponLogEntry, int, error)
}

func (m *mockCouponLogUC) ListForUser(ctx context.Context, userID string) ([]usecase.UserCoupon, error) {
	return m.ListForUserFn(ctx, userID)
}

func (m *mockCouponLogUC) ListAll(ctx context.Context, q repository.ListQuery) ([]*model.CouponLogEntry, int, error) {
	return m.ListAllFn(ctx, q)
}

type mockStatsUC struct {
	TotalsFn func(ctx context.Context) (usecase.Stats, error)
}

func (m *mockStatsUC) Totals(ctx context.Context) (usecase.Stats, error) {
	return m.TotalsFn(ctx)
}

type mockIssuanceUC struct {
	RunDailyCheckFn func(ctx context.Context, today time.Time) (usecase.RunReport, error)
	IssueForUserFn  func(ctx context.Context, userID string, today time.Time) error
}

func (m *mockIssuanceUC) RunDailyCheck(ctx context.Context, today time.Time) (usecase.RunReport, error) {
	if m.RunDailyCheckFn != nil {
		return m.RunDailyCheckFn(ctx, today)
	}
	return usecase.RunReport{}, nil
}

func (m *mockIssuanceUC) IssueForUser(ctx context.Context, userID string, today time.Time) error {
	if m.IssueForUserFn != nil {
		return m.IssueForUserFn(ctx, userID, today)
	}
	return nil
}
