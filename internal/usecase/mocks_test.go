//go:build !integration

package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"birthday-coupons/internal/domain"
	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/adapter"
	"birthday-coupons/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- transaction manager mock ---

// mockTxManager runs the body immediately with no transaction, which
// is enough for use cases whose correctness the tests assert at the
// repository call level.
type mockTxManager struct{}

func (mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// --- profile store mock ---

type mockProfileStore struct {
	QueryUsersWithBirthdayFn func(ctx context.Context) ([]string, error)
	GetProfileFn             func(ctx context.Context, userID string) (*model.Profile, error)
	SetBirthdayFn            func(ctx context.Context, userID string, b model.Birthday) error
	ClearBirthdayFn          func(ctx context.Context, userID string) error
	SetUnsubscribedFn        func(ctx context.Context, userID string, unsubscribed bool) error
	IssuedThisYearFn         func(ctx context.Context, userID string, year int) (bool, error)
	MarkIssuedFn             func(ctx context.Context, userID string, year int) error

	markIssuedCalls []string
}

func (m *mockProfileStore) QueryUsersWithBirthday(ctx context.Context) ([]string, error) {
	return m.QueryUsersWithBirthdayFn(ctx)
}

func (m *mockProfileStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	return m.GetProfileFn(ctx, userID)
}

func (m *mockProfileStore) SetBirthday(ctx context.Context, userID string, b model.Birthday) error {
	if m.SetBirthdayFn != nil {
		return m.SetBirthdayFn(ctx, userID, b)
	}
	return nil
}

func (m *mockProfileStore) ClearBirthday(ctx context.Context, userID string) error {
	if m.ClearBirthdayFn != nil {
		return m.ClearBirthdayFn(ctx, userID)
	}
	return nil
}

func (m *mockProfileStore) SetUnsubscribed(ctx context.Context, userID string, unsubscribed bool) error {
	if m.SetUnsubscribedFn != nil {
		return m.SetUnsubscribedFn(ctx, userID, unsubscribed)
	}
	return nil
}

func (m *mockProfileStore) IssuedThisYear(ctx context.Context, userID string, year int) (bool, error) {
	if m.IssuedThisYearFn != nil {
		return m.IssuedThisYearFn(ctx, userID, year)
	}
	return false, nil
}

func (m *mockProfileStore) MarkIssued(ctx context.Context, userID string, year int) error {
	m.markIssuedCalls = append(m.markIssuedCalls, userID)
	if m.MarkIssuedFn != nil {
		return m.MarkIssuedFn(ctx, userID, year)
	}
	return nil
}

// --- discount engine mock ---

type mockDiscountEngine struct {
	CreateCouponFn func(ctx context.Context, spec model.CouponSpec) (string, error)
	LookupByCodeFn func(ctx context.Context, code string) (string, error)
	GetCouponFn    func(ctx context.Context, couponID string) (*model.Coupon, error)

	created []model.CouponSpec
}

func (m *mockDiscountEngine) CreateCoupon(ctx context.Context, spec model.CouponSpec) (string, error) {
	m.created = append(m.created, spec)
	if m.CreateCouponFn != nil {
		return m.CreateCouponFn(ctx, spec)
	}
	return "coupon-1", nil
}

func (m *mockDiscountEngine) LookupByCode(ctx context.Context, code string) (string, error) {
	if m.LookupByCodeFn != nil {
		return m.LookupByCodeFn(ctx, code)
	}
	return "", domain.ErrNotFound
}

func (m *mockDiscountEngine) GetCoupon(ctx context.Context, couponID string) (*model.Coupon, error) {
	if m.GetCouponFn != nil {
		return m.GetCouponFn(ctx, couponID)
	}
	return nil, domain.ErrNotFound
}

// --- mail transport mock ---

type mockMailTransport struct {
	SendFn func(ctx context.Context, msg adapter.Email) error

	sent []adapter.Email
}

func (m *mockMailTransport) Send(ctx context.Context, msg adapter.Email) error {
	m.sent = append(m.sent, msg)
	if m.SendFn != nil {
		return m.SendFn(ctx, msg)
	}
	return nil
}

// --- coupon log repository mock ---

type mockCouponLogRepo struct {
	InsertFn           func(ctx context.Context, tx repository.Tx, entry *model.CouponLogEntry) (string, error)
	MarkRedeemedFn     func(ctx context.Context, tx repository.Tx, couponID, orderID string, redeemedAt time.Time) error
	FindByCodeFn       func(ctx context.Context, tx repository.Tx, code string) (*model.CouponLogEntry, error)
	FindByCouponIDFn   func(ctx context.Context, tx repository.Tx, couponID string) (*model.CouponLogEntry, error)
	ListForUserFn      func(ctx context.Context, tx repository.Tx, userID string) ([]*model.CouponLogEntry, error)
	ListAllFn          func(ctx context.Context, tx repository.Tx, q repository.ListQuery) ([]*model.CouponLogEntry, error)
	CountFn            func(ctx context.Context, tx repository.Tx) (int, error)
	CountRedeemedFn    func(ctx context.Context, tx repository.Tx) (int, error)
	CountIssuedSinceFn func(ctx context.Context, tx repository.Tx, since time.Time) (int, error)

	inserted []*model.CouponLogEntry
}

func (m *mockCouponLogRepo) Insert(ctx context.Context, tx repository.Tx, entry *model.CouponLogEntry) (string, error) {
	m.inserted = append(m.inserted, entry)
	if m.InsertFn != nil {
		return m.InsertFn(ctx, tx, entry)
	}
	return entry.ID, nil
}

func (m *mockCouponLogRepo) MarkRedeemed(ctx context.Context, tx repository.Tx, couponID, orderID string, redeemedAt time.Time) error {
	if m.MarkRedeemedFn != nil {
		return m.MarkRedeemedFn(ctx, tx, couponID, orderID, redeemedAt)
	}
	return nil
}

func (m *mockCouponLogRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.CouponLogEntry, error) {
	if m.FindByCodeFn != nil {
		return m.FindByCodeFn(ctx, tx, code)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCouponLogRepo) FindByCouponID(ctx context.Context, tx repository.Tx, couponID string) (*model.CouponLogEntry, error) {
	if m.FindByCouponIDFn != nil {
		return m.FindByCouponIDFn(ctx, tx, couponID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCouponLogRepo) ListForUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.CouponLogEntry, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, tx, userID)
	}
	return nil, nil
}

func (m *mockCouponLogRepo) ListAll(ctx context.Context, tx repository.Tx, q repository.ListQuery) ([]*model.CouponLogEntry, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx, tx, q)
	}
	return nil, nil
}

func (m *mockCouponLogRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, tx)
	}
	return 0, nil
}

func (m *mockCouponLogRepo) CountRedeemed(ctx context.Context, tx repository.Tx) (int, error) {
	if m.CountRedeemedFn != nil {
		return m.CountRedeemedFn(ctx, tx)
	}
	return 0, nil
}

func (m *mockCouponLogRepo) CountIssuedSince(ctx context.Context, tx repository.Tx, since time.Time) (int, error) {
	if m.CountIssuedSinceFn != nil {
		return m.CountIssuedSinceFn(ctx, tx, since)
	}
	return 0, nil
}
