package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"birthday-coupons/internal/domain"
	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/repository"
)

var _ repository.CouponLogRepository = (*CouponLogRepo)(nil)

type CouponLogRepo struct {
	pool *pgxpool.Pool
}

func NewCouponLogRepo(pool *pgxpool.Pool) *CouponLogRepo {
	return &CouponLogRepo{pool: pool}
}

const logColumns = `id, coupon_id, coupon_code, user_id, user_birthday, coupon_generation_date, coupon_redeemed_date, order_id`

// orderableColumns is the whitelist for ListAll order_by input. Unknown
// values fall back to coupon_generation_date.
var orderableColumns = map[string]struct{}{
	"id":                     {},
	"coupon_id":              {},
	"coupon_code":            {},
	"user_id":                {},
	"user_birthday":          {},
	"coupon_generation_date": {},
	"coupon_redeemed_date":   {},
	"order_id":               {},
}

func (r *CouponLogRepo) Insert(ctx context.Context, tx repository.Tx, entry *model.CouponLogEntry) (string, error) {
	const q = `
INSERT INTO birthday_coupon_log (id, coupon_id, coupon_code, user_id, user_birthday, coupon_generation_date)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := execSQL(ctx, r.pool, tx, q,
		entry.ID, entry.CouponID, entry.CouponCode, entry.UserID, entry.Birthday, entry.GeneratedAt)
	if err != nil {
		return "", fmt.Errorf("insert coupon log: %w", err)
	}
	return entry.ID, nil
}

func (r *CouponLogRepo) MarkRedeemed(ctx context.Context, tx repository.Tx, couponID, orderID string, redeemedAt time.Time) error {
	// The WHERE clause makes the update idempotent: a second call with
	// the same order id matches zero rows, and a row redeemed under a
	// different order is never overwritten.
	const q = `
UPDATE birthday_coupon_log
   SET coupon_redeemed_date = $3, order_id = $2
 WHERE coupon_id = $1 AND coupon_redeemed_date IS NULL`
	_, err := execSQL(ctx, r.pool, tx, q, couponID, orderID, redeemedAt)
	if err != nil {
		return fmt.Errorf("mark redeemed: %w", err)
	}
	return nil
}

func (r *CouponLogRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.CouponLogEntry, error) {
	q := `SELECT ` + logColumns + ` FROM birthday_coupon_log WHERE coupon_code = $1`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	return scanEntry(row)
}

func (r *CouponLogRepo) FindByCouponID(ctx context.Context, tx repository.Tx, couponID string) (*model.CouponLogEntry, error) {
	q := `SELECT ` + logColumns + ` FROM birthday_coupon_log WHERE coupon_id = $1`
	row, err := pickRow(ctx, r.pool, tx, q, couponID)
	if err != nil {
		return nil, err
	}
	return scanEntry(row)
}

func (r *CouponLogRepo) ListForUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.CouponLogEntry, error) {
	q := `SELECT ` + logColumns + ` FROM birthday_coupon_log WHERE user_id = $1 ORDER BY coupon_generation_date DESC`
	rows, err := pickRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list for user: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// orderClause resolves the caller-supplied sort request against the
// column whitelist. Anything not whitelisted sorts by
// coupon_generation_date; only a literal "asc" flips the direction.
// The result is the only caller input ever spliced into SQL text.
func orderClause(lq repository.ListQuery) string {
	col := lq.OrderBy
	if _, ok := orderableColumns[col]; !ok {
		col = "coupon_generation_date"
	}
	dir := "DESC"
	if strings.EqualFold(lq.OrderDir, "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}

func (r *CouponLogRepo) ListAll(ctx context.Context, tx repository.Tx, lq repository.ListQuery) ([]*model.CouponLogEntry, error) {
	limit := lq.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := lq.Offset
	if offset < 0 {
		offset = 0
	}

	q := fmt.Sprintf(`SELECT %s FROM birthday_coupon_log ORDER BY %s LIMIT $1 OFFSET $2`, logColumns, orderClause(lq))
	rows, err := pickRows(ctx, r.pool, tx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list all: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *CouponLogRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(id) FROM birthday_coupon_log`)
}

func (r *CouponLogRepo) CountRedeemed(ctx context.Context, tx repository.Tx) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(id) FROM birthday_coupon_log WHERE coupon_redeemed_date IS NOT NULL`)
}

func (r *CouponLogRepo) CountIssuedSince(ctx context.Context, tx repository.Tx, since time.Time) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(id) FROM birthday_coupon_log WHERE coupon_generation_date >= $1`, since)
}

func (r *CouponLogRepo) countWhere(ctx context.Context, tx repository.Tx, q string, args ...interface{}) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, q, args...)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func scanEntry(row pgx.Row) (*model.CouponLogEntry, error) {
	var e model.CouponLogEntry
	err := row.Scan(&e.ID, &e.CouponID, &e.CouponCode, &e.UserID, &e.Birthday,
		&e.GeneratedAt, &e.RedeemedAt, &e.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func collectEntries(rows pgx.Rows) ([]*model.CouponLogEntry, error) {
	var out []*model.CouponLogEntry
	for rows.Next() {
		var e model.CouponLogEntry
		if err := rows.Scan(&e.ID, &e.CouponID, &e.CouponCode, &e.UserID, &e.Birthday,
			&e.GeneratedAt, &e.RedeemedAt, &e.OrderID); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
