package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"birthday-coupons/internal/domain"
	"birthday-coupons/internal/domain/ports/repository"
	"birthday-coupons/internal/infra/logging"
	"birthday-coupons/internal/infra/metrics"
)

// Compile-time check
var _ RedemptionUseCase = (*redemptionUC)(nil)

type RedemptionUseCase interface {
	// HandleOrderFinalized correlates the coupon codes applied to a
	// finalized order with the audit log. Codes this core never minted
	// are ignored; already-redeemed entries stay untouched. Returns how
	// many entries were newly marked redeemed.
	HandleOrderFinalized(ctx context.Context, orderID string, appliedCodes []string) (int, error)
}

type redemptionUC struct {
	logs repository.CouponLogRepository
	tm   repository.TransactionManager
	log  *zerolog.Logger
}

func NewRedemptionUseCase(logs repository.CouponLogRepository, tm repository.TransactionManager, logger *zerolog.Logger) *redemptionUC {
	return &redemptionUC{logs: logs, tm: tm, log: logger}
}

func (uc *redemptionUC) HandleOrderFinalized(ctx context.Context, orderID string, appliedCodes []string) (int, error) {
	defer logging.TraceDuration(uc.log, "RedemptionUC.HandleOrderFinalized")()

	if orderID == "" {
		return 0, domain.ErrInvalidArgument
	}

	redeemed := 0
	for _, code := range appliedCodes {
		switch err := uc.correlate(ctx, orderID, code); {
		case err == nil:
			metrics.IncRedemption("redeemed")
			redeemed++
			uc.log.Info().Str("order_id", orderID).Str("coupon_code", code).
				Msg("birthday coupon redeemed")
		case errors.Is(err, domain.ErrNotFound):
			// Not one of ours; the order pipeline applies all kinds of
			// coupons and only birthday codes are tracked here.
			metrics.IncRedemption("unknown_code")
		case errors.Is(err, domain.ErrAlreadyRedeemed):
			metrics.IncRedemption("duplicate")
			uc.log.Debug().Str("order_id", orderID).Str("coupon_code", code).
				Msg("coupon already redeemed")
		default:
			metrics.IncRedemption("error")
			uc.log.Warn().Err(err).Str("order_id", orderID).Str("coupon_code", code).
				Msg("redemption correlation failed")
		}
	}
	return redeemed, nil
}

// correlate reads and conditionally updates one audit entry inside a
// single transaction, so two concurrent webhook deliveries cannot both
// observe the entry as unredeemed.
func (uc *redemptionUC) correlate(ctx context.Context, orderID, code string) error {
	now := time.Now()
	return uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		entry, err := uc.logs.FindByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if entry.Redeemed() {
			return domain.ErrAlreadyRedeemed
		}
		return uc.logs.MarkRedeemed(ctx, tx, entry.CouponID, orderID, now)
	})
}
