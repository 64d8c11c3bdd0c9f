package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"birthday-coupons/internal/config"
	"birthday-coupons/internal/domain"
	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/adapter"
	"birthday-coupons/internal/domain/ports/repository"
	"birthday-coupons/internal/infra/adapters/mail"
	"birthday-coupons/internal/infra/logging"
	"birthday-coupons/internal/infra/metrics"
)

// maxCodeAttempts bounds the mint retry loop when generated codes keep
// colliding with codes already known to the discount engine.
const maxCodeAttempts = 8

// Compile-time check
var _ IssuanceUseCase = (*issuanceUC)(nil)

// RunReport summarizes one daily issuance pass.
type RunReport struct {
	Scanned int
	Issued  int
	Skipped int
	Failed  int
}

type IssuanceUseCase interface {
	// RunDailyCheck scans every profile with a stored birthday and
	// issues a coupon to each user whose birthday falls within the
	// lookahead window. Per-user failures are contained; the run only
	// errors when the scan itself cannot proceed.
	RunDailyCheck(ctx context.Context, today time.Time) (RunReport, error)
	// IssueForUser runs the guard+mint+log+notify pipeline for one
	// user, regardless of the lookahead window. Used for manual
	// re-issues from the admin surface.
	IssueForUser(ctx context.Context, userID string, today time.Time) error
}

type issuanceUC struct {
	profiles adapter.ProfileStore
	engine   adapter.DiscountEngine
	logs     repository.CouponLogRepository
	mailer   adapter.MailTransport
	renderer *mail.Renderer

	coupon    config.CouponConfig
	lookahead int
	loc       *time.Location

	log *zerolog.Logger
}

func NewIssuanceUseCase(
	profiles adapter.ProfileStore,
	engine adapter.DiscountEngine,
	logs repository.CouponLogRepository,
	mailer adapter.MailTransport,
	renderer *mail.Renderer,
	coupon config.CouponConfig,
	lookahead int,
	loc *time.Location,
	logger *zerolog.Logger,
) *issuanceUC {
	if lookahead <= 0 {
		lookahead = 7
	}
	if loc == nil {
		loc = time.UTC
	}
	return &issuanceUC{
		profiles:  profiles,
		engine:    engine,
		logs:      logs,
		mailer:    mailer,
		renderer:  renderer,
		coupon:    coupon,
		lookahead: lookahead,
		loc:       loc,
		log:       logger,
	}
}

func (uc *issuanceUC) RunDailyCheck(ctx context.Context, today time.Time) (RunReport, error) {
	defer logging.TraceDuration(uc.log, "IssuanceUC.RunDailyCheck")()

	ctx = logging.WithRunID(ctx, uuid.NewString())
	log := logging.With(ctx, uc.log)
	today = today.In(uc.loc)

	userIDs, err := uc.profiles.QueryUsersWithBirthday(ctx)
	if err != nil {
		metrics.IncIssuanceRun("failed")
		return RunReport{}, fmt.Errorf("query users with birthday: %w", err)
	}

	var report RunReport
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			metrics.IncIssuanceRun("failed")
			return report, err
		}
		report.Scanned++

		switch err := uc.issueOne(ctx, userID, today, true); {
		case err == nil:
			report.Issued++
		case errors.Is(err, errNotInWindow):
			// Not eligible today, nothing to report.
		case errors.Is(err, domain.ErrAlreadyIssued), errors.Is(err, domain.ErrUnsubscribed):
			report.Skipped++
		default:
			report.Failed++
			log.Warn().Err(err).Str("user_id", userID).Msg("issuance failed for user")
		}
	}

	metrics.IncIssuanceRun("completed")
	log.Info().
		Int("scanned", report.Scanned).
		Int("issued", report.Issued).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("daily issuance run finished")
	return report, nil
}

func (uc *issuanceUC) IssueForUser(ctx context.Context, userID string, today time.Time) error {
	return uc.issueOne(ctx, userID, today.In(uc.loc), false)
}

// errNotInWindow marks users whose next birthday is outside the
// lookahead window; it never leaves this package.
var errNotInWindow = errors.New("birthday outside lookahead window")

func (uc *issuanceUC) issueOne(ctx context.Context, userID string, today time.Time, enforceWindow bool) error {
	ctx = logging.WithUserID(ctx, userID)
	log := logging.With(ctx, uc.log)

	profile, err := uc.profiles.GetProfile(ctx, userID)
	if err != nil {
		metrics.IncCouponSkipped("store_error")
		return fmt.Errorf("load profile: %w", err)
	}
	if !profile.HasBirthday() {
		// Malformed or missing birthday keys make the user invisible
		// to the scan rather than failing the run. A targeted issue
		// reports it so the caller can tell the user apart from one
		// whose birthday is merely out of range.
		if enforceWindow {
			return errNotInWindow
		}
		return domain.ErrInvalidBirthday
	}

	// The canonical issue day is exactly lookahead days ahead; smaller
	// distances cover days the host scheduler missed.
	days := profile.Birthday.DaysUntil(today)
	if enforceWindow && days > uc.lookahead {
		return errNotInWindow
	}

	// The flag is keyed by the occurrence year, not the run year, so a
	// late-December run for an early-January birthday cannot be
	// re-issued after the calendar rolls over.
	occurrence := profile.Birthday.NextOccurrence(today)
	flagYear := occurrence.Year()

	if profile.Unsubscribed {
		metrics.IncCouponSkipped("unsubscribed")
		return domain.ErrUnsubscribed
	}
	issued, err := uc.profiles.IssuedThisYear(ctx, userID, flagYear)
	if err != nil {
		metrics.IncCouponSkipped("store_error")
		return fmt.Errorf("read issuance flag: %w", err)
	}
	if issued {
		metrics.IncCouponSkipped("already_issued")
		return domain.ErrAlreadyIssued
	}

	now := time.Now().In(uc.loc)
	coupon, err := uc.mintCoupon(ctx, profile, now)
	if err != nil {
		metrics.IncCouponSkipped("engine_error")
		return fmt.Errorf("mint coupon: %w", err)
	}

	entry, err := model.NewCouponLogEntry(coupon.ID, coupon.Code, userID, profile.Birthday, now)
	if err != nil {
		metrics.IncCouponSkipped("log_error")
		return fmt.Errorf("build audit entry: %w", err)
	}
	if _, err := uc.logs.Insert(ctx, repository.NoTX, entry); err != nil {
		// The engine-side coupon exists but is untracked; surface it
		// loudly so an operator can reconcile.
		metrics.IncCouponSkipped("log_error")
		log.Error().Err(err).Str("coupon_code", coupon.Code).Msg("audit insert failed after mint")
		return fmt.Errorf("insert audit entry: %w", err)
	}

	if err := uc.profiles.MarkIssued(ctx, userID, flagYear); err != nil {
		// The coupon is minted and logged. A missing flag risks a
		// duplicate on the next run, so this is an error, not a warn.
		log.Error().Err(err).Int("year", flagYear).Msg("issuance flag write failed")
	}

	metrics.IncCouponIssued()
	log.Info().
		Str("coupon_code", coupon.Code).
		Int("days_until_birthday", days).
		Msg("birthday coupon issued")

	uc.notify(ctx, profile, coupon)
	return nil
}

// mintCoupon generates a candidate code, verifies the engine does not
// already know it, and registers the coupon. Collisions retry with a
// fresh code up to maxCodeAttempts times.
func (uc *issuanceUC) mintCoupon(ctx context.Context, profile *model.Profile, now time.Time) (*model.Coupon, error) {
	expiresAt := now.AddDate(0, 0, uc.coupon.ExpiryDays)

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := strings.ToUpper(uc.coupon.Prefix + ulid.Make().String())

		_, err := uc.engine.LookupByCode(ctx, code)
		switch {
		case err == nil:
			continue // Code already taken.
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("lookup code %s: %w", code, err)
		}

		spec, err := model.NewBirthdayCouponSpec(
			code,
			model.DiscountType(uc.coupon.Type),
			uc.coupon.Amount,
			expiresAt,
			profile.UserID,
			profile.Email,
			now,
		)
		if err != nil {
			return nil, err
		}

		id, err := uc.engine.CreateCoupon(ctx, spec)
		if errors.Is(err, domain.ErrDuplicateCode) {
			continue // Raced another creator for the same code.
		}
		if err != nil {
			return nil, err
		}
		return &model.Coupon{
			ID:           id,
			Code:         code,
			DiscountType: spec.DiscountType,
			Amount:       spec.Amount,
			ExpiresAt:    expiresAt,
		}, nil
	}
	return nil, domain.ErrCodeSpaceExhausted
}

// notify renders and sends the birthday email. Failures are logged and
// counted but never undo the issuance.
func (uc *issuanceUC) notify(ctx context.Context, profile *model.Profile, coupon *model.Coupon) {
	log := logging.With(ctx, uc.log)

	subject, body, err := uc.renderer.Render(profile, coupon)
	if err != nil {
		metrics.IncMailSend("failed")
		log.Error().Err(err).Msg("render birthday email")
		return
	}
	msg := adapter.Email{
		To:       profile.Email,
		Subject:  subject,
		HTMLBody: body,
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		log.Warn().Err(err).Msg("send birthday email")
	}
}
