package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/adapter"
)

// Compile-time check
var _ ProfileUseCase = (*profileUC)(nil)

// ProfileUseCase covers the account-facing profile edits: storing a
// birthday, clearing it, and the notification opt-out.
type ProfileUseCase interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	// SetBirthday validates and stores the day/month pair. Day and
	// month both zero clears the stored birthday instead.
	SetBirthday(ctx context.Context, userID string, day, month int) error
	SetUnsubscribed(ctx context.Context, userID string, unsubscribed bool) error
}

type profileUC struct {
	profiles adapter.ProfileStore
	log      *zerolog.Logger
}

func NewProfileUseCase(profiles adapter.ProfileStore, logger *zerolog.Logger) *profileUC {
	return &profileUC{profiles: profiles, log: logger}
}

func (uc *profileUC) Get(ctx context.Context, userID string) (*model.Profile, error) {
	return uc.profiles.GetProfile(ctx, userID)
}

func (uc *profileUC) SetBirthday(ctx context.Context, userID string, day, month int) error {
	if day == 0 && month == 0 {
		if err := uc.profiles.ClearBirthday(ctx, userID); err != nil {
			return err
		}
		uc.log.Info().Str("user_id", userID).Msg("birthday cleared")
		return nil
	}
	b, err := model.NewBirthday(day, month)
	if err != nil {
		return err
	}
	if err := uc.profiles.SetBirthday(ctx, userID, b); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", userID).Str("birthday", b.MonthDay()).Msg("birthday stored")
	return nil
}

func (uc *profileUC) SetUnsubscribed(ctx context.Context, userID string, unsubscribed bool) error {
	return uc.profiles.SetUnsubscribed(ctx, userID, unsubscribed)
}
