//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"

	"birthday-coupons/internal/domain"
	"birthday-coupons/internal/domain/model"
)

func TestProfileUC_SetBirthday(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a valid birthday", func(t *testing.T) {
		var stored model.Birthday
		profiles := &mockProfileStore{
			SetBirthdayFn: func(ctx context.Context, userID string, b model.Birthday) error {
				stored = b
				return nil
			},
		}
		uc := NewProfileUseCase(profiles, newTestLogger())

		if err := uc.SetBirthday(ctx, "42", 29, 2); err != nil {
			t.Fatalf("SetBirthday() error = %v", err)
		}
		if stored.Day != 29 || stored.Month != 2 {
			t.Errorf("stored = %+v", stored)
		}
	})

	t.Run("rejects an impossible date", func(t *testing.T) {
		uc := NewProfileUseCase(&mockProfileStore{}, newTestLogger())
		if err := uc.SetBirthday(ctx, "42", 31, 4); !errors.Is(err, domain.ErrInvalidBirthday) {
			t.Errorf("err = %v, want ErrInvalidBirthday", err)
		}
	})

	t.Run("zero day and month clears the stored birthday", func(t *testing.T) {
		cleared := false
		profiles := &mockProfileStore{
			ClearBirthdayFn: func(ctx context.Context, userID string) error {
				cleared = true
				return nil
			},
		}
		uc := NewProfileUseCase(profiles, newTestLogger())

		if err := uc.SetBirthday(ctx, "42", 0, 0); err != nil {
			t.Fatalf("SetBirthday() error = %v", err)
		}
		if !cleared {
			t.Errorf("birthday keys not cleared")
		}
	})
}
