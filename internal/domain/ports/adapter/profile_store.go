package adapter

import (
	"context"

	"birthday-coupons/internal/domain/model"
)

// ProfileStore is the narrow interface over the external user-profile
// key-value store. The core reads birthdays and flags through it and
// writes only its own issuance/unsubscribe markers.
type ProfileStore interface {
	// QueryUsersWithBirthday enumerates user ids that have both
	// birthday keys set.
	QueryUsersWithBirthday(ctx context.Context) ([]string, error)
	// GetProfile loads the profile slice the core cares about. A user
	// with malformed birthday keys comes back with a zero Birthday.
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	// SetBirthday stores a validated birthday.
	SetBirthday(ctx context.Context, userID string, b model.Birthday) error
	// ClearBirthday removes the birthday keys.
	ClearBirthday(ctx context.Context, userID string) error
	// SetUnsubscribed toggles the unsubscribe flag.
	SetUnsubscribed(ctx context.Context, userID string, unsubscribed bool) error
	// IssuedThisYear reports whether a coupon was already issued to the
	// user for the given year.
	IssuedThisYear(ctx context.Context, userID string, year int) (bool, error)
	// MarkIssued sets the per-year issuance flag.
	MarkIssued(ctx context.Context, userID string, year int) error
}
