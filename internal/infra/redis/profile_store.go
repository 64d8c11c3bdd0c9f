package redis

import (
	"context"
	"fmt"
	"strconv"

	"birthday-coupons/internal/domain/model"
	"birthday-coupons/internal/domain/ports/adapter"
)

// Profile meta keys, mirroring the upstream store's naming.
const (
	keyBirthdayDay   = "birthday_day"
	keyBirthdayMonth = "birthday_month"
	keyEmail         = "email"
	keyDisplayName   = "display_name"
	keyUnsubscribed  = "unsubscribed"

	// birthdayIndexKey is the set of user ids that have both birthday
	// keys, maintained on every write so the daily scan avoids a full
	// keyspace walk.
	birthdayIndexKey = "profiles:with_birthday"
)

var _ adapter.ProfileStore = (*ProfileStore)(nil)

// ProfileStore adapts the external user-profile key-value store. Each
// user is one hash keyed by user id; issuance flags are year-suffixed
// fields in the same hash, matching the upstream meta layout.
type ProfileStore struct {
	client RedisClient
}

func NewProfileStore(client RedisClient) *ProfileStore {
	return &ProfileStore{client: client}
}

func profileKey(userID string) string { return fmt.Sprintf("profile:%s", userID) }

func issuedField(year int) string { return fmt.Sprintf("coupon_issued_%d", year) }

func (s *ProfileStore) QueryUsersWithBirthday(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, birthdayIndexKey)
}

func (s *ProfileStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	fields, err := s.client.HGetAll(ctx, profileKey(userID))
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	p := &model.Profile{
		UserID:      userID,
		Email:       fields[keyEmail],
		DisplayName: fields[keyDisplayName],
	}
	// Malformed values leave the birthday zero rather than erroring;
	// the scanner skips such users.
	day, dErr := strconv.Atoi(fields[keyBirthdayDay])
	month, mErr := strconv.Atoi(fields[keyBirthdayMonth])
	if dErr == nil && mErr == nil {
		if b, err := model.NewBirthday(day, month); err == nil {
			p.Birthday = b
		}
	}
	p.Unsubscribed = fields[keyUnsubscribed] == "1"
	return p, nil
}

func (s *ProfileStore) SetBirthday(ctx context.Context, userID string, b model.Birthday) error {
	if !b.Valid() {
		return fmt.Errorf("set birthday %s: invalid day/month", userID)
	}
	if err := s.client.HSet(ctx, profileKey(userID),
		keyBirthdayDay, strconv.Itoa(b.Day),
		keyBirthdayMonth, strconv.Itoa(b.Month),
	); err != nil {
		return fmt.Errorf("set birthday %s: %w", userID, err)
	}
	return s.client.SAdd(ctx, birthdayIndexKey, userID)
}

func (s *ProfileStore) ClearBirthday(ctx context.Context, userID string) error {
	if err := s.client.HDel(ctx, profileKey(userID), keyBirthdayDay, keyBirthdayMonth); err != nil {
		return fmt.Errorf("clear birthday %s: %w", userID, err)
	}
	return s.client.SRem(ctx, birthdayIndexKey, userID)
}

func (s *ProfileStore) SetUnsubscribed(ctx context.Context, userID string, unsubscribed bool) error {
	val := "0"
	if unsubscribed {
		val = "1"
	}
	return s.client.HSet(ctx, profileKey(userID), keyUnsubscribed, val)
}

func (s *ProfileStore) IssuedThisYear(ctx context.Context, userID string, year int) (bool, error) {
	fields, err := s.client.HGetAll(ctx, profileKey(userID))
	if err != nil {
		return false, fmt.Errorf("read issuance flag %s: %w", userID, err)
	}
	return fields[issuedField(year)] != "", nil
}

func (s *ProfileStore) MarkIssued(ctx context.Context, userID string, year int) error {
	if err := s.client.HSet(ctx, profileKey(userID), issuedField(year), "1"); err != nil {
		return fmt.Errorf("mark issued %s: %w", userID, err)
	}
	return nil
}

// SetIdentity stores email and display name; used by the seeding tool
// and profile-edit flows.
func (s *ProfileStore) SetIdentity(ctx context.Context, userID, email, displayName string) error {
	return s.client.HSet(ctx, profileKey(userID), keyEmail, email, keyDisplayName, displayName)
}
