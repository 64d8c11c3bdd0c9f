package model

// Profile is the slice of the external user-profile store this core
// reads: identity for addressing the email, the stored birthday, and
// the unsubscribe preference. Issuance flags live beside these keys in
// the store but are year-scoped, so they are read through the
// ProfileStore port rather than carried here.
type Profile struct {
	UserID       string   `json:"user_id"`
	Email        string   `json:"email"`
	DisplayName  string   `json:"display_name"`
	Birthday     Birthday `json:"birthday"`
	Unsubscribed bool     `json:"unsubscribed"`
}

// HasBirthday reports whether the profile carries a well-formed
// birthday. Malformed or absent birthdays make the user invisible to
// the eligibility scan.
func (p *Profile) HasBirthday() bool {
	return p != nil && !p.Birthday.IsZero() && p.Birthday.Valid()
}
