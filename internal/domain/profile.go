package domain

import "time"

// ProfileStatus is the account state of a customer profile
type ProfileStatus string

const (
	ProfileActive    ProfileStatus = "active"
	ProfileSuspended ProfileStatus = "suspended"
)

// Valid reports whether s is one of the known statuses
func (s ProfileStatus) Valid() bool {
	return s == ProfileActive || s == ProfileSuspended
}

// Profile is a customer record. Its ID ties to an auth identity when the
// profile was created through registration.
type Profile struct {
	ID        string        `json:"id" db:"id"`
	FullName  string        `json:"full_name" db:"full_name" validate:"required"`
	Email     string        `json:"email" db:"email" validate:"required,email"`
	AvatarURL *string       `json:"avatar_url,omitempty" db:"avatar_url"`
	Phone     *string       `json:"phone,omitempty" db:"phone"`
	Address   *string       `json:"address,omitempty" db:"address"`
	Status    ProfileStatus `json:"status" db:"status" validate:"required,oneof=active suspended"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}
