package models

import (
	"time"
)

// Profile is the user-facing account state: display info, points balance,
// and referral linkage. One row per user; the row is created on signup
// (or lazily by the profile upsert) and never deleted.
type Profile struct {
	ID                    string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email                 string     `gorm:"uniqueIndex;not null" json:"email"`
	FullName              *string    `json:"full_name"`
	Country               *string    `json:"country"` // nil = profile not completed yet
	AvatarURL             *string    `gorm:"type:text" json:"avatar_url"`
	Points                float64    `gorm:"not null;default:0" json:"points"`
	ReferralCode          string     `gorm:"uniqueIndex;not null;type:varchar(16)" json:"referral_code"`
	ReferredBy            *string    `gorm:"type:uuid;index" json:"referred_by"`
	TotalReferralEarnings float64    `gorm:"not null;default:0" json:"total_referral_earnings"`
	LastActiveAt          *time.Time `json:"last_active_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Completed reports whether the profile has been filled in after signup.
// Country doubles as the completion marker, same rule the session guard
// applies on the client.
func (p *Profile) Completed() bool {
	return p.Country != nil && *p.Country != ""
}

// Account holds the credential side of a user, separate from the public
// Profile row. ID is shared with the Profile.
type Account struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}
