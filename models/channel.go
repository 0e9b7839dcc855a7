package models

import (
	"time"
)

const (
	PlatformTelegram = "telegram"
	PlatformYouTube  = "youtube"
	PlatformTikTok   = "tiktok"
)

// ValidPlatform reports whether p is one of the supported platforms.
func ValidPlatform(p string) bool {
	switch p {
	case PlatformTelegram, PlatformYouTube, PlatformTikTok:
		return true
	}
	return false
}

// Channel is a user-submitted social account that other users follow for
// points. Inactive channels are hidden from everyone's task list; the
// follow procedure pauses a channel when the owner can no longer pay for
// followers or the follower target is reached.
type Channel struct {
	ID               string  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID           string  `gorm:"type:uuid;index;not null" json:"user_id"`
	Platform         string  `gorm:"type:varchar(16);not null" json:"platform"`
	Name             string  `gorm:"not null" json:"name"`
	Slug             string  `gorm:"index" json:"slug"`
	URL              string  `gorm:"not null" json:"url"`
	ImageURL         *string `gorm:"type:text" json:"image_url"`
	Active           bool    `gorm:"default:true;index" json:"active"`
	TargetFollowers  *int64  `json:"target_followers"`
	CurrentFollowers int64   `gorm:"not null;default:0" json:"current_followers"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TargetReached reports whether the channel hit its follower target.
// Channels without a target never fill up.
func (c *Channel) TargetReached() bool {
	return c.TargetFollowers != nil && c.CurrentFollowers >= *c.TargetFollowers
}

// Follow records that a user already claimed the reward for following a
// channel. The unique pair index is the duplicate-claim guard; rows are
// written only by the follow claim procedure.
type Follow struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_follow_user_channel" json:"user_id"`
	ChannelID string    `gorm:"type:uuid;not null;uniqueIndex:idx_follow_user_channel" json:"channel_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
