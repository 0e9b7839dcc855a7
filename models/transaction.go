package models

import (
	"time"
)

// TransactionType labels a ledger entry.
type TransactionType string

const (
	TxSignupBonus        TransactionType = "signup_bonus"
	TxReferralSignup     TransactionType = "referral_signup"
	TxFollowReward       TransactionType = "follow_reward"
	TxAdReward           TransactionType = "ad_reward"
	TxReferralCommission TransactionType = "referral_commission"
	TxAddChannel         TransactionType = "add_channel"
	TxDailyBonus         TransactionType = "daily_bonus"
	TxSpentOnFollower    TransactionType = "spent_on_follower"
)

// Debit reports whether the type represents spending (negative amount).
func (t TransactionType) Debit() bool {
	return t == TxAddChannel || t == TxSpentOnFollower
}

// Transaction is an append-only ledger row explaining a balance change.
// Rows are written only by the ledger service, inside the same DB
// transaction that moves the points, so the balance always equals the
// running sum of the user's entries.
type Transaction struct {
	ID           string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string          `gorm:"type:uuid;index;not null" json:"user_id"`
	Amount       float64         `gorm:"not null" json:"amount"` // signed
	Type         TransactionType `gorm:"type:varchar(32);not null;index" json:"type"`
	Description  string          `json:"description"`
	SourceUserID *string         `gorm:"type:uuid" json:"source_user_id,omitempty"` // e.g. the referred user behind a commission
	CreatedAt    time.Time       `json:"created_at" gorm:"autoCreateTime"`
}
