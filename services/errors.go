package services

import "errors"

// Validation failures surfaced to the client. The referral and auth texts
// are load-bearing: clients match on "Self-referral", "Invalid" and
// "Invalid login credentials" to pick a specific user-facing message.
var (
	ErrInvalidCredentials  = errors.New("Invalid login credentials")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrSelfReferral        = errors.New("Self-referral is not allowed")
	ErrInvalidReferralCode = errors.New("Invalid referral code")
	ErrReferrerAlreadySet  = errors.New("referrer is already set for this account")
	ErrAlreadyClaimed      = errors.New("reward already claimed for this channel")
	ErrChannelInactive     = errors.New("channel is not active")
	ErrOwnChannel          = errors.New("cannot claim a reward for your own channel")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrChannelNotFound     = errors.New("channel not found")
	ErrNotChannelOwner     = errors.New("channel does not belong to this user")
)
