package services

import (
	"errors"
	"fmt"

	"points-exchange/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardService implements the claim procedures. Each claim is one DB
// transaction: balance moves, ledger rows, follow records and channel
// state all commit together, so a failed claim leaves nothing behind.
type RewardService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewRewardService(db *gorm.DB, ledger *LedgerService) *RewardService {
	return &RewardService{DB: db, Ledger: ledger}
}

// ClaimAdReward credits the fixed ad-watch reward and pays out the
// referral commission. The 30s watch gate is client-side pacing only; the
// server just books the claim.
func (s *RewardService) ClaimAdReward(userID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var earner models.Profile
		if err := tx.First(&earner, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		if err := s.Ledger.Apply(tx, userID, AdRewardPoints, models.TxAdReward, "Watched a sponsored ad", nil); err != nil {
			return err
		}
		return s.Ledger.PayCommission(tx, &earner, AdRewardPoints)
	})
}

// ClaimFollowReward credits the follow reward for a channel and charges
// the channel owner for the new follower. Rejected when the channel is
// inactive, owned by the caller, or already claimed by the caller — the
// (user, channel) follow row is the duplicate guard.
func (s *RewardService) ClaimFollowReward(userID, channelID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var channel models.Channel
		if err := tx.First(&channel, "id = ?", channelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChannelNotFound
			}
			return err
		}

		if channel.UserID == userID {
			return ErrOwnChannel
		}

		// Duplicate check comes before the active check: a repeat claim on
		// a channel that has since auto-paused is still a conflict.
		var existing int64
		if err := tx.Model(&models.Follow{}).
			Where("user_id = ? AND channel_id = ?", userID, channelID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyClaimed
		}

		if !channel.Active {
			return ErrChannelInactive
		}

		var earner models.Profile
		if err := tx.First(&earner, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		follow := models.Follow{
			ID:        uuid.NewString(),
			UserID:    userID,
			ChannelID: channelID,
		}
		if err := tx.Create(&follow).Error; err != nil {
			return err
		}

		// Owner pays for the follower, follower earns the reward.
		if err := s.Ledger.Apply(tx, channel.UserID, -FollowerCostPoints, models.TxSpentOnFollower,
			fmt.Sprintf("New follower on %s", channel.Name), &userID); err != nil {
			return err
		}
		if err := s.Ledger.Apply(tx, userID, FollowRewardPoints, models.TxFollowReward,
			fmt.Sprintf("Followed %s", channel.Name), nil); err != nil {
			return err
		}
		if err := s.Ledger.PayCommission(tx, &earner, FollowRewardPoints); err != nil {
			return err
		}

		channel.CurrentFollowers++

		var owner models.Profile
		if err := tx.First(&owner, "id = ?", channel.UserID).Error; err != nil {
			return err
		}
		if owner.Points < MinBalanceToAddChannel || channel.TargetReached() {
			channel.Active = false
		}
		return tx.Save(&channel).Error
	})
}
