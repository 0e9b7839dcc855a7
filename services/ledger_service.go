package services

import (
	"errors"
	"fmt"

	"points-exchange/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reward amounts and rates. Points are the only currency; every change
// goes through the ledger so the balance stays the running sum of the
// user's transactions.
const (
	SignupBonusPoints      = 5.0
	DailyBonusPoints       = 1.0
	AdRewardPoints         = 2.0
	FollowRewardPoints     = 3.0
	FollowerCostPoints     = 3.0
	ReferralSignupPoints   = 20.0
	ReferralCommissionRate = 0.40

	// Minimum balance to submit a channel: the owner must be able to pay
	// for at least one follower up front.
	MinBalanceToAddChannel = 3.0
)

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// Apply moves amount points on the user's balance and appends the matching
// ledger row. Must be called inside a DB transaction; both writes commit
// or roll back together.
func (s *LedgerService) Apply(tx *gorm.DB, userID string, amount float64, txType models.TransactionType, description string, sourceUserID *string) error {
	res := tx.Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	entry := models.Transaction{
		ID:           uuid.NewString(),
		UserID:       userID,
		Amount:       amount,
		Type:         txType,
		Description:  description,
		SourceUserID: sourceUserID,
	}
	return tx.Create(&entry).Error
}

// PayCommission credits the earner's referrer with a share of the earned
// amount. A user without a referrer earns nothing extra; that is the
// normal case, not an error.
func (s *LedgerService) PayCommission(tx *gorm.DB, earner *models.Profile, earned float64) error {
	if earner.ReferredBy == nil {
		return nil
	}
	commission := earned * ReferralCommissionRate
	if commission <= 0 {
		return nil
	}

	desc := fmt.Sprintf("%.0f%% commission from referred user earnings", ReferralCommissionRate*100)
	if err := s.Apply(tx, *earner.ReferredBy, commission, models.TxReferralCommission, desc, &earner.ID); err != nil {
		// A vanished referrer must not fail the earner's claim.
		if errors.Is(err, ErrProfileNotFound) {
			return nil
		}
		return err
	}

	return tx.Model(&models.Profile{}).
		Where("id = ?", *earner.ReferredBy).
		Update("total_referral_earnings", gorm.Expr("total_referral_earnings + ?", commission)).Error
}

// Balance returns the current points balance for a user.
func (s *LedgerService) Balance(userID string) (float64, error) {
	var profile models.Profile
	if err := s.DB.Select("points").First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProfileNotFound
		}
		return 0, err
	}
	return profile.Points, nil
}

// RecentTransactions lists the user's newest ledger entries.
func (s *LedgerService) RecentTransactions(userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var txs []models.Transaction
	err := s.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}
