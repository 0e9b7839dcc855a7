package services

import (
	"crypto/rand"
	"errors"
	"math/big"

	"points-exchange/models"

	"gorm.io/gorm"
)

type ReferralService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewReferralService(db *gorm.DB, ledger *LedgerService) *ReferralService {
	return &ReferralService{DB: db, Ledger: ledger}
}

const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no 0/O, 1/I

// NewReferralCode returns a random 8-character code. Uniqueness is
// enforced by the DB index; the caller retries on conflict.
func NewReferralCode() string {
	buf := make([]byte, 8)
	max := big.NewInt(int64(len(referralCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		buf[i] = referralCodeAlphabet[n.Int64()]
	}
	return string(buf)
}

// SetReferrer links the caller to the owner of the given referral code and
// pays the signup bounty. Self-referral and unknown codes are rejected
// with distinguishable errors; a referrer can be set only once.
func (s *ReferralService) SetReferrer(userID, code string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var caller models.Profile
		if err := tx.First(&caller, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}
		if caller.ReferredBy != nil {
			return ErrReferrerAlreadySet
		}

		var referrer models.Profile
		if err := tx.First(&referrer, "referral_code = ?", code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidReferralCode
			}
			return err
		}
		if referrer.ID == userID {
			return ErrSelfReferral
		}

		if err := tx.Model(&models.Profile{}).
			Where("id = ?", userID).
			Update("referred_by", referrer.ID).Error; err != nil {
			return err
		}

		if err := s.Ledger.Apply(tx, referrer.ID, ReferralSignupPoints, models.TxReferralSignup,
			"Referred a new user", &userID); err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).
			Where("id = ?", referrer.ID).
			Update("total_referral_earnings", gorm.Expr("total_referral_earnings + ?", ReferralSignupPoints)).Error
	})
}

// ReferralStats summarises the caller's referral performance.
type ReferralStats struct {
	Count    int64   `json:"count"`
	Earnings float64 `json:"earnings"`
}

// Stats counts referred users and sums points earned through referrals.
func (s *ReferralService) Stats(userID string) (ReferralStats, error) {
	var stats ReferralStats

	if err := s.DB.Model(&models.Profile{}).
		Where("referred_by = ?", userID).
		Count(&stats.Count).Error; err != nil {
		return stats, err
	}

	var total *float64
	err := s.DB.Model(&models.Transaction{}).
		Select("SUM(amount)").
		Where("user_id = ? AND type IN ?", userID,
			[]models.TransactionType{models.TxReferralSignup, models.TxReferralCommission}).
		Scan(&total).Error
	if err != nil {
		return stats, err
	}
	if total != nil {
		stats.Earnings = *total
	}
	return stats, nil
}
