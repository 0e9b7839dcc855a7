package services

import (
	"errors"
	"time"

	"points-exchange/models"

	"gorm.io/gorm"
)

type ProfileService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewProfileService(db *gorm.DB, ledger *LedgerService) *ProfileService {
	return &ProfileService{DB: db, Ledger: ledger}
}

// EnsureProfile creates the profile row for a new account and books the
// signup bonus. Safe to call again for an existing user: it returns the
// stored row without a second bonus.
func (s *ProfileService) EnsureProfile(userID, email string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.First(&profile, "id = ?", userID).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		profile = models.Profile{
			ID:           userID,
			Email:        email,
			ReferralCode: NewReferralCode(),
		}
		// Retry once on a referral code collision; the code space makes a
		// second collision vanishingly unlikely.
		if createErr := tx.Create(&profile).Error; createErr != nil {
			profile.ReferralCode = NewReferralCode()
			if createErr = tx.Create(&profile).Error; createErr != nil {
				return createErr
			}
		}
		return s.Ledger.Apply(tx, userID, SignupBonusPoints, models.TxSignupBonus, "Welcome bonus", nil)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Get returns the full profile row.
func (s *ProfileService) Get(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.DB.First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// ProfileUpdate carries the completable fields. Nil means "leave as is".
type ProfileUpdate struct {
	FullName  *string `json:"full_name"`
	Country   *string `json:"country"`
	AvatarURL *string `json:"avatar_url"`
}

// Upsert applies the profile-completion fields. Balance fields keep their
// defaults when the row is created here (the signup trigger may have
// failed), and are never touched on update.
func (s *ProfileService) Upsert(userID, email string, upd ProfileUpdate) (*models.Profile, error) {
	profile, err := s.EnsureProfile(userID, email)
	if err != nil {
		return nil, err
	}

	if upd.FullName != nil {
		profile.FullName = upd.FullName
	}
	if upd.Country != nil {
		profile.Country = upd.Country
	}
	if upd.AvatarURL != nil {
		profile.AvatarURL = upd.AvatarURL
	}

	if err := s.DB.Model(&models.Profile{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"full_name":  profile.FullName,
		"country":    profile.Country,
		"avatar_url": profile.AvatarURL,
	}).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// TouchActive records recent activity; the daily bonus job only pays
// users seen within the last day.
func (s *ProfileService) TouchActive(userID string) {
	now := time.Now().UTC()
	s.DB.Model(&models.Profile{}).Where("id = ?", userID).Update("last_active_at", now)
}
