package services

import (
	"time"

	"points-exchange/models"
	"points-exchange/utils"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// BonusService runs the background jobs: the daily activity bonus and the
// sweep that pauses channels whose owners can no longer pay for followers.
type BonusService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Log    *utils.Logger
}

func NewBonusService(db *gorm.DB, ledger *LedgerService, log *utils.Logger) *BonusService {
	return &BonusService{DB: db, Ledger: ledger, Log: log}
}

func (s *BonusService) StartSchedulers() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			if n, err := s.GrantDailyBonuses(); err != nil {
				s.Log.Errorf("[Scheduler] daily bonus run failed: %v", err)
			} else {
				s.Log.Infof("✅ Daily bonus granted to %d user(s)", n)
			}
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			if n, err := s.PauseUnderfundedChannels(); err != nil {
				s.Log.Errorf("[Scheduler] channel sweep failed: %v", err)
			} else if n > 0 {
				s.Log.Infof("⏸ Paused %d underfunded channel(s)", n)
			}
		}),
	)
}

// GrantDailyBonuses pays the daily bonus to every profile active within
// the last 24h that has not already received one today.
func (s *BonusService) GrantDailyBonuses() (int, error) {
	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	var eligible []models.Profile
	err := s.DB.
		Where("last_active_at IS NOT NULL AND last_active_at >= ?", cutoff).
		Where("id NOT IN (?)", s.DB.Model(&models.Transaction{}).
			Select("user_id").
			Where("type = ? AND created_at >= ?", models.TxDailyBonus, cutoff)).
		Find(&eligible).Error
	if err != nil {
		return 0, err
	}

	granted := 0
	for _, p := range eligible {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			return s.Ledger.Apply(tx, p.ID, DailyBonusPoints, models.TxDailyBonus, "Daily activity bonus", nil)
		})
		if err != nil {
			s.Log.Errorf("[Scheduler] daily bonus for %s failed: %v", p.ID, err)
			continue
		}
		granted++
	}
	return granted, nil
}

// PauseUnderfundedChannels deactivates channels whose owner balance fell
// below the per-follower cost outside the claim path (e.g. by adding
// another channel's followers).
func (s *BonusService) PauseUnderfundedChannels() (int64, error) {
	res := s.DB.Model(&models.Channel{}).
		Where("active = ?", true).
		Where("user_id IN (?)", s.DB.Model(&models.Profile{}).
			Select("id").
			Where("points < ?", MinBalanceToAddChannel)).
		Update("active", false)
	return res.RowsAffected, res.Error
}
