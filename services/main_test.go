package services

import (
	"io"
	"testing"

	"points-exchange/models"
	"points-exchange/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testLogger() *utils.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &utils.Logger{Logger: l}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Profile{},
		&models.Channel{},
		&models.Follow{},
		&models.Transaction{},
	))
	return db
}

// newTestProfile inserts a profile with the given balance directly,
// bypassing signup.
func newTestProfile(t *testing.T, db *gorm.DB, points float64) *models.Profile {
	t.Helper()
	profile := models.Profile{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		Points:       points,
		ReferralCode: NewReferralCode(),
	}
	require.NoError(t, db.Create(&profile).Error)
	return &profile
}

func newTestChannel(t *testing.T, db *gorm.DB, ownerID string) *models.Channel {
	t.Helper()
	channel := models.Channel{
		ID:       uuid.NewString(),
		UserID:   ownerID,
		Platform: models.PlatformTelegram,
		Name:     "Test Channel",
		Slug:     "test-channel",
		URL:      "https://t.me/testchannel",
		Active:   true,
	}
	require.NoError(t, db.Create(&channel).Error)
	return &channel
}

func balanceOf(t *testing.T, db *gorm.DB, userID string) float64 {
	t.Helper()
	var profile models.Profile
	require.NoError(t, db.First(&profile, "id = ?", userID).Error)
	return profile.Points
}
