package services

import (
	"testing"
	"time"

	"points-exchange/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelCreate(t *testing.T) {
	db := newTestDB(t)
	channels := NewChannelService(db, NewLedgerService(db))

	owner := newTestProfile(t, db, 5.0)

	channel, err := channels.Create(owner.ID, ChannelInput{
		Platform: "Telegram",
		Name:     "Crypto News Daily",
		URL:      "https://t.me/cryptonews",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PlatformTelegram, channel.Platform)
	assert.Equal(t, "crypto-news-daily", channel.Slug)
	assert.True(t, channel.Active)
	assert.Equal(t, int64(0), channel.CurrentFollowers)
}

func TestChannelCreateBalanceGate(t *testing.T) {
	db := newTestDB(t)
	channels := NewChannelService(db, NewLedgerService(db))

	owner := newTestProfile(t, db, MinBalanceToAddChannel-0.5)

	_, err := channels.Create(owner.ID, ChannelInput{
		Platform: "telegram",
		Name:     "Broke Channel",
		URL:      "https://t.me/broke",
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	var count int64
	require.NoError(t, db.Model(&models.Channel{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestChannelCreateValidation(t *testing.T) {
	db := newTestDB(t)
	channels := NewChannelService(db, NewLedgerService(db))
	owner := newTestProfile(t, db, 100.0)

	_, err := channels.Create(owner.ID, ChannelInput{Platform: "myspace", Name: "x", URL: "https://x"})
	assert.Error(t, err)

	_, err = channels.Create(owner.ID, ChannelInput{Platform: "telegram", Name: "", URL: "https://x"})
	assert.Error(t, err)

	bad := int64(0)
	_, err = channels.Create(owner.ID, ChannelInput{
		Platform: "telegram", Name: "x", URL: "https://x", TargetFollowers: &bad,
	})
	assert.Error(t, err)
}

func TestChannelEarnableExcludesOwnAndFollowed(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	channels := NewChannelService(db, ledger)
	rewards := NewRewardService(db, ledger)

	owner := newTestProfile(t, db, 100.0)
	viewer := newTestProfile(t, db, 0)

	mine := newTestChannel(t, db, viewer.ID)
	followed := newTestChannel(t, db, owner.ID)
	fresh := newTestChannel(t, db, owner.ID)
	paused := newTestChannel(t, db, owner.ID)
	require.NoError(t, db.Model(paused).Update("active", false).Error)

	require.NoError(t, rewards.ClaimFollowReward(viewer.ID, followed.ID))

	list, err := channels.Earnable(viewer.ID, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fresh.ID, list[0].ID)
	assert.NotEqual(t, mine.ID, list[0].ID)
}

func TestChannelSetActiveOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	channels := NewChannelService(db, NewLedgerService(db))

	owner := newTestProfile(t, db, 100.0)
	stranger := newTestProfile(t, db, 100.0)
	channel := newTestChannel(t, db, owner.ID)

	_, err := channels.SetActive(stranger.ID, channel.ID, false)
	assert.ErrorIs(t, err, ErrNotChannelOwner)

	updated, err := channels.SetActive(owner.ID, channel.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestChannelDelete(t *testing.T) {
	db := newTestDB(t)
	channels := NewChannelService(db, NewLedgerService(db))

	owner := newTestProfile(t, db, 100.0)
	stranger := newTestProfile(t, db, 100.0)
	channel := newTestChannel(t, db, owner.ID)

	assert.ErrorIs(t, channels.Delete(stranger.ID, channel.ID), ErrNotChannelOwner)
	require.NoError(t, channels.Delete(owner.ID, channel.ID))
	assert.ErrorIs(t, channels.Delete(owner.ID, channel.ID), ErrChannelNotFound)
}

func TestGrantDailyBonuses(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	bonuses := NewBonusService(db, ledger, testLogger())

	active := newTestProfile(t, db, 0)
	stale := newTestProfile(t, db, 0)
	never := newTestProfile(t, db, 0)

	now := time.Now().UTC()
	old := now.Add(-48 * time.Hour)
	require.NoError(t, db.Model(active).Update("last_active_at", now).Error)
	require.NoError(t, db.Model(stale).Update("last_active_at", old).Error)

	granted, err := bonuses.GrantDailyBonuses()
	require.NoError(t, err)
	assert.Equal(t, 1, granted)
	assert.Equal(t, DailyBonusPoints, balanceOf(t, db, active.ID))
	assert.Equal(t, 0.0, balanceOf(t, db, stale.ID))
	assert.Equal(t, 0.0, balanceOf(t, db, never.ID))

	// A second run within the same day pays nobody twice.
	granted, err = bonuses.GrantDailyBonuses()
	require.NoError(t, err)
	assert.Equal(t, 0, granted)
	assert.Equal(t, DailyBonusPoints, balanceOf(t, db, active.ID))
}

func TestPauseUnderfundedChannels(t *testing.T) {
	db := newTestDB(t)
	bonuses := NewBonusService(db, NewLedgerService(db), testLogger())

	rich := newTestProfile(t, db, 50.0)
	poor := newTestProfile(t, db, 1.0)
	richChannel := newTestChannel(t, db, rich.ID)
	poorChannel := newTestChannel(t, db, poor.ID)

	paused, err := bonuses.PauseUnderfundedChannels()
	require.NoError(t, err)
	assert.Equal(t, int64(1), paused)

	// Fresh destination per lookup: reusing the struct would carry the
	// first row's primary key into the second query's conditions.
	var pausedCh models.Channel
	require.NoError(t, db.First(&pausedCh, "id = ?", poorChannel.ID).Error)
	assert.False(t, pausedCh.Active)

	var liveCh models.Channel
	require.NoError(t, db.First(&liveCh, "id = ?", richChannel.ID).Error)
	assert.True(t, liveCh.Active)
}
