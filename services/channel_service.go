package services

import (
	"errors"
	"strings"

	"points-exchange/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ChannelService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewChannelService(db *gorm.DB, ledger *LedgerService) *ChannelService {
	return &ChannelService{DB: db, Ledger: ledger}
}

// ChannelInput is the submission payload for a new channel.
type ChannelInput struct {
	Platform        string  `json:"platform"`
	Name            string  `json:"name"`
	URL             string  `json:"url"`
	ImageURL        *string `json:"image_url"`
	TargetFollowers *int64  `json:"target_followers"`
}

// Create validates and inserts a new channel for the owner. The owner must
// hold at least the cost of one follower; the same check runs client-side,
// this one is authoritative.
func (s *ChannelService) Create(userID string, in ChannelInput) (*models.Channel, error) {
	in.Platform = strings.ToLower(strings.TrimSpace(in.Platform))
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)

	if !models.ValidPlatform(in.Platform) {
		return nil, errors.New("unsupported platform")
	}
	if in.Name == "" || in.URL == "" {
		return nil, errors.New("name and url are required")
	}
	if in.TargetFollowers != nil && *in.TargetFollowers < 1 {
		return nil, errors.New("target_followers must be positive")
	}

	balance, err := s.Ledger.Balance(userID)
	if err != nil {
		return nil, err
	}
	if balance < MinBalanceToAddChannel {
		return nil, ErrInsufficientBalance
	}

	channel := models.Channel{
		ID:              uuid.NewString(),
		UserID:          userID,
		Platform:        in.Platform,
		Name:            in.Name,
		Slug:            slug.Make(in.Name),
		URL:             in.URL,
		ImageURL:        in.ImageURL,
		Active:          true,
		TargetFollowers: in.TargetFollowers,
	}
	if err := s.DB.Create(&channel).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

// Earnable lists channels the user can still claim: active, not their own,
// not already followed.
func (s *ChannelService) Earnable(userID string, limit int) ([]models.Channel, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var channels []models.Channel
	err := s.DB.
		Where("active = ?", true).
		Where("user_id <> ?", userID).
		Where("id NOT IN (?)", s.DB.Model(&models.Follow{}).Select("channel_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&channels).Error
	return channels, err
}

// Mine lists the caller's own channels, newest first.
func (s *ChannelService) Mine(userID string) ([]models.Channel, error) {
	var channels []models.Channel
	err := s.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&channels).Error
	return channels, err
}

// SetActive toggles a channel's visibility in other users' task lists.
// Owner-only.
func (s *ChannelService) SetActive(userID, channelID string, active bool) (*models.Channel, error) {
	channel, err := s.owned(userID, channelID)
	if err != nil {
		return nil, err
	}
	channel.Active = active
	if err := s.DB.Save(channel).Error; err != nil {
		return nil, err
	}
	return channel, nil
}

// Delete removes a channel permanently. Owner-only; no undo.
func (s *ChannelService) Delete(userID, channelID string) error {
	channel, err := s.owned(userID, channelID)
	if err != nil {
		return err
	}
	return s.DB.Delete(channel).Error
}

func (s *ChannelService) owned(userID, channelID string) (*models.Channel, error) {
	var channel models.Channel
	if err := s.DB.First(&channel, "id = ?", channelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	if channel.UserID != userID {
		return nil, ErrNotChannelOwner
	}
	return &channel, nil
}
