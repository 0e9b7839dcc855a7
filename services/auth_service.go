package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"points-exchange/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTTL = 24 * time.Hour

// AuthService owns credentials and session tokens. Session presence is the
// only authorization signal: a valid token maps to a user id, everything
// else is ownership checks in the services.
type AuthService struct {
	DB       *gorm.DB
	Profiles *ProfileService
	secret   []byte
	cost     int
}

func NewAuthService(db *gorm.DB, profiles *ProfileService, secret string) *AuthService {
	return &AuthService{DB: db, Profiles: profiles, secret: []byte(secret), cost: bcrypt.DefaultCost}
}

// NewAuthServiceForTest lowers the bcrypt cost so test suites stay fast.
func NewAuthServiceForTest(db *gorm.DB, profiles *ProfileService, secret string) *AuthService {
	s := NewAuthService(db, profiles, secret)
	s.cost = bcrypt.MinCost
	return s
}

// SignUp registers a new account, creates the profile (with its signup
// bonus) and returns a session token.
func (s *AuthService) SignUp(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		return "", errors.New("email and a password of at least 6 characters are required")
	}

	var existing int64
	if err := s.DB.Model(&models.Account{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return "", err
	}
	if existing > 0 {
		return "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.DB.Create(&account).Error; err != nil {
		return "", err
	}
	if _, err := s.Profiles.EnsureProfile(account.ID, account.Email); err != nil {
		return "", err
	}

	return s.issueToken(account.ID)
}

// SignIn checks credentials and returns a session token. Bad email and bad
// password are indistinguishable on purpose.
func (s *AuthService) SignIn(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var account models.Account
	if err := s.DB.First(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	s.Profiles.TouchActive(account.ID)
	return s.issueToken(account.ID)
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken returns the user id behind a session token, or an error
// for anything malformed, forged or expired.
func (s *AuthService) ValidateToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}
