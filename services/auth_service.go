package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-booking/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	DB     *gorm.DB
	Tokens *TokenService
	Log    *logrus.Logger
}

func NewAuthService(db *gorm.DB, tokens *TokenService, log *logrus.Logger) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, Log: log}
}

// Login checks the password against the stored bcrypt hash and returns a
// signed token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.Log.WithField("user_id", user.ID).Info("login rejected")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Generate(user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}
