package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotel-booking/models"
)

const (
	DefaultGuestSearchLimit = 20
	MaxGuestSearchLimit     = 100
)

// UserInfo identifies the signed-in user whose guest row is synced.
type UserInfo struct {
	AuthUserID string
	Email      string
	Name       string
}

type GuestService struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

func NewGuestService(db *gorm.DB, log *logrus.Logger) *GuestService {
	return &GuestService{DB: db, Log: log}
}

// NormalizeLimit applies the default and the cap to a requested page size.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultGuestSearchLimit
	}
	if limit > MaxGuestSearchLimit {
		return MaxGuestSearchLimit
	}
	return limit
}

// Search finds guests whose auth user id or email equals search. An empty
// search lists the most recent guests.
func (s *GuestService) Search(ctx context.Context, search string, limit int) ([]models.Guest, error) {
	q := s.DB.WithContext(ctx).Model(&models.Guest{})
	if search != "" {
		q = q.Where("auth_user_id = ? OR email = ?", search, search)
	}

	var guests []models.Guest
	if err := q.Order("id DESC").Limit(NormalizeLimit(limit)).Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("failed to search guests: %w", err)
	}
	return guests, nil
}

// EnsureForUser returns the guest row of the user, creating it from the
// token's email and name when it does not exist. Existing rows are left
// untouched.
func (s *GuestService) EnsureForUser(ctx context.Context, user UserInfo) (*models.Guest, error) {
	if user.AuthUserID == "" {
		return nil, fmt.Errorf("auth user id is required")
	}

	var guest models.Guest
	err := s.DB.WithContext(ctx).
		Where(models.Guest{AuthUserID: user.AuthUserID}).
		Attrs(models.Guest{Email: user.Email, FullName: user.Name}).
		FirstOrCreate(&guest).Error
	if err == nil {
		return &guest, nil
	}

	// A concurrent sync may have inserted the row first.
	if !isDuplicateKey(err) {
		return nil, fmt.Errorf("failed to sync guest: %w", err)
	}
	s.Log.WithField("auth_user_id", user.AuthUserID).Debug("guest created concurrently, reloading")

	guest = models.Guest{}
	if err := s.DB.WithContext(ctx).Where("auth_user_id = ?", user.AuthUserID).First(&guest).Error; err != nil {
		return nil, fmt.Errorf("failed to reload guest: %w", err)
	}
	return &guest, nil
}

func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}
