package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotel-booking/models"
)

type RoomService struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

func NewRoomService(db *gorm.DB, log *logrus.Logger) *RoomService {
	return &RoomService{DB: db, Log: log}
}

// Available returns rooms that are open for sale, fit guests and have no
// active booking overlapping [checkIn, checkOut). Ordered by room number.
func (s *RoomService) Available(ctx context.Context, checkIn, checkOut time.Time, guests int) ([]models.Room, error) {
	fitting := s.DB.Model(&models.RoomType{}).
		Select("id").
		Where("max_occupancy >= ?", guests)

	overlapping := s.DB.Model(&models.Booking{}).
		Select("1").
		Where("bookings.room_id = rooms.id").
		Where("bookings.status NOT IN ?", models.InactiveBookingStatuses).
		Where("bookings.check_in < ? AND bookings.check_out > ?", checkOut, checkIn)

	var rooms []models.Room
	err := s.DB.WithContext(ctx).
		Preload("RoomType").
		Where("rooms.status = ?", models.RoomStatusAvailable).
		Where("rooms.room_type_id IN (?)", fitting).
		Where("NOT EXISTS (?)", overlapping).
		Order("rooms.room_number ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query available rooms: %w", err)
	}

	s.Log.WithFields(logrus.Fields{
		"check_in":  checkIn.Format("2006-01-02"),
		"check_out": checkOut.Format("2006-01-02"),
		"guests":    guests,
		"found":     len(rooms),
	}).Debug("availability query")
	return rooms, nil
}

func (s *RoomService) GetAll(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.WithContext(ctx).Preload("RoomType").Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}
