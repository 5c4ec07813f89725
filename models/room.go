package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
)

type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomTypeID uint   `gorm:"column:room_type_id;index" json:"roomTypeId"`
	RoomNumber string `gorm:"column:room_number;uniqueIndex;type:varchar(50)" json:"roomNumber"`
	Floor      string `gorm:"type:varchar(10)" json:"floor"`
	Status     string `gorm:"size:32;default:available" json:"status"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
