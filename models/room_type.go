package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomType Struct
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string  `gorm:"size:100" json:"name"`
	Code         string  `gorm:"uniqueIndex;size:32" json:"code"`
	Description  string  `gorm:"type:text" json:"description,omitempty"`
	BasePrice    float64 `gorm:"column:base_price" json:"basePrice"`
	MaxOccupancy int     `gorm:"column:max_occupancy" json:"maxOccupancy"`

	Amenities datatypes.JSONSlice[string] `gorm:"column:amenities" json:"amenities"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
