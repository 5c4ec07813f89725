package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusCheckedIn  = "checked_in"
	BookingStatusCheckedOut = "checked_out"
	BookingStatusCancelled  = "cancelled"
)

// InactiveBookingStatuses no longer hold their room.
var InactiveBookingStatuses = []string{BookingStatusCancelled, BookingStatusCheckedOut}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomID  uint  `gorm:"column:room_id;index" json:"roomId"`
	GuestID *uint `gorm:"column:guest_id;index" json:"guestId,omitempty"`

	ReferenceCode  string    `gorm:"column:reference_code;size:64" json:"referenceCode,omitempty"`
	Status         string    `gorm:"column:status;size:32;index" json:"status"`
	CheckIn        time.Time `gorm:"column:check_in;type:date" json:"checkIn"`
	CheckOut       time.Time `gorm:"column:check_out;type:date" json:"checkOut"`
	NumberOfGuests int       `gorm:"column:number_of_guests" json:"numberOfGuests"`

	Room  Room   `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Guest *Guest `gorm:"foreignKey:GuestID;references:ID" json:"guest,omitempty"`
}
