package models

import (
	"time"
)

// Guest holds the profile of a signed-in user. AuthUserID is the subject of
// the user's token.
type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	AuthUserID string `gorm:"column:auth_user_id;uniqueIndex;size:128" json:"authUserId"`

	FullName    string `gorm:"size:255" json:"fullName"`
	Email       string `gorm:"size:255;index" json:"email"`
	Phone       string `gorm:"size:64" json:"phone"`
	Nationality string `gorm:"size:64" json:"nationality"`

	IDType   string `gorm:"column:id_type;size:32" json:"idType"`
	IDNumber string `gorm:"column:id_number;size:64" json:"idNumber"`

	Address string `gorm:"type:text" json:"address"`
	City    string `gorm:"size:128" json:"city"`
	Country string `gorm:"size:128" json:"country"`
}
