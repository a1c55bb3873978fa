package model

import (
	"time"
)

// Agency owners publish ads. Kind distinguishes agencies from individual
// landlords; both go through the same lifecycle rules.
type Agency struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Kind         string    `gorm:"size:20;default:agency" json:"kind"` // agency, landlord
	Phone        string    `gorm:"size:30" json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Agency) TableName() string {
	return "agencies"
}
