package model

import (
	"time"

	"gorm.io/gorm"
)

type Ad struct {
	ID              int64          `gorm:"primaryKey" json:"id"`
	AgencyID        int64          `gorm:"not null;index" json:"agency_id"`
	Title           string         `gorm:"size:200;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Price           float64        `gorm:"type:decimal(12,2)" json:"price"`
	Latitude        *float64       `json:"latitude,omitempty"`
	Longitude       *float64       `json:"longitude,omitempty"`
	Status          AdStatus       `gorm:"size:20;default:draft;index" json:"status"`
	Boosted         bool           `gorm:"default:false" json:"boosted"`
	Unlocked        bool           `gorm:"default:false" json:"unlocked"`
	PhotoURL        string         `gorm:"size:500" json:"photo_url,omitempty"`
	StatusChangedAt *time.Time     `json:"status_changed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Ad) TableName() string {
	return "ads"
}

// HasLocation reports whether the ad carries a complete coordinate pair.
// A single axis alone is never valid; see Ad invariants.
func (a *Ad) HasLocation() bool {
	return a.Latitude != nil && a.Longitude != nil
}
