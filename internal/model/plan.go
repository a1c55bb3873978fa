package model

import (
	"time"
)

// Billing periods supported by plans and subscriptions.
const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

type Plan struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Price         float64   `gorm:"type:decimal(10,2)" json:"price"`
	BillingPeriod string    `gorm:"size:20;default:monthly" json:"billing_period"` // monthly, yearly
	AutoBoost     bool      `gorm:"default:false" json:"auto_boost"`
	MaxActiveAds  int       `gorm:"default:10" json:"max_active_ads"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}
