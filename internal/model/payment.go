package model

import (
	"time"
)

// Payment statuses. success and failed are terminal for the attempt: the row
// never changes again and a retry is a brand-new Payment record.
const (
	PaymentPending  = "pending"
	PaymentSuccess  = "success"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment purposes.
const (
	PurposeSubscription = "subscription"
	PurposeAdUnlock     = "ad_unlock"
)

type Payment struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	AgencyID       int64      `gorm:"not null;index" json:"agency_id"`
	SubscriptionID *int64     `gorm:"index" json:"subscription_id,omitempty"`
	AdID           *int64     `gorm:"index" json:"ad_id,omitempty"`
	Purpose        string     `gorm:"size:20;not null" json:"purpose"` // subscription, ad_unlock
	Amount         float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency       string     `gorm:"size:3;default:EUR" json:"currency"`
	Status         string     `gorm:"size:20;default:pending;index" json:"status"`
	TransactionRef string     `gorm:"size:100;uniqueIndex;not null" json:"transaction_ref"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// Terminal reports whether the payment has reached a final outcome.
func (p *Payment) Terminal() bool {
	return p.Status == PaymentSuccess || p.Status == PaymentFailed || p.Status == PaymentRefunded
}
