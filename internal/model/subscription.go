package model

import (
	"fmt"
	"time"
)

// SubscriptionStatus is the closed set of subscription states.
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

var subscriptionStatusLabels = map[SubscriptionStatus]string{
	SubscriptionPending:   "Pending payment",
	SubscriptionActive:    "Active",
	SubscriptionCancelled: "Cancelled",
	SubscriptionExpired:   "Expired",
}

func (s SubscriptionStatus) Label() string {
	if label, ok := subscriptionStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

type subscriptionTransition struct {
	From SubscriptionStatus
	To   SubscriptionStatus
}

// pending->active only via a matching successful payment; active->cancelled
// needs a reason; active->expired is the sweep. Everything else is rejected,
// self-transitions included.
var subscriptionTransitions = map[subscriptionTransition]bool{
	{SubscriptionPending, SubscriptionActive}:    true,
	{SubscriptionPending, SubscriptionCancelled}: true,
	{SubscriptionActive, SubscriptionCancelled}:  true,
	{SubscriptionActive, SubscriptionExpired}:    true,
	{SubscriptionCancelled, SubscriptionExpired}: true,
}

// CanTransitionSubscription checks if a subscription may move between statuses.
func CanTransitionSubscription(from, to SubscriptionStatus) bool {
	return subscriptionTransitions[subscriptionTransition{from, to}]
}

// InvalidSubscriptionTransitionError reports a rejected subscription status change.
type InvalidSubscriptionTransitionError struct {
	From SubscriptionStatus
	To   SubscriptionStatus
}

func (e *InvalidSubscriptionTransitionError) Error() string {
	return fmt.Sprintf("invalid subscription transition: %s (%s) -> %s (%s)",
		e.From, e.From.Label(), e.To, e.To.Label())
}

// ValidateSubscriptionTransition returns nil when the change is legal.
func ValidateSubscriptionTransition(from, to SubscriptionStatus) error {
	if !CanTransitionSubscription(from, to) {
		return &InvalidSubscriptionTransitionError{From: from, To: to}
	}
	return nil
}

type Subscription struct {
	ID            int64              `gorm:"primaryKey" json:"id"`
	AgencyID      int64              `gorm:"not null;index" json:"agency_id"`
	PlanID        int64              `gorm:"not null" json:"plan_id"`
	Status        SubscriptionStatus `gorm:"size:20;default:pending;index" json:"status"`
	BillingPeriod string             `gorm:"size:20;not null" json:"billing_period"`
	AmountPaid    float64            `gorm:"type:decimal(10,2)" json:"amount_paid,omitempty"`
	AutoRenew     bool               `gorm:"default:false" json:"auto_renew"`
	StartedAt     *time.Time         `gorm:"index" json:"started_at,omitempty"`
	EndsAt        *time.Time         `gorm:"index" json:"ends_at,omitempty"`
	CancelledAt   *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason  string             `gorm:"size:255" json:"cancel_reason,omitempty"`
	PaymentID     *int64             `json:"payment_id,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Entitled reports whether the subscription still grants access at the given
// instant. Cancellation keeps the already-paid window open until EndsAt, so a
// cancelled subscription can remain entitled; expiry never is.
func (s *Subscription) Entitled(now time.Time) bool {
	if s.Status != SubscriptionActive && s.Status != SubscriptionCancelled {
		return false
	}
	return s.StartedAt != nil && s.EndsAt != nil &&
		!s.StartedAt.After(now) && s.EndsAt.After(now)
}
