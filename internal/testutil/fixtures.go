package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/kvadrat/estate_go_server/internal/model"
)

// TestAgency creates a test agency account.
func TestAgency(t *testing.T, db *gorm.DB, opts ...func(*model.Agency)) *model.Agency {
	t.Helper()

	agency := &model.Agency{
		Name:         fmt.Sprintf("Test Agency %d", time.Now().UnixNano()%100000),
		Email:        fmt.Sprintf("agency_%d@example.com", time.Now().UnixNano()),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
		Kind:         "agency",
	}

	for _, opt := range opts {
		opt(agency)
	}

	if err := db.Create(agency).Error; err != nil {
		t.Fatalf("Failed to create test agency: %v", err)
	}

	return agency
}

// WithKind sets the owner kind (agency or landlord).
func WithKind(kind string) func(*model.Agency) {
	return func(a *model.Agency) {
		a.Kind = kind
	}
}

// TestPlan creates a test plan.
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.Plan)) *model.Plan {
	t.Helper()

	plan := &model.Plan{
		Code:          fmt.Sprintf("plan_%d", time.Now().UnixNano()),
		Name:          "Test Plan",
		Price:         29.90,
		BillingPeriod: model.PeriodMonthly,
		AutoBoost:     false,
		MaxActiveAds:  10,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithAutoBoost marks the plan as entitling automatic ad promotion.
func WithAutoBoost() func(*model.Plan) {
	return func(p *model.Plan) {
		p.AutoBoost = true
	}
}

// WithBillingPeriod sets the plan's renewal cadence.
func WithBillingPeriod(period string) func(*model.Plan) {
	return func(p *model.Plan) {
		p.BillingPeriod = period
	}
}

// TestAd creates a test ad.
func TestAd(t *testing.T, db *gorm.DB, agencyID int64, opts ...func(*model.Ad)) *model.Ad {
	t.Helper()

	ad := &model.Ad{
		AgencyID: agencyID,
		Title:    fmt.Sprintf("Test Ad %d", time.Now().UnixNano()%100000),
		Price:    1200,
		Status:   model.AdStatusDraft,
	}

	for _, opt := range opts {
		opt(ad)
	}

	if err := db.Create(ad).Error; err != nil {
		t.Fatalf("Failed to create test ad: %v", err)
	}

	return ad
}

// WithStatus sets the ad status directly, bypassing transition rules.
func WithStatus(status model.AdStatus) func(*model.Ad) {
	return func(a *model.Ad) {
		a.Status = status
	}
}

// WithLocation sets a complete coordinate pair.
func WithLocation(lat, lon float64) func(*model.Ad) {
	return func(a *model.Ad) {
		a.Latitude = &lat
		a.Longitude = &lon
	}
}

// TestSubscription creates a test subscription.
func TestSubscription(t *testing.T, db *gorm.DB, agencyID, planID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		AgencyID:      agencyID,
		PlanID:        planID,
		Status:        model.SubscriptionPending,
		BillingPeriod: model.PeriodMonthly,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// ActiveSince activates the subscription over the given window.
func ActiveSince(start time.Time, period string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		end := start.AddDate(0, 1, 0)
		if period == model.PeriodYearly {
			end = start.AddDate(1, 0, 0)
		}
		s.Status = model.SubscriptionActive
		s.BillingPeriod = period
		s.StartedAt = &start
		s.EndsAt = &end
	}
}

// WithSubscriptionStatus sets the subscription status directly.
func WithSubscriptionStatus(status model.SubscriptionStatus) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// WithAutoRenew flags the subscription for renewal at period end.
func WithAutoRenew() func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.AutoRenew = true
	}
}

// WithWindow sets the access window directly.
func WithWindow(start, end time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.StartedAt = &start
		s.EndsAt = &end
	}
}

// TestPayment creates a test payment.
func TestPayment(t *testing.T, db *gorm.DB, agencyID int64, opts ...func(*model.Payment)) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		AgencyID:       agencyID,
		Purpose:        model.PurposeSubscription,
		Amount:         29.90,
		Currency:       "EUR",
		Status:         model.PaymentPending,
		TransactionRef: fmt.Sprintf("txn_test_%d", time.Now().UnixNano()),
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// ForSubscription links the payment to a subscription.
func ForSubscription(subscriptionID int64) func(*model.Payment) {
	return func(p *model.Payment) {
		p.SubscriptionID = &subscriptionID
	}
}

// ForAdUnlock links the payment to a one-off ad unlock.
func ForAdUnlock(adID int64) func(*model.Payment) {
	return func(p *model.Payment) {
		p.AdID = &adID
		p.Purpose = model.PurposeAdUnlock
	}
}

// WithPaymentStatus sets the payment status directly.
func WithPaymentStatus(status string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Status = status
	}
}
