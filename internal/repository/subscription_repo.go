package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kvadrat/estate_go_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) GetByIDForUpdate(id int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(sub *model.Subscription) error {
	return r.db.Save(sub).Error
}

// Current returns the subscription whose access window covers now for the
// agency: active, or cancelled but still inside the already-paid period.
// Most recent start wins; id is the deterministic tiebreaker.
func (r *SubscriptionRepository) Current(agencyID int64, now time.Time) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.
		Where("agency_id = ? AND status IN ? AND started_at <= ? AND ends_at > ?",
			agencyID,
			[]model.SubscriptionStatus{model.SubscriptionActive, model.SubscriptionCancelled},
			now, now).
		Order("started_at DESC, id DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// HasActiveOther reports whether the agency holds an active subscription with
// a different id. Called under the same row-lock transaction that activates,
// so the one-active-per-agency invariant holds across concurrent payments.
func (r *SubscriptionRepository) HasActiveOther(agencyID, excludeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("agency_id = ? AND status = ? AND id <> ?",
			agencyID, model.SubscriptionActive, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *SubscriptionRepository) ListByAgency(agencyID int64) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.Where("agency_id = ?", agencyID).
		Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// ListExpired returns active subscriptions whose paid window has lapsed.
// Consumed by the renewal/expiry sweep.
func (r *SubscriptionRepository) ListExpired(now time.Time) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.
		Where("status IN ? AND ends_at <= ?",
			[]model.SubscriptionStatus{model.SubscriptionActive, model.SubscriptionCancelled},
			now).
		Find(&subs).Error
	return subs, err
}
