package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kvadrat/estate_go_server/internal/model"
	"github.com/kvadrat/estate_go_server/internal/model/dto"
	"github.com/kvadrat/estate_go_server/internal/pkg/pubsub"
	"github.com/kvadrat/estate_go_server/internal/repository"
)

// SubscriptionService owns subscription status and billing dates. Activation
// happens only through the payment outcome path; cancellation keeps the paid
// window open unless immediate termination is requested; the sweep expires
// lapsed subscriptions and spawns renewal successors.
type SubscriptionService struct {
	db       *gorm.DB
	subRepo  *repository.SubscriptionRepository
	planRepo *repository.PlanRepository
	events   *pubsub.Publisher
	currency string
}

func NewSubscriptionService(db *gorm.DB, subRepo *repository.SubscriptionRepository, planRepo *repository.PlanRepository, events *pubsub.Publisher, currency string) *SubscriptionService {
	if currency == "" {
		currency = "EUR"
	}
	return &SubscriptionService{
		db:       db,
		subRepo:  subRepo,
		planRepo: planRepo,
		events:   events,
		currency: currency,
	}
}

// Create opens a pending subscription for the plan. It stays pending until a
// matching successful payment arrives; dates are unset until activation.
func (s *SubscriptionService) Create(agencyID int64, req *dto.CreateSubscriptionRequest) (*model.Subscription, *model.Plan, error) {
	plan, err := s.planRepo.GetByCode(req.PlanCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPlanNotFound
		}
		return nil, nil, err
	}

	sub := &model.Subscription{
		AgencyID:      agencyID,
		PlanID:        plan.ID,
		Status:        model.SubscriptionPending,
		BillingPeriod: plan.BillingPeriod,
		AutoRenew:     req.AutoRenew,
	}
	if err := s.subRepo.Create(sub); err != nil {
		return nil, nil, err
	}

	return sub, plan, nil
}

// Current returns the subscription whose access window covers now.
func (s *SubscriptionService) Current(agencyID int64) (*model.Subscription, error) {
	sub, err := s.subRepo.Current(agencyID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) ListByAgency(agencyID int64) ([]model.Subscription, error) {
	return s.subRepo.ListByAgency(agencyID)
}

// ActivateTx turns a pending subscription active inside the caller's
// transaction. Only the payment outcome handler calls this, with the payment
// row already locked. Sets start = now and end = start + billing period, and
// enforces the one-active-subscription-per-agency invariant under the same
// lock.
func (s *SubscriptionService) ActivateTx(tx *gorm.DB, subscriptionID int64, payment *model.Payment, now time.Time) (*model.Subscription, error) {
	repo := repository.NewSubscriptionRepository(tx)

	sub, err := repo.GetByIDForUpdate(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	if sub.Status == model.SubscriptionActive {
		return nil, ErrPaymentAlreadyProcessed
	}
	if err := model.ValidateSubscriptionTransition(sub.Status, model.SubscriptionActive); err != nil {
		return nil, err
	}

	hasOther, err := repo.HasActiveOther(sub.AgencyID, sub.ID)
	if err != nil {
		return nil, err
	}
	if hasOther {
		return nil, ErrDuplicateActiveSubscription
	}

	start := now
	end := AddBillingPeriod(start, sub.BillingPeriod)

	sub.Status = model.SubscriptionActive
	sub.StartedAt = &start
	sub.EndsAt = &end
	sub.PaymentID = &payment.ID
	sub.AmountPaid = payment.Amount

	if err := repo.Update(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel stops future renewal of an owned subscription. The already-granted
// access window stays open until EndsAt unless immediate termination is
// requested, in which case the window closes now.
func (s *SubscriptionService) Cancel(agencyID, subscriptionID int64, reason string, immediate bool) (*model.Subscription, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrCancelReasonRequired
	}

	var cancelled *model.Subscription

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewSubscriptionRepository(tx)

		sub, err := repo.GetByIDForUpdate(subscriptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubscriptionNotFound
			}
			return err
		}
		if sub.AgencyID != agencyID {
			return ErrNotOwner
		}

		if err := model.ValidateSubscriptionTransition(sub.Status, model.SubscriptionCancelled); err != nil {
			return err
		}

		now := time.Now().UTC()
		sub.Status = model.SubscriptionCancelled
		sub.CancelledAt = &now
		sub.CancelReason = reason
		sub.AutoRenew = false
		if immediate {
			sub.EndsAt = &now
		}

		if err := repo.Update(sub); err != nil {
			return err
		}

		cancelled = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(pubsub.EventSubscriptionCancelled, cancelled, reason)
	return cancelled, nil
}

// SweepExpired expires subscriptions whose paid window has lapsed. An active
// subscription with auto-renew set gets a successor: a fresh pending
// subscription plus its pending payment, while the old record expires cleanly
// rather than being silently extended. Called by the periodic sweeper job.
func (s *SubscriptionService) SweepExpired(now time.Time) (expired, renewed int, err error) {
	lapsed, err := s.subRepo.ListExpired(now)
	if err != nil {
		return 0, 0, err
	}

	for i := range lapsed {
		id := lapsed[i].ID
		var expiredSub *model.Subscription
		didRenew := false

		txErr := s.db.Transaction(func(tx *gorm.DB) error {
			repo := repository.NewSubscriptionRepository(tx)

			sub, err := repo.GetByIDForUpdate(id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}

			// Re-check under the lock; a concurrent sweep or cancel may
			// have moved it already.
			if sub.EndsAt == nil || sub.EndsAt.After(now) {
				return nil
			}
			if !model.CanTransitionSubscription(sub.Status, model.SubscriptionExpired) {
				return nil
			}

			shouldRenew := sub.Status == model.SubscriptionActive && sub.AutoRenew

			sub.Status = model.SubscriptionExpired
			if err := repo.Update(sub); err != nil {
				return err
			}
			expiredSub = sub

			if shouldRenew {
				if err := s.createRenewal(tx, sub); err != nil {
					return err
				}
				didRenew = true
			}
			return nil
		})
		if txErr != nil {
			return expired, renewed, txErr
		}

		if expiredSub != nil {
			expired++
			s.emit(pubsub.EventSubscriptionExpired, expiredSub, "")
		}
		if didRenew {
			renewed++
		}
	}

	return expired, renewed, nil
}

// createRenewal opens the successor pending subscription and the payment the
// gateway is expected to settle for it.
func (s *SubscriptionService) createRenewal(tx *gorm.DB, prev *model.Subscription) error {
	plan, err := repository.NewPlanRepository(tx).GetByID(prev.PlanID)
	if err != nil {
		return err
	}

	successor := &model.Subscription{
		AgencyID:      prev.AgencyID,
		PlanID:        prev.PlanID,
		Status:        model.SubscriptionPending,
		BillingPeriod: prev.BillingPeriod,
		AutoRenew:     true,
	}
	if err := repository.NewSubscriptionRepository(tx).Create(successor); err != nil {
		return err
	}

	renewalPayment := &model.Payment{
		AgencyID:       prev.AgencyID,
		SubscriptionID: &successor.ID,
		Purpose:        model.PurposeSubscription,
		Amount:         plan.Price,
		Currency:       s.currency,
		Status:         model.PaymentPending,
		TransactionRef: newTransactionRef(),
	}
	return repository.NewPaymentRepository(tx).Create(renewalPayment)
}

func (s *SubscriptionService) emit(eventType string, sub *model.Subscription, message string) {
	if s.events == nil || sub == nil {
		return
	}

	msg := &pubsub.LifecycleMessage{
		Type:           eventType,
		AgencyID:       sub.AgencyID,
		SubscriptionID: sub.ID,
		Status:         string(sub.Status),
		Message:        message,
	}
	if err := s.events.Publish(context.Background(), msg); err != nil {
		log.Printf("Failed to publish %s event for subscription %d: %v", eventType, sub.ID, err)
	}
}
