package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/kvadrat/estate_go_server/internal/model"
	"github.com/kvadrat/estate_go_server/internal/model/dto"
	"github.com/kvadrat/estate_go_server/internal/pkg/pubsub"
	"github.com/kvadrat/estate_go_server/internal/repository"
)

// RecommendationInvalidator drops a user's cached recommendation set.
// Satisfied by cache.RecommendationCache; injected so tests can count calls.
type RecommendationInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// PaymentService is the single entry point translating gateway outcomes into
// domain effects: subscription activation, ad unlock, cache invalidation.
type PaymentService struct {
	db          *gorm.DB
	paymentRepo *repository.PaymentRepository
	subs        *SubscriptionService
	recommend   RecommendationInvalidator
	events      *pubsub.Publisher
	currency    string
}

func NewPaymentService(db *gorm.DB, paymentRepo *repository.PaymentRepository, subs *SubscriptionService, recommend RecommendationInvalidator, events *pubsub.Publisher, currency string) *PaymentService {
	if currency == "" {
		currency = "EUR"
	}
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		subs:        subs,
		recommend:   recommend,
		events:      events,
		currency:    currency,
	}
}

// InitiateSubscription opens the pending payment the gateway is expected to
// settle for a pending subscription.
func (s *PaymentService) InitiateSubscription(agencyID int64, sub *model.Subscription, plan *model.Plan) (*model.Payment, error) {
	payment := &model.Payment{
		AgencyID:       agencyID,
		SubscriptionID: &sub.ID,
		Purpose:        model.PurposeSubscription,
		Amount:         plan.Price,
		Currency:       s.currency,
		Status:         model.PaymentPending,
		TransactionRef: newTransactionRef(),
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// InitiateAdUnlock opens a one-off payment that, once successful, unlocks an
// ad without touching any subscription.
func (s *PaymentService) InitiateAdUnlock(agencyID int64, req *dto.InitiateAdUnlockRequest) (*model.Payment, error) {
	currency := req.Currency
	if currency == "" {
		currency = s.currency
	}

	payment := &model.Payment{
		AgencyID:       agencyID,
		AdID:           &req.AdID,
		Purpose:        model.PurposeAdUnlock,
		Amount:         req.Amount,
		Currency:       currency,
		Status:         model.PaymentPending,
		TransactionRef: newTransactionRef(),
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// HandleOutcome applies a gateway outcome. Success on a subscription payment
// activates it and then invalidates the payer's recommendation cache, in that
// order and only after the activation has committed. Failure leaves the
// subscription pending. Redelivery of a terminal outcome is a logged no-op:
// one activation, one effective invalidation, regardless of retries.
func (s *PaymentService) HandleOutcome(ctx context.Context, wh *dto.PaymentWebhook) (*model.Payment, error) {
	var (
		result    *model.Payment
		activated *model.Subscription
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewPaymentRepository(tx)

		payment, err := repo.GetByTransactionRefForUpdate(wh.TransactionRef)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		// Terminal payments never change again; a redelivered webhook
		// lands here.
		if payment.Terminal() {
			return ErrPaymentAlreadyProcessed
		}

		now := time.Now().UTC()

		switch wh.Outcome {
		case model.PaymentSuccess:
			payment.Status = model.PaymentSuccess
			payment.PaidAt = &now
			if err := repo.Update(payment); err != nil {
				return err
			}

			if payment.SubscriptionID != nil {
				sub, err := s.subs.ActivateTx(tx, *payment.SubscriptionID, payment, now)
				if err != nil {
					return err
				}
				activated = sub
			} else if payment.AdID != nil {
				err := repository.NewAdRepository(tx).
					UpdateFields(*payment.AdID, map[string]interface{}{"unlocked": true})
				if err != nil {
					return err
				}
			}

		case model.PaymentFailed:
			payment.Status = model.PaymentFailed
			if err := repo.Update(payment); err != nil {
				return err
			}

		default:
			return ErrUnknownPaymentOutcome
		}

		result = payment
		return nil
	})

	if errors.Is(err, ErrPaymentAlreadyProcessed) {
		// Swallowed: at-least-once delivery makes duplicates normal.
		log.Printf("Duplicate outcome for payment %s ignored", wh.TransactionRef)
		return s.paymentRepo.GetByTransactionRef(wh.TransactionRef)
	}
	if err != nil {
		return nil, err
	}

	// Post-commit side effects, in causal order: the purchase is durable
	// before anyone drops caches or sends mail over it.
	if activated != nil {
		if s.recommend != nil {
			if err := s.recommend.Invalidate(ctx, result.AgencyID); err != nil {
				log.Printf("Failed to invalidate recommendations for agency %d: %v", result.AgencyID, err)
			}
		}
		s.emitSubscriptionActivated(activated)
	}
	if result.Status == model.PaymentFailed {
		s.emitPaymentFailed(result)
	}

	return result, nil
}

func (s *PaymentService) GetByID(agencyID, paymentID int64) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.AgencyID != agencyID {
		return nil, ErrNotOwner
	}
	return payment, nil
}

func (s *PaymentService) ListByAgency(agencyID int64) ([]model.Payment, error) {
	return s.paymentRepo.ListByAgency(agencyID)
}

func (s *PaymentService) emitSubscriptionActivated(sub *model.Subscription) {
	if s.events == nil {
		return
	}
	msg := &pubsub.LifecycleMessage{
		Type:           pubsub.EventSubscriptionActivated,
		AgencyID:       sub.AgencyID,
		SubscriptionID: sub.ID,
		Status:         string(sub.Status),
	}
	if err := s.events.Publish(context.Background(), msg); err != nil {
		log.Printf("Failed to publish activation event for subscription %d: %v", sub.ID, err)
	}
}

func (s *PaymentService) emitPaymentFailed(payment *model.Payment) {
	if s.events == nil {
		return
	}
	msg := &pubsub.LifecycleMessage{
		Type:     pubsub.EventPaymentFailed,
		AgencyID: payment.AgencyID,
		Message:  payment.TransactionRef,
	}
	if err := s.events.Publish(context.Background(), msg); err != nil {
		log.Printf("Failed to publish payment_failed event for %s: %v", payment.TransactionRef, err)
	}
}
