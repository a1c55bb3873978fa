package service

import "errors"

var (
	ErrAgencyNotFound       = errors.New("agency not found")
	ErrAdNotFound           = errors.New("ad not found")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPaymentNotFound      = errors.New("payment not found")

	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrNotOwner              = errors.New("resource does not belong to the acting agency")
	ErrIncompleteCoordinates = errors.New("geolocation requires both latitude and longitude")
	ErrCoordinatesOutOfRange = errors.New("latitude or longitude out of range")
	ErrAdLimitReached        = errors.New("active ad limit for the current plan reached")

	ErrCancelReasonRequired        = errors.New("cancellation reason is required")
	ErrDuplicateActiveSubscription = errors.New("agency already has an active subscription")

	// ErrPaymentAlreadyProcessed is the idempotency guard for redelivered
	// gateway webhooks. Callers treat it as a successful no-op, never as a
	// user-facing failure.
	ErrPaymentAlreadyProcessed = errors.New("payment outcome already processed")
	ErrUnknownPaymentOutcome   = errors.New("unknown payment outcome")
)
