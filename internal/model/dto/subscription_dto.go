package dto

type CreateSubscriptionRequest struct {
	PlanCode  string `json:"plan_code" binding:"required"`
	AutoRenew bool   `json:"auto_renew"`
}

type CancelSubscriptionRequest struct {
	Reason    string `json:"reason" binding:"required"`
	Immediate bool   `json:"immediate"`
}

// CheckoutInfo is returned on subscription creation: the pending subscription
// plus the payment the gateway is expected to settle.
type CheckoutInfo struct {
	SubscriptionID int64   `json:"subscription_id"`
	PaymentID      int64   `json:"payment_id"`
	TransactionRef string  `json:"transaction_ref"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
}
