package dto

// PaymentWebhook is the gateway callback payload. Delivery is at-least-once;
// the handler must tolerate duplicates. Signature verification happens at the
// gateway boundary before this ever reaches the core.
type PaymentWebhook struct {
	TransactionRef string  `json:"transaction_ref" binding:"required"`
	PayerID        int64   `json:"payer_id" binding:"required"`
	Amount         float64 `json:"amount"`
	Outcome        string  `json:"outcome" binding:"required"` // success, failed
}

type InitiateAdUnlockRequest struct {
	AdID     int64   `json:"ad_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency"`
}
