package payment

// Inbound payment-gateway events consumed from the payment-events topic.
// Field names are part of the wire contract with the payment service.

type SucceededEvent struct {
	TransactionID string  `json:"transaction_id"`
	UserID        int64   `json:"user_id"`
	Amount        float64 `json:"amount"`
	PaymentType   string  `json:"payment_type"`
	ReferenceID   int64   `json:"reference_id,omitempty"` // booking id
	Status        string  `json:"status,omitempty"`
}

type FailedEvent struct {
	ReferenceID int64  `json:"reference_id"`
	Description string `json:"description,omitempty"`
}

const (
	KeyPaymentSucceeded = "payment.succeeded"
	KeyPaymentFailed    = "payment.failed"
)
