package booking

import "time"

type SlotRequest struct {
	CourtID   int64  `json:"court_id" binding:"required"`
	StartTime string `json:"start_time" binding:"required"` // "15:04"
	EndTime   string `json:"end_time" binding:"required"`
}

type CreateBookingRequest struct {
	Date          string        `json:"date" binding:"required"` // "2006-01-02"
	Slots         []SlotRequest `json:"slots" binding:"required"`
	DepositAmount *float64      `json:"deposit_amount,omitempty"`
	Note          string        `json:"note,omitempty"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type PaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelResult struct {
	BookingID    int64   `json:"booking_id"`
	Status       string  `json:"status"`
	RefundAmount float64 `json:"refund_amount"`
}

type BookingView struct {
	ID               int64        `json:"id"`
	UserID           int64        `json:"user_id"`
	BookingDate      time.Time    `json:"booking_date"`
	Status           string       `json:"status"`
	TotalTime        float64      `json:"total_time"`
	TotalPrice       float64      `json:"total_price"`
	InitialDeposit   float64      `json:"initial_deposit"`
	TotalPaid        float64      `json:"total_paid"`
	RemainingBalance float64      `json:"remaining_balance"`
	Note             string       `json:"note,omitempty"`
	Details          []DetailView `json:"details"`
}

type DetailView struct {
	ID         int64     `json:"id"`
	CourtID    int64     `json:"court_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	TotalPrice float64   `json:"total_price"`
}
