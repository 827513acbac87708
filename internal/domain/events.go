package domain

import "time"

// DomainEvent is implemented by every event the booking aggregate records.
type DomainEvent interface {
	EventName() string
	AggregateID() int64
	OccurredAt() time.Time
}

// EventRecorder accumulates events on an aggregate. The orchestrating
// service pulls them with TakeEvents after a successful mutation and hands
// them to the outbox inside the same transaction.
type EventRecorder struct {
	pending []DomainEvent
}

func (r *EventRecorder) Record(ev DomainEvent) {
	if ev == nil {
		return
	}
	r.pending = append(r.pending, ev)
}

// TakeEvents returns the recorded events and clears the recorder.
func (r *EventRecorder) TakeEvents() []DomainEvent {
	out := r.pending
	r.pending = nil
	return out
}

const (
	EventDepositMade           = "booking.deposit_made"
	EventPaymentMade           = "booking.payment_made"
	EventBookingCancelled      = "booking.cancelled"
	EventCancelledNotification = "booking.cancelled_notification"
)

type DepositMadeEvent struct {
	BookingID        int64     `json:"booking_id"`
	UserID           int64     `json:"user_id"`
	Amount           float64   `json:"amount"`
	RemainingBalance float64   `json:"remaining_balance"`
	At               time.Time `json:"occurred_at"`
}

func (e DepositMadeEvent) EventName() string     { return EventDepositMade }
func (e DepositMadeEvent) AggregateID() int64    { return e.BookingID }
func (e DepositMadeEvent) OccurredAt() time.Time { return e.At }

type PaymentMadeEvent struct {
	BookingID        int64     `json:"booking_id"`
	UserID           int64     `json:"user_id"`
	Amount           float64   `json:"amount"`
	RemainingBalance float64   `json:"remaining_balance"`
	At               time.Time `json:"occurred_at"`
}

func (e PaymentMadeEvent) EventName() string     { return EventPaymentMade }
func (e PaymentMadeEvent) AggregateID() int64    { return e.BookingID }
func (e PaymentMadeEvent) OccurredAt() time.Time { return e.At }

type BookingCancelledEvent struct {
	BookingID    int64     `json:"booking_id"`
	UserID       int64     `json:"user_id"`
	Reason       string    `json:"reason"`
	RefundAmount float64   `json:"refund_amount"`
	CancelledAt  time.Time `json:"cancelled_at"`
}

func (e BookingCancelledEvent) EventName() string     { return EventBookingCancelled }
func (e BookingCancelledEvent) AggregateID() int64    { return e.BookingID }
func (e BookingCancelledEvent) OccurredAt() time.Time { return e.CancelledAt }

// CancelledNotificationEvent mirrors BookingCancelledEvent without the refund
// amount; it feeds the user-facing notification consumer.
type CancelledNotificationEvent struct {
	BookingID int64     `json:"booking_id"`
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"occurred_at"`
}

func (e CancelledNotificationEvent) EventName() string     { return EventCancelledNotification }
func (e CancelledNotificationEvent) AggregateID() int64    { return e.BookingID }
func (e CancelledNotificationEvent) OccurredAt() time.Time { return e.At }
