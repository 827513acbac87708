package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingDeposited      BookingStatus = "deposited"
	BookingCompleted      BookingStatus = "completed"
	BookingCancelled      BookingStatus = "cancelled"
	BookingPaymentFail    BookingStatus = "payment_fail"
)

var (
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrInsufficientDeposit     = errors.New("deposit below required minimum")
	ErrInvalidAmount           = errors.New("payment amount must be positive")
	ErrInvalidDetail           = errors.New("invalid booking detail")
)

// allowedTransitions is the general validator consulted for operator-driven
// status changes. The payment mutators below perform narrower subsets of it.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingPendingPayment: {BookingDeposited, BookingCancelled, BookingPaymentFail},
	BookingDeposited:      {BookingCompleted, BookingCancelled},
	BookingCompleted:      {BookingCancelled},
	BookingPaymentFail:    {BookingCancelled},
	BookingCancelled:      {},
}

// CanTransition reports whether a direct move from one status to another is
// legal. Re-cancelling an already cancelled booking is not.
func CanTransition(from, to BookingStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// BookingDetail is one court/time-range line item. Its price is fixed at
// creation and never recomputed from later schedule or promotion edits.
type BookingDetail struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id"`
	CourtID    int64     `json:"court_id" validate:"required"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

func (d *BookingDetail) Hours() float64 {
	return d.EndTime.Sub(d.StartTime).Hours()
}

// Overlaps uses half-open interval semantics: slots that merely touch at a
// boundary do not conflict.
func (d *BookingDetail) Overlaps(start, end time.Time) bool {
	return start.Before(d.EndTime) && d.StartTime.Before(end)
}

// Booking is the aggregate root for a customer's court reservation on a
// single calendar date.
type Booking struct {
	EventRecorder `json:"-" gorm:"-"`

	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id" validate:"required"`
	BookingDate time.Time     `json:"booking_date" validate:"required"`
	Status      BookingStatus `json:"status"`

	TotalTime        float64 `json:"total_time"` // hours across all details
	TotalPrice       float64 `json:"total_price"`
	InitialDeposit   float64 `json:"initial_deposit"`
	TotalPaid        float64 `json:"total_paid"`
	RemainingBalance float64 `json:"remaining_balance"`

	Note               string     `json:"note,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Details []BookingDetail `json:"details,omitempty"`
}

func NewBooking(userID int64, date time.Time, note string) *Booking {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return &Booking{
		UserID:      userID,
		BookingDate: day,
		Status:      BookingPendingPayment,
		Note:        note,
	}
}

// AddDetail appends a priced line item and folds its price, duration and
// minimum deposit into the aggregate totals.
func (b *Booking) AddDetail(d BookingDetail, minDeposit float64) error {
	if !d.EndTime.After(d.StartTime) {
		return fmt.Errorf("%w: start must precede end", ErrInvalidDetail)
	}
	if d.CourtID == 0 {
		return fmt.Errorf("%w: missing court", ErrInvalidDetail)
	}
	if d.TotalPrice < 0 || minDeposit < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidDetail)
	}
	d.BookingID = b.ID
	b.Details = append(b.Details, d)
	b.TotalTime = round2(b.TotalTime + d.Hours())
	b.TotalPrice = round2(b.TotalPrice + d.TotalPrice)
	b.InitialDeposit = round2(b.InitialDeposit + minDeposit)
	b.recompute()
	return nil
}

// ValidateSuppliedDeposit checks the deposit amount given at creation time
// against the computed minimum. A nil amount is only acceptable when no
// deposit is required.
func (b *Booking) ValidateSuppliedDeposit(amount *float64) error {
	if b.InitialDeposit == 0 {
		if amount != nil && *amount < 0 {
			return ErrInsufficientDeposit
		}
		return nil
	}
	if amount == nil || *amount < b.InitialDeposit {
		return ErrInsufficientDeposit
	}
	return nil
}

// MakeDeposit applies the first payment. The caller must cover at least the
// outstanding minimum in a single call.
func (b *Booking) MakeDeposit(amount float64, at time.Time) error {
	if b.Status != BookingPendingPayment {
		return ErrInvalidStatusTransition
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount < round2(b.InitialDeposit-b.TotalPaid) {
		return ErrInsufficientDeposit
	}
	b.TotalPaid = round2(b.TotalPaid + amount)
	b.recompute()
	if b.RemainingBalance == 0 {
		b.Status = BookingCompleted
	} else if b.TotalPaid >= b.InitialDeposit {
		b.Status = BookingDeposited
	}
	b.Record(DepositMadeEvent{
		BookingID:        b.ID,
		UserID:           b.UserID,
		Amount:           amount,
		RemainingBalance: b.RemainingBalance,
		At:               at,
	})
	return nil
}

// MakePayment applies a payment towards the remaining balance of a deposited
// booking and completes it once the balance reaches zero.
func (b *Booking) MakePayment(amount float64, at time.Time) error {
	if b.Status != BookingDeposited {
		return ErrInvalidStatusTransition
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	b.TotalPaid = round2(b.TotalPaid + amount)
	b.recompute()
	if b.RemainingBalance == 0 {
		b.Status = BookingCompleted
	}
	b.Record(PaymentMadeEvent{
		BookingID:        b.ID,
		UserID:           b.UserID,
		Amount:           amount,
		RemainingBalance: b.RemainingBalance,
		At:               at,
	})
	return nil
}

// ProcessAdditionalPayment routes an externally confirmed payment to the
// right mutator for the current state. Payment consumers use this so they do
// not need to know whether the deposit has been made yet.
func (b *Booking) ProcessAdditionalPayment(amount float64, at time.Time) error {
	switch b.Status {
	case BookingPendingPayment:
		return b.MakeDeposit(amount, at)
	case BookingDeposited:
		return b.MakePayment(amount, at)
	default:
		return ErrInvalidStatusTransition
	}
}

func (b *Booking) MarkAsCompleted() error {
	if b.Status != BookingDeposited {
		return ErrInvalidStatusTransition
	}
	b.Status = BookingCompleted
	return nil
}

// MarkAsPendingPayment asserts the freshly created aggregate is awaiting
// payment. Any other state means the caller is misusing it.
func (b *Booking) MarkAsPendingPayment() error {
	if b.Status != BookingPendingPayment {
		return ErrInvalidStatusTransition
	}
	return nil
}

// Confirm moves a booking whose minimum deposit has been verified out of
// pending state without registering a new payment.
func (b *Booking) Confirm() error {
	if b.Status != BookingPendingPayment {
		return ErrInvalidStatusTransition
	}
	if b.TotalPaid < b.InitialDeposit {
		return ErrInsufficientDeposit
	}
	b.Status = BookingDeposited
	return nil
}

// MarkPaymentFailed reacts to a payment-gateway failure notification.
func (b *Booking) MarkPaymentFailed() error {
	if b.Status != BookingPendingPayment {
		return ErrInvalidStatusTransition
	}
	b.Status = BookingPaymentFail
	return nil
}

// Cancel transitions the booking to cancelled with the given refund amount
// and records both the ledger event and the notification event.
func (b *Booking) Cancel(reason string, refund float64, at time.Time) error {
	if !CanTransition(b.Status, BookingCancelled) {
		return ErrInvalidStatusTransition
	}
	b.Status = BookingCancelled
	b.CancellationReason = reason
	b.CancelledAt = &at
	b.Record(BookingCancelledEvent{
		BookingID:    b.ID,
		UserID:       b.UserID,
		Reason:       reason,
		RefundAmount: refund,
		CancelledAt:  at,
	})
	b.Record(CancelledNotificationEvent{
		BookingID: b.ID,
		UserID:    b.UserID,
		Reason:    reason,
		At:        at,
	})
	return nil
}

// TransitionTo is the operator-override path; it consults the general
// validator instead of a payment mutator.
func (b *Booking) TransitionTo(to BookingStatus) error {
	if !CanTransition(b.Status, to) {
		return ErrInvalidStatusTransition
	}
	b.Status = to
	return nil
}

// EarliestDetail returns the line item that starts first. The refund window
// and policy are taken from that detail's court, not from whichever detail
// happens to be listed first.
func (b *Booking) EarliestDetail() (*BookingDetail, bool) {
	if len(b.Details) == 0 {
		return nil, false
	}
	first := &b.Details[0]
	for i := range b.Details[1:] {
		if b.Details[i+1].StartTime.Before(first.StartTime) {
			first = &b.Details[i+1]
		}
	}
	return first, true
}

// FirstStart returns the earliest line-item start.
func (b *Booking) FirstStart() (time.Time, bool) {
	d, ok := b.EarliestDetail()
	if !ok {
		return time.Time{}, false
	}
	return d.StartTime, true
}

func (b *Booking) recompute() {
	b.RemainingBalance = round2(math.Max(0, b.TotalPrice-b.TotalPaid))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
