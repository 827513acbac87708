package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"courtbook/internal/domain"
	"courtbook/internal/outbox"
)

type Service struct {
	bookings BookingRepository
	courts   CourtRepository
	log      zerolog.Logger

	// injectable for the refund-window tests
	now func() time.Time
}

func NewService(bookings BookingRepository, courts CourtRepository, log zerolog.Logger) *Service {
	return &Service{
		bookings: bookings,
		courts:   courts,
		log:      log,
		now:      time.Now,
	}
}

// CreateBooking runs the full creation flow: per requested slot it validates
// the range, checks conflicts against active bookings, prices the slot off
// the weekly schedules, applies the single best promotion and accrues the
// minimum deposit; then it validates the supplied deposit and persists the
// aggregate together with its outbox records.
func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Booking, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrValidation, req.Date)
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if len(req.Slots) == 0 {
		return nil, fmt.Errorf("%w: at least one slot is required", ErrValidation)
	}

	b := domain.NewBooking(userID, date, req.Note)
	day := domain.ISOWeekday(date.Weekday())

	for _, slot := range req.Slots {
		start, end, err := materializeSlot(date, slot)
		if err != nil {
			return nil, err
		}
		if start.Before(s.now()) {
			return nil, fmt.Errorf("%w: slot %s-%s is in the past",
				ErrValidation, slot.StartTime, slot.EndTime)
		}

		court, err := s.courts.GetByID(ctx, slot.CourtID)
		if err != nil {
			return nil, err
		}
		if court.Status != domain.CourtOpen {
			return nil, fmt.Errorf("%w: court %d", ErrCourtClosed, court.ID)
		}

		existing, err := s.bookings.GetActiveDetailsForCourtDate(ctx, court.ID, date)
		if err != nil {
			return nil, err
		}
		if conflictsWith(existing, court.ID, start, end) ||
			conflictsWith(b.Details, court.ID, start, end) {
			return nil, fmt.Errorf("%w: %s-%s on court %d",
				ErrSlotConflict, slot.StartTime, slot.EndTime, court.ID)
		}

		schedules, err := s.courts.GetSchedules(ctx, court.ID)
		if err != nil {
			return nil, err
		}
		daySchedules := make([]domain.CourtSchedule, 0, len(schedules))
		for _, sc := range schedules {
			if sc.AppliesTo(day) {
				daySchedules = append(daySchedules, sc)
			}
		}
		if len(daySchedules) == 0 {
			return nil, fmt.Errorf("%w: no schedule for weekday %d on court %d",
				ErrNoScheduleCoverage, day, court.ID)
		}

		base, err := priceForRange(date, start, end, daySchedules)
		if err != nil {
			return nil, err
		}

		promos, err := s.courts.GetPromotionsForDate(ctx, court.ID, date)
		if err != nil {
			return nil, err
		}
		price := applyPromotion(base, bestPromotion(promos, base, date))

		detail := domain.BookingDetail{
			CourtID:    court.ID,
			StartTime:  start,
			EndTime:    end,
			TotalPrice: price,
		}
		if err := b.AddDetail(detail, minimumDeposit(price, court.MinDepositPercentage)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	if err := b.ValidateSuppliedDeposit(req.DepositAmount); err != nil {
		return nil, err
	}

	recs, err := outbox.Encode(b.TakeEvents())
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Create(ctx, b, recs); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("booking_id", b.ID).
		Int64("user_id", userID).
		Float64("total_price", b.TotalPrice).
		Float64("initial_deposit", b.InitialDeposit).
		Msg("booking created")
	return b, nil
}

// CancelBooking is the customer-side cancellation: the refund depends on the
// lead time against the court's cancellation window.
func (s *Service) CancelBooking(ctx context.Context, bookingID, actorID int64, actorRole, reason string) (*CancelResult, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeBookingActor(ctx, b, actorID, actorRole); err != nil {
		return nil, err
	}

	refund := 0.0
	if first, ok := b.EarliestDetail(); ok && b.TotalPaid > 0 {
		court, err := s.courts.GetByID(ctx, first.CourtID)
		if err != nil {
			return nil, err
		}
		refund = refundForCancellation(b.TotalPaid, first.StartTime, s.now(),
			court.CancellationWindowHours, court.RefundPercentage)
	}

	return s.finishCancel(ctx, b, reason, refund)
}

// OwnerCancelBooking is the owner/operator-side cancellation. It always
// refunds the full amount paid, regardless of the cancellation window: the
// venue cancelling on the customer carries the liability.
func (s *Service) OwnerCancelBooking(ctx context.Context, bookingID, actorID int64, actorRole, reason string) (*CancelResult, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCourtActor(ctx, b, actorID, actorRole); err != nil {
		return nil, err
	}

	return s.finishCancel(ctx, b, reason, b.TotalPaid)
}

func (s *Service) finishCancel(ctx context.Context, b *domain.Booking, reason string, refund float64) (*CancelResult, error) {
	if err := b.Cancel(reason, refund, s.now()); err != nil {
		return nil, err
	}
	recs, err := outbox.Encode(b.TakeEvents())
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b, recs); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("booking_id", b.ID).
		Float64("refund", refund).
		Str("reason", reason).
		Msg("booking cancelled")
	return &CancelResult{
		BookingID:    b.ID,
		Status:       string(b.Status),
		RefundAmount: refund,
	}, nil
}

// MakeDeposit applies a deposit payment registered through the API (as
// opposed to one confirmed asynchronously by the payment gateway).
func (s *Service) MakeDeposit(ctx context.Context, bookingID, actorID int64, actorRole string, amount float64) (*domain.Booking, error) {
	return s.applyPayment(ctx, bookingID, actorID, actorRole, func(b *domain.Booking) error {
		return b.MakeDeposit(amount, s.now())
	})
}

// MakePayment applies a payment towards the remaining balance.
func (s *Service) MakePayment(ctx context.Context, bookingID, actorID int64, actorRole string, amount float64) (*domain.Booking, error) {
	return s.applyPayment(ctx, bookingID, actorID, actorRole, func(b *domain.Booking) error {
		return b.MakePayment(amount, s.now())
	})
}

func (s *Service) applyPayment(ctx context.Context, bookingID, actorID int64, actorRole string, mutate func(*domain.Booking) error) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeBookingActor(ctx, b, actorID, actorRole); err != nil {
		return nil, err
	}
	if err := mutate(b); err != nil {
		return nil, err
	}
	recs, err := outbox.Encode(b.TakeEvents())
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b, recs); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBookingStatus is the operator override consulting the general
// transition validator rather than a payment mutator.
func (s *Service) UpdateBookingStatus(ctx context.Context, bookingID, actorID int64, actorRole, newStatus string) (*domain.Booking, error) {
	status := domain.BookingStatus(newStatus)
	switch status {
	case domain.BookingPendingPayment, domain.BookingDeposited, domain.BookingCompleted,
		domain.BookingCancelled, domain.BookingPaymentFail:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCourtActor(ctx, b, actorID, actorRole); err != nil {
		return nil, err
	}
	if err := b.TransitionTo(status); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b, nil); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, bookingID, actorID int64, actorRole string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeBookingActor(ctx, b, actorID, actorRole); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.GetByUser(ctx, userID, limit, offset)
}

// GetCourtBookings lists a court's bookings for one date, for owners and
// admins managing their schedule.
func (s *Service) GetCourtBookings(ctx context.Context, courtID, actorID int64, actorRole, dateStr string) ([]domain.Booking, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrValidation, dateStr)
	}
	if actorRole != string(domain.RoleAdmin) {
		ownerID, err := s.courts.GetOwnerID(ctx, courtID)
		if err != nil {
			return nil, err
		}
		if ownerID != actorID {
			return nil, ErrForbidden
		}
	}
	return s.bookings.GetForCourtAndDate(ctx, courtID, date)
}

// authorizeBookingActor admits the booking's owner, an admin, or the owner of
// the sport center the booked court belongs to.
func (s *Service) authorizeBookingActor(ctx context.Context, b *domain.Booking, actorID int64, actorRole string) error {
	if actorID == b.UserID || actorRole == string(domain.RoleAdmin) {
		return nil
	}
	if actorRole == string(domain.RoleCourtOwner) && len(b.Details) > 0 {
		ownerID, err := s.courts.GetOwnerID(ctx, b.Details[0].CourtID)
		if err == nil && ownerID == actorID {
			return nil
		}
	}
	return ErrForbidden
}

// authorizeCourtActor admits only the court side: an admin or the owner of
// the booked court's sport center. The customer is not allowed.
func (s *Service) authorizeCourtActor(ctx context.Context, b *domain.Booking, actorID int64, actorRole string) error {
	if actorRole == string(domain.RoleAdmin) {
		return nil
	}
	if actorRole == string(domain.RoleCourtOwner) && len(b.Details) > 0 {
		ownerID, err := s.courts.GetOwnerID(ctx, b.Details[0].CourtID)
		if err == nil && ownerID == actorID {
			return nil
		}
	}
	return ErrForbidden
}

func materializeSlot(date time.Time, slot SlotRequest) (time.Time, time.Time, error) {
	startClock, err := time.Parse("15:04", slot.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start time %q", ErrValidation, slot.StartTime)
	}
	endClock, err := time.Parse("15:04", slot.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end time %q", ErrValidation, slot.EndTime)
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), startClock.Hour(), startClock.Minute(), 0, 0, time.UTC)
	end := time.Date(date.Year(), date.Month(), date.Day(), endClock.Hour(), endClock.Minute(), 0, 0, time.UTC)
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start must precede end", ErrValidation)
	}
	return start, end, nil
}
