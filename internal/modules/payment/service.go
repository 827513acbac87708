package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"courtbook/internal/domain"
	"courtbook/internal/outbox"
	"courtbook/internal/repository"
)

var ErrValidation = errors.New("validation error")

type Service struct {
	bookings bookingRepo
	log      zerolog.Logger

	now func() time.Time
}

func NewService(bookings bookingRepo, log zerolog.Logger) *Service {
	return &Service{
		bookings: bookings,
		log:      log,
		now:      time.Now,
	}
}

// HandleSucceeded applies a confirmed payment to its booking. The ledger row
// that detects redeliveries commits in the same transaction as the booking
// state, so a transient persistence failure leaves no ledger trace and the
// broker's redelivery applies the payment cleanly. A missing booking
// reference is logged and acknowledged because we cannot repair a malformed
// gateway payload by retrying it.
func (s *Service) HandleSucceeded(ctx context.Context, evt SucceededEvent) error {
	if evt.TransactionID == "" {
		return fmt.Errorf("%w: missing transaction id", ErrValidation)
	}
	if evt.Amount <= 0 {
		return fmt.Errorf("%w: non-positive amount", ErrValidation)
	}
	if evt.ReferenceID == 0 {
		s.log.Warn().Str("transaction_id", evt.TransactionID).Msg("payment event without booking reference, skipping")
		return nil
	}

	b, err := s.bookings.GetByID(ctx, evt.ReferenceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn().
				Int64("booking_id", evt.ReferenceID).
				Str("transaction_id", evt.TransactionID).
				Msg("payment event for unknown booking, skipping")
			return nil
		}
		return err
	}

	if err := b.ProcessAdditionalPayment(evt.Amount, s.now()); err != nil {
		// already completed/cancelled bookings cannot absorb the payment;
		// surface it for manual reconciliation instead of retrying forever
		s.log.Error().
			Err(err).
			Int64("booking_id", b.ID).
			Str("transaction_id", evt.TransactionID).
			Str("status", string(b.Status)).
			Msg("payment not applicable to booking state")
		return nil
	}

	recs, err := outbox.Encode(b.TakeEvents())
	if err != nil {
		return err
	}
	applied, err := s.bookings.UpdateOnce(ctx, b, recs, evt.TransactionID, KeyPaymentSucceeded)
	if err != nil {
		return err
	}
	if !applied {
		s.log.Info().Str("transaction_id", evt.TransactionID).Msg("duplicate payment event, already applied")
		return nil
	}

	s.log.Info().
		Int64("booking_id", b.ID).
		Float64("amount", evt.Amount).
		Float64("remaining_balance", b.RemainingBalance).
		Str("status", string(b.Status)).
		Msg("payment applied")
	return nil
}

// HandleFailed marks a pending booking as payment-failed. Unknown references
// are tolerated: the event describes something we cannot correct.
func (s *Service) HandleFailed(ctx context.Context, evt FailedEvent) error {
	if evt.ReferenceID == 0 {
		s.log.Warn().Msg("payment failure without booking reference, skipping")
		return nil
	}

	b, err := s.bookings.GetByID(ctx, evt.ReferenceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn().Int64("booking_id", evt.ReferenceID).Msg("payment failure for unknown booking, skipping")
			return nil
		}
		return err
	}

	if err := b.MarkPaymentFailed(); err != nil {
		if errors.Is(err, domain.ErrInvalidStatusTransition) {
			s.log.Info().
				Int64("booking_id", b.ID).
				Str("status", string(b.Status)).
				Msg("payment failure ignored, booking no longer pending")
			return nil
		}
		return err
	}

	if err := s.bookings.Update(ctx, b, nil); err != nil {
		return err
	}

	s.log.Info().
		Int64("booking_id", b.ID).
		Str("description", evt.Description).
		Msg("booking marked payment-failed")
	return nil
}
