package payment

import (
	"context"

	"courtbook/internal/domain"
	"courtbook/internal/outbox"
)

// bookingRepo persists payment-driven mutations. UpdateOnce commits the
// mutation, its outbox records and the idempotency-ledger row in a single
// transaction keyed by the gateway transaction id: duplicates are reported
// without writing, and a failed apply leaves no ledger trace so the
// redelivered event is applied cleanly.
type bookingRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking, recs []outbox.Record) error
	UpdateOnce(ctx context.Context, b *domain.Booking, recs []outbox.Record, transactionID, eventName string) (bool, error)
}
