package booking

import (
	"context"
	"time"

	"courtbook/internal/domain"
	"courtbook/internal/outbox"
)

// BookingRepository persists the aggregate. Mutating calls take the outbox
// records produced by the same mutation so both share one transaction.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking, recs []outbox.Record) error
	Update(ctx context.Context, b *domain.Booking, recs []outbox.Record) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetActiveDetailsForCourtDate(ctx context.Context, courtID int64, date time.Time) ([]domain.BookingDetail, error)
	GetByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	GetForCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]domain.Booking, error)
}

// CourtRepository is the read-only court/schedule/promotion lookup.
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
	GetSchedules(ctx context.Context, courtID int64) ([]domain.CourtSchedule, error)
	GetPromotionsForDate(ctx context.Context, courtID int64, date time.Time) ([]domain.CourtPromotion, error)
	GetOwnerID(ctx context.Context, courtID int64) (int64, error)
}
