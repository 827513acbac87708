package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"courtbook/internal/domain"
	"courtbook/internal/outbox"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("booking slot already taken")
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	UserID             int64      `gorm:"column:user_id;index"`
	BookingDate        time.Time  `gorm:"column:booking_date;index"`
	Status             string     `gorm:"column:status"`
	TotalTime          float64    `gorm:"column:total_time"`
	TotalPrice         float64    `gorm:"column:total_price"`
	InitialDeposit     float64    `gorm:"column:initial_deposit"`
	TotalPaid          float64    `gorm:"column:total_paid"`
	RemainingBalance   float64    `gorm:"column:remaining_balance"`
	Note               *string    `gorm:"column:note"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`

	Details []bookingDetailModel `gorm:"foreignKey:BookingID"`
}

func (bookingModel) TableName() string { return "bookings" }

type bookingDetailModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	BookingID  int64     `gorm:"column:booking_id;index"`
	CourtID    int64     `gorm:"column:court_id;index"`
	StartTime  time.Time `gorm:"column:start_time"`
	EndTime    time.Time `gorm:"column:end_time"`
	TotalPrice float64   `gorm:"column:total_price"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (bookingDetailModel) TableName() string { return "booking_details" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var note, reason string
	if m.Note != nil {
		note = *m.Note
	}
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	b := &domain.Booking{
		ID:                 m.ID,
		UserID:             m.UserID,
		BookingDate:        m.BookingDate,
		Status:             domain.BookingStatus(m.Status),
		TotalTime:          m.TotalTime,
		TotalPrice:         m.TotalPrice,
		InitialDeposit:     m.InitialDeposit,
		TotalPaid:          m.TotalPaid,
		RemainingBalance:   m.RemainingBalance,
		Note:               note,
		CancellationReason: reason,
		CancelledAt:        m.CancelledAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	for _, d := range m.Details {
		b.Details = append(b.Details, domain.BookingDetail{
			ID:         d.ID,
			BookingID:  d.BookingID,
			CourtID:    d.CourtID,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			TotalPrice: d.TotalPrice,
			CreatedAt:  d.CreatedAt,
		})
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	var note, reason *string
	if b.Note != "" {
		v := b.Note
		note = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}

	return bookingModel{
		ID:                 b.ID,
		UserID:             b.UserID,
		BookingDate:        b.BookingDate,
		Status:             string(b.Status),
		TotalTime:          b.TotalTime,
		TotalPrice:         b.TotalPrice,
		InitialDeposit:     b.InitialDeposit,
		TotalPaid:          b.TotalPaid,
		RemainingBalance:   b.RemainingBalance,
		Note:               note,
		CancellationReason: reason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// Create persists the aggregate, its line items and the outbox records in a
// single transaction. The conflict check against active details is re-run
// inside the transaction so two concurrent creates for the same slot cannot
// both commit; a lost race surfaces as ErrConflict. Any failure rolls the
// whole write back.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking, recs []outbox.Record) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range b.Details {
			existing, err := activeDetailsForCourtDate(tx, b.Details[i].CourtID, b.BookingDate)
			if err != nil {
				return err
			}
			for _, ex := range existing {
				if b.Details[i].StartTime.Before(ex.EndTime) && ex.StartTime.Before(b.Details[i].EndTime) {
					return ErrConflict
				}
			}
		}

		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		b.ID = m.ID
		for i := range b.Details {
			d := bookingDetailModel{
				BookingID:  m.ID,
				CourtID:    b.Details[i].CourtID,
				StartTime:  b.Details[i].StartTime,
				EndTime:    b.Details[i].EndTime,
				TotalPrice: b.Details[i].TotalPrice,
			}
			if err := tx.Create(&d).Error; err != nil {
				return err
			}
			b.Details[i].ID = d.ID
			b.Details[i].BookingID = m.ID
		}
		return insertOutbox(tx, recs)
	})
}

// Update saves mutated aggregate state together with its outbox records.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking, recs []outbox.Record) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateBooking(tx, b, recs)
	})
}

// UpdateOnce is Update guarded by the processed-message ledger: the ledger row
// and the aggregate mutation commit in one transaction, so a failed apply
// leaves no ledger trace and the redelivery is applied cleanly. Returns false
// without writing anything when the transaction id was already recorded.
func (r *BookingRepository) UpdateOnce(ctx context.Context, b *domain.Booking, recs []outbox.Record, transactionID, eventName string) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		first, err := markProcessed(tx, transactionID, eventName)
		if err != nil {
			return err
		}
		if !first {
			return nil
		}
		if err := updateBooking(tx, b, recs); err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

func updateBooking(tx *gorm.DB, b *domain.Booking, recs []outbox.Record) error {
	m := toBookingModel(b)
	res := tx.Model(&bookingModel{}).Where("id = ?", b.ID).Updates(map[string]any{
		"status":              m.Status,
		"total_paid":          m.TotalPaid,
		"remaining_balance":   m.RemainingBalance,
		"cancellation_reason": m.CancellationReason,
		"cancelled_at":        m.CancelledAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return insertOutbox(tx, recs)
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Preload("Details").First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func activeDetailsForCourtDate(tx *gorm.DB, courtID int64, date time.Time) ([]bookingDetailModel, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var models []bookingDetailModel
	res := tx.Model(&bookingDetailModel{}).
		Joins("JOIN bookings ON bookings.id = booking_details.booking_id").
		Where("booking_details.court_id = ?", courtID).
		Where("bookings.booking_date = ?", day).
		Where("bookings.status NOT IN ?", []string{
			string(domain.BookingCancelled),
			string(domain.BookingPaymentFail),
		}).
		Find(&models)
	return models, res.Error
}

// GetActiveDetailsForCourtDate returns the line items of all non-cancelled,
// non-payment-failed bookings for a court on a calendar date. The conflict
// checker runs against this set.
func (r *BookingRepository) GetActiveDetailsForCourtDate(ctx context.Context, courtID int64, date time.Time) ([]domain.BookingDetail, error) {
	models, err := activeDetailsForCourtDate(r.db.WithContext(ctx), courtID, date)
	if err != nil {
		return nil, err
	}

	out := make([]domain.BookingDetail, 0, len(models))
	for _, d := range models {
		out = append(out, domain.BookingDetail{
			ID:         d.ID,
			BookingID:  d.BookingID,
			CourtID:    d.CourtID,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			TotalPrice: d.TotalPrice,
		})
	}
	return out, nil
}

func (r *BookingRepository) GetByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Preload("Details").
		Where("user_id = ?", userID).
		Order("booking_date DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) GetForCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]domain.Booking, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Preload("Details").
		Joins("JOIN booking_details ON booking_details.booking_id = bookings.id").
		Where("booking_details.court_id = ?", courtID).
		Where("bookings.booking_date = ?", day).
		Distinct("bookings.*").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
