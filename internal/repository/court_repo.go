package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"courtbook/internal/domain"
)

type CourtRepository struct {
	db *gorm.DB
}

func NewCourtRepository(db *gorm.DB) *CourtRepository {
	return &CourtRepository{db: db}
}

type sportCenterModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	OwnerID   int64     `gorm:"column:owner_id;index"`
	Name      string    `gorm:"column:name"`
	Address   string    `gorm:"column:address"`
	City      string    `gorm:"column:city"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (sportCenterModel) TableName() string { return "sport_centers" }

type courtModel struct {
	ID                      int64     `gorm:"column:id;primaryKey"`
	SportCenterID           int64     `gorm:"column:sport_center_id;index"`
	SportID                 int64     `gorm:"column:sport_id"`
	Name                    string    `gorm:"column:name"`
	SlotDurationMinutes     int       `gorm:"column:slot_duration_minutes"`
	Status                  string    `gorm:"column:status"`
	CourtType               string    `gorm:"column:court_type"`
	MinDepositPercentage    float64   `gorm:"column:min_deposit_percentage"`
	CancellationWindowHours float64   `gorm:"column:cancellation_window_hours"`
	RefundPercentage        float64   `gorm:"column:refund_percentage"`
	CreatedAt               time.Time `gorm:"column:created_at"`
	UpdatedAt               time.Time `gorm:"column:updated_at"`
}

func (courtModel) TableName() string { return "courts" }

type courtScheduleModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	CourtID    int64     `gorm:"column:court_id;index"`
	DaysOfWeek string    `gorm:"column:days_of_week"`
	StartTime  string    `gorm:"column:start_time"`
	EndTime    string    `gorm:"column:end_time"`
	PriceSlot  float64   `gorm:"column:price_slot"`
	Status     string    `gorm:"column:status"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (courtScheduleModel) TableName() string { return "court_schedules" }

type courtPromotionModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	CourtID       int64     `gorm:"column:court_id;index"`
	Description   string    `gorm:"column:description"`
	DiscountType  string    `gorm:"column:discount_type"`
	DiscountValue float64   `gorm:"column:discount_value"`
	ValidFrom     time.Time `gorm:"column:valid_from"`
	ValidTo       time.Time `gorm:"column:valid_to"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (courtPromotionModel) TableName() string { return "court_promotions" }

func toDomainCourt(m courtModel) *domain.Court {
	return &domain.Court{
		ID:                      m.ID,
		SportCenterID:           m.SportCenterID,
		SportID:                 m.SportID,
		Name:                    m.Name,
		SlotDurationMinutes:     m.SlotDurationMinutes,
		Status:                  domain.CourtStatus(m.Status),
		CourtType:               domain.CourtType(m.CourtType),
		MinDepositPercentage:    m.MinDepositPercentage,
		CancellationWindowHours: m.CancellationWindowHours,
		RefundPercentage:        m.RefundPercentage,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

func toDomainSchedule(m courtScheduleModel) domain.CourtSchedule {
	return domain.CourtSchedule{
		ID:         m.ID,
		CourtID:    m.CourtID,
		DaysOfWeek: m.DaysOfWeek,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		PriceSlot:  m.PriceSlot,
		Status:     domain.ScheduleStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toDomainPromotion(m courtPromotionModel) domain.CourtPromotion {
	return domain.CourtPromotion{
		ID:            m.ID,
		CourtID:       m.CourtID,
		Description:   m.Description,
		DiscountType:  domain.DiscountType(m.DiscountType),
		DiscountValue: m.DiscountValue,
		ValidFrom:     m.ValidFrom,
		ValidTo:       m.ValidTo,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *CourtRepository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	var m courtModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainCourt(m), nil
}

// GetSchedules returns all Available schedules for a court; weekday filtering
// happens in the service because the day set is stored denormalized.
func (r *CourtRepository) GetSchedules(ctx context.Context, courtID int64) ([]domain.CourtSchedule, error) {
	var models []courtScheduleModel
	tx := r.db.WithContext(ctx).
		Where("court_id = ? AND status = ?", courtID, string(domain.ScheduleAvailable)).
		Order("start_time").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.CourtSchedule, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainSchedule(m))
	}
	return out, nil
}

func (r *CourtRepository) GetPromotionsForDate(ctx context.Context, courtID int64, date time.Time) ([]domain.CourtPromotion, error) {
	var models []courtPromotionModel
	tx := r.db.WithContext(ctx).
		Where("court_id = ? AND valid_from <= ? AND valid_to >= ?", courtID, date, date).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.CourtPromotion, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainPromotion(m))
	}
	return out, nil
}

// GetOwnerID resolves the user owning the sport center a court belongs to.
func (r *CourtRepository) GetOwnerID(ctx context.Context, courtID int64) (int64, error) {
	var ownerID int64
	q := `
SELECT sport_centers.owner_id
FROM courts
JOIN sport_centers ON sport_centers.id = courts.sport_center_id
WHERE courts.id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, courtID).Scan(&ownerID)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return ownerID, nil
}

// GetCenterOwnerID resolves a sport center's owning user.
func (r *CourtRepository) GetCenterOwnerID(ctx context.Context, centerID int64) (int64, error) {
	var m sportCenterModel
	tx := r.db.WithContext(ctx).First(&m, centerID)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, tx.Error
	}
	return m.OwnerID, nil
}

func (r *CourtRepository) CreateSportCenter(ctx context.Context, sc *domain.SportCenter) error {
	m := sportCenterModel{
		OwnerID: sc.OwnerID,
		Name:    sc.Name,
		Address: sc.Address,
		City:    sc.City,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	sc.ID = m.ID
	return nil
}

func (r *CourtRepository) CreateCourt(ctx context.Context, c *domain.Court) error {
	m := courtModel{
		SportCenterID:           c.SportCenterID,
		SportID:                 c.SportID,
		Name:                    c.Name,
		SlotDurationMinutes:     c.SlotDurationMinutes,
		Status:                  string(c.Status),
		CourtType:               string(c.CourtType),
		MinDepositPercentage:    c.MinDepositPercentage,
		CancellationWindowHours: c.CancellationWindowHours,
		RefundPercentage:        c.RefundPercentage,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	c.ID = m.ID
	return nil
}

func (r *CourtRepository) CreateSchedule(ctx context.Context, s *domain.CourtSchedule) error {
	m := courtScheduleModel{
		CourtID:    s.CourtID,
		DaysOfWeek: s.DaysOfWeek,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		PriceSlot:  s.PriceSlot,
		Status:     string(s.Status),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	s.ID = m.ID
	return nil
}

func (r *CourtRepository) CreatePromotion(ctx context.Context, p *domain.CourtPromotion) error {
	m := courtPromotionModel{
		CourtID:       p.CourtID,
		Description:   p.Description,
		DiscountType:  string(p.DiscountType),
		DiscountValue: p.DiscountValue,
		ValidFrom:     p.ValidFrom,
		ValidTo:       p.ValidTo,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	p.ID = m.ID
	return nil
}

func (r *CourtRepository) ListByCenter(ctx context.Context, centerID int64) ([]domain.Court, error) {
	var models []courtModel
	tx := r.db.WithContext(ctx).Where("sport_center_id = ?", centerID).Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Court, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainCourt(m))
	}
	return out, nil
}

func (r *CourtRepository) ListPromotions(ctx context.Context, courtID int64) ([]domain.CourtPromotion, error) {
	var models []courtPromotionModel
	tx := r.db.WithContext(ctx).Where("court_id = ?", courtID).Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.CourtPromotion, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainPromotion(m))
	}
	return out, nil
}
