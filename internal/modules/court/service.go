package court

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"courtbook/internal/domain"
)

// Repository is the write side of court management plus the lookups the
// handlers need.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
	GetOwnerID(ctx context.Context, courtID int64) (int64, error)
	GetSchedules(ctx context.Context, courtID int64) ([]domain.CourtSchedule, error)
	ListPromotions(ctx context.Context, courtID int64) ([]domain.CourtPromotion, error)
	ListByCenter(ctx context.Context, centerID int64) ([]domain.Court, error)
	CreateSportCenter(ctx context.Context, sc *domain.SportCenter) error
	CreateCourt(ctx context.Context, c *domain.Court) error
	CreateSchedule(ctx context.Context, s *domain.CourtSchedule) error
	CreatePromotion(ctx context.Context, p *domain.CourtPromotion) error
	GetCenterOwnerID(ctx context.Context, centerID int64) (int64, error)
}

type Service struct {
	courts Repository
	log    zerolog.Logger
}

func NewService(courts Repository, log zerolog.Logger) *Service {
	return &Service{courts: courts, log: log}
}

func (s *Service) CreateSportCenter(ctx context.Context, ownerID int64, req CreateSportCenterRequest) (*domain.SportCenter, error) {
	sc := &domain.SportCenter{
		OwnerID: ownerID,
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := s.courts.CreateSportCenter(ctx, sc); err != nil {
		return nil, err
	}
	s.log.Info().Int64("sport_center_id", sc.ID).Int64("owner_id", ownerID).Msg("sport center created")
	return sc, nil
}

func (s *Service) CreateCourt(ctx context.Context, actorID int64, actorRole string, req CreateCourtRequest) (*domain.Court, error) {
	if actorRole != string(domain.RoleAdmin) {
		ownerID, err := s.courts.GetCenterOwnerID(ctx, req.SportCenterID)
		if err != nil {
			return nil, err
		}
		if ownerID != actorID {
			return nil, ErrForbidden
		}
	}

	c := &domain.Court{
		SportCenterID:           req.SportCenterID,
		SportID:                 req.SportID,
		Name:                    req.Name,
		SlotDurationMinutes:     req.SlotDurationMinutes,
		Status:                  domain.CourtOpen,
		CourtType:               domain.CourtType(req.CourtType),
		MinDepositPercentage:    req.MinDepositPercentage,
		CancellationWindowHours: req.CancellationWindowHours,
		RefundPercentage:        req.RefundPercentage,
	}
	if c.SlotDurationMinutes == 0 {
		c.SlotDurationMinutes = 60
	}
	if c.CourtType == "" {
		c.CourtType = domain.CourtIndoor
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.courts.CreateCourt(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info().Int64("court_id", c.ID).Str("name", c.Name).Msg("court created")
	return c, nil
}

// AddSchedule attaches a weekly price band to a court the actor owns.
func (s *Service) AddSchedule(ctx context.Context, courtID, actorID int64, actorRole string, req CreateScheduleRequest) (*domain.CourtSchedule, error) {
	if err := s.authorize(ctx, courtID, actorID, actorRole); err != nil {
		return nil, err
	}

	sc := &domain.CourtSchedule{
		CourtID:    courtID,
		DaysOfWeek: req.DaysOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		PriceSlot:  req.PriceSlot,
		Status:     domain.ScheduleAvailable,
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.courts.CreateSchedule(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *Service) AddPromotion(ctx context.Context, courtID, actorID int64, actorRole string, req CreatePromotionRequest) (*domain.CourtPromotion, error) {
	if err := s.authorize(ctx, courtID, actorID, actorRole); err != nil {
		return nil, err
	}

	from, err := time.Parse("2006-01-02", req.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: bad valid_from %q", ErrValidation, req.ValidFrom)
	}
	to, err := time.Parse("2006-01-02", req.ValidTo)
	if err != nil {
		return nil, fmt.Errorf("%w: bad valid_to %q", ErrValidation, req.ValidTo)
	}

	p := &domain.CourtPromotion{
		CourtID:       courtID,
		Description:   req.Description,
		DiscountType:  domain.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		ValidFrom:     from,
		ValidTo:       to,
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.courts.CreatePromotion(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetCourt(ctx context.Context, id int64) (*domain.Court, error) {
	return s.courts.GetByID(ctx, id)
}

func (s *Service) GetSchedules(ctx context.Context, courtID int64) ([]domain.CourtSchedule, error) {
	return s.courts.GetSchedules(ctx, courtID)
}

func (s *Service) GetPromotions(ctx context.Context, courtID int64) ([]domain.CourtPromotion, error) {
	return s.courts.ListPromotions(ctx, courtID)
}

func (s *Service) ListByCenter(ctx context.Context, centerID int64) ([]domain.Court, error) {
	return s.courts.ListByCenter(ctx, centerID)
}

func (s *Service) authorize(ctx context.Context, courtID, actorID int64, actorRole string) error {
	if actorRole == string(domain.RoleAdmin) {
		return nil
	}
	ownerID, err := s.courts.GetOwnerID(ctx, courtID)
	if err != nil {
		return err
	}
	if ownerID != actorID {
		return ErrForbidden
	}
	return nil
}
