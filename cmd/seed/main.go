package main

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"courtbook/internal/config"
	"courtbook/internal/database"
	"courtbook/internal/domain"
	"courtbook/internal/pkg/logger"
	"courtbook/internal/repository"
)

// Seeds a development database with a couple of users, one sport center and
// two priced courts so the API can be exercised right after startup.
func main() {
	log := logger.New("seed")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	log.Info().Msg("cleaning old data")
	for _, table := range []string{
		"outbox_messages", "processed_messages",
		"booking_details", "bookings",
		"court_promotions", "court_schedules", "courts",
		"sport_centers", "users",
	} {
		db.Exec("DELETE FROM " + table)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	courts := repository.NewCourtRepository(db)

	log.Info().Msg("creating users")
	admin := seedUser("admin@courtbook.kz", "admin123", domain.RoleAdmin, "Admin")
	owner := seedUser("owner@courtbook.kz", "owner123", domain.RoleCourtOwner, "Arena Owner")
	customer := seedUser("customer@courtbook.kz", "customer123", domain.RoleCustomer, "Customer")
	for _, u := range []*domain.User{admin, owner, customer} {
		if err := users.Create(ctx, u); err != nil {
			log.Fatal().Err(err).Str("email", u.Email).Msg("create user")
		}
	}

	log.Info().Msg("creating sport center")
	center := &domain.SportCenter{
		OwnerID: owner.ID,
		Name:    "Central Arena",
		Address: "12 Abay Ave",
		City:    "Almaty",
	}
	if err := courts.CreateSportCenter(ctx, center); err != nil {
		log.Fatal().Err(err).Msg("create sport center")
	}

	log.Info().Msg("creating courts")
	badminton := &domain.Court{
		SportCenterID:           center.ID,
		SportID:                 1,
		Name:                    "Badminton Court 1",
		SlotDurationMinutes:     60,
		Status:                  domain.CourtOpen,
		CourtType:               domain.CourtIndoor,
		MinDepositPercentage:    30,
		CancellationWindowHours: 24,
		RefundPercentage:        50,
	}
	tennis := &domain.Court{
		SportCenterID:           center.ID,
		SportID:                 2,
		Name:                    "Tennis Court A",
		SlotDurationMinutes:     60,
		Status:                  domain.CourtOpen,
		CourtType:               domain.CourtOutdoor,
		MinDepositPercentage:    50,
		CancellationWindowHours: 48,
		RefundPercentage:        80,
	}
	for _, c := range []*domain.Court{badminton, tennis} {
		if err := courts.CreateCourt(ctx, c); err != nil {
			log.Fatal().Err(err).Str("court", c.Name).Msg("create court")
		}
	}

	log.Info().Msg("creating schedules")
	schedules := []*domain.CourtSchedule{
		{CourtID: badminton.ID, DaysOfWeek: "1,2,3,4,5", StartTime: "08:00", EndTime: "17:00", PriceSlot: 100, Status: domain.ScheduleAvailable},
		{CourtID: badminton.ID, DaysOfWeek: "1,2,3,4,5", StartTime: "17:00", EndTime: "23:00", PriceSlot: 150, Status: domain.ScheduleAvailable},
		{CourtID: badminton.ID, DaysOfWeek: "6,7", StartTime: "09:00", EndTime: "22:00", PriceSlot: 180, Status: domain.ScheduleAvailable},
		{CourtID: tennis.ID, DaysOfWeek: "1,2,3,4,5,6,7", StartTime: "07:00", EndTime: "22:00", PriceSlot: 200, Status: domain.ScheduleAvailable},
	}
	for _, s := range schedules {
		if err := s.Validate(); err != nil {
			log.Fatal().Err(err).Msg("schedule invalid")
		}
		if err := courts.CreateSchedule(ctx, s); err != nil {
			log.Fatal().Err(err).Msg("create schedule")
		}
	}

	log.Info().Msg("creating promotions")
	now := time.Now()
	promos := []*domain.CourtPromotion{
		{
			CourtID:       badminton.ID,
			Description:   "Opening month 20% off",
			DiscountType:  domain.DiscountPercentage,
			DiscountValue: 20,
			ValidFrom:     now.AddDate(0, 0, -7),
			ValidTo:       now.AddDate(0, 1, 0),
		},
		{
			CourtID:       tennis.ID,
			Description:   "Flat 500 off weekday mornings",
			DiscountType:  domain.DiscountFixedAmount,
			DiscountValue: 500,
			ValidFrom:     now.AddDate(0, 0, -7),
			ValidTo:       now.AddDate(0, 2, 0),
		},
	}
	for _, p := range promos {
		if err := p.Validate(); err != nil {
			log.Fatal().Err(err).Msg("promotion invalid")
		}
		if err := courts.CreatePromotion(ctx, p); err != nil {
			log.Fatal().Err(err).Msg("create promotion")
		}
	}

	log.Info().
		Int64("center", center.ID).
		Int64("badminton", badminton.ID).
		Int64("tennis", tennis.ID).
		Msg("seed complete")
}

func seedUser(email, password string, role domain.UserRole, name string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Name:         name,
	}
}
