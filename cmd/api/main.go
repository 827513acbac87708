package main

import (
	"github.com/gin-gonic/gin"

	"courtbook/internal/config"
	"courtbook/internal/database"
	"courtbook/internal/middleware"
	bookingmod "courtbook/internal/modules/booking"
	courtmod "courtbook/internal/modules/court"
	jwtsvc "courtbook/internal/pkg/jwt"
	"courtbook/internal/pkg/logger"
	"courtbook/internal/repository"
)

func main() {
	log := logger.New("api")

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

	bookingRepo := repository.NewBookingRepository(db)
	courtRepo := repository.NewCourtRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	bookingService := bookingmod.NewService(bookingRepo, courtRepo, log)
	bookingHandler := bookingmod.NewHandler(bookingService)

	courtService := courtmod.NewService(courtRepo, log)
	courtHandler := courtmod.NewHandler(courtService)

	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			courtHandler.RegisterRoutes(protected)
		}
	}

	log.Info().Str("addr", cfg.HTTPAddr).Msg("starting HTTP API")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
