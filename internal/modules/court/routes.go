package court

import (
	"github.com/gin-gonic/gin"

	"courtbook/internal/domain"
	"courtbook/internal/middleware"
)

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	// read-only catalog, any authenticated user
	rg.GET("/courts/:id", h.GetCourt)
	rg.GET("/courts/:id/schedules", h.GetSchedules)
	rg.GET("/courts/:id/promotions", h.GetPromotions)
	rg.GET("/sport-centers/:id/courts", h.ListCenterCourts)

	owner := rg.Group("/", middleware.RequireRole(domain.RoleCourtOwner, domain.RoleAdmin))
	{
		owner.POST("/sport-centers", h.CreateSportCenter)
		owner.POST("/courts", h.CreateCourt)
		owner.POST("/courts/:id/schedules", h.AddSchedule)
		owner.POST("/courts/:id/promotions", h.AddPromotion)
	}
}
