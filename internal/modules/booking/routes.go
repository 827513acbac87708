package booking

import (
	"github.com/gin-gonic/gin"

	"courtbook/internal/domain"
	"courtbook/internal/middleware"
)

// RegisterRoutes wires the booking endpoints. The group is expected to carry
// the auth middleware already.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.GET("/users/me/bookings", h.GetMyBookings)

	rg.PATCH("/bookings/:id/cancel", h.CancelBooking)
	rg.PATCH("/bookings/:id/deposit", h.MakeDeposit)
	rg.PATCH("/bookings/:id/pay", h.MakePayment)

	owner := rg.Group("/", middleware.RequireRole(domain.RoleCourtOwner, domain.RoleAdmin))
	{
		owner.PATCH("/bookings/:id/owner-cancel", h.OwnerCancelBooking)
		owner.PATCH("/bookings/:id/status", h.UpdateStatus)
		owner.GET("/courts/:id/bookings", h.GetCourtBookings)
	}
}
