package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courtbook/internal/domain"
	"courtbook/internal/pkg/response"
	"courtbook/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toBookingView(b))
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingView(b))
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.service.GetMyBookings(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	views := make([]BookingView, 0, len(list))
	for i := range list {
		views = append(views, *toBookingView(&list[i]))
	}
	response.Success(c, http.StatusOK, views)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	res, err := h.service.CancelBooking(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) OwnerCancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	res, err := h.service.OwnerCancelBooking(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) MakeDeposit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "A positive amount is required")
		return
	}

	b, err := h.service.MakeDeposit(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingView(b))
}

func (h *Handler) MakePayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "A positive amount is required")
		return
	}

	b, err := h.service.MakePayment(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingView(b))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Status is required")
		return
	}

	b, err := h.service.UpdateBookingStatus(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingView(b))
}

func (h *Handler) GetCourtBookings(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	date := c.Query("date")

	list, err := h.service.GetCourtBookings(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), date)
	if err != nil {
		h.writeError(c, err)
		return
	}

	views := make([]BookingView, 0, len(list))
	for i := range list {
		views = append(views, *toBookingView(&list[i]))
	}
	response.Success(c, http.StatusOK, views)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, domain.ErrInvalidDetail),
		errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, ErrCourtClosed):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrInsufficientDeposit):
		response.Error(c, http.StatusBadRequest, "INSUFFICIENT_DEPOSIT", err.Error())
	case errors.Is(err, ErrSlotConflict), errors.Is(err, repository.ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", err.Error())
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrNoScheduleCoverage):
		response.Error(c, http.StatusUnprocessableEntity, "NO_SCHEDULE_COVERAGE", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or court not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Request failed")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

func toBookingView(b *domain.Booking) *BookingView {
	v := &BookingView{
		ID:               b.ID,
		UserID:           b.UserID,
		BookingDate:      b.BookingDate,
		Status:           string(b.Status),
		TotalTime:        b.TotalTime,
		TotalPrice:       b.TotalPrice,
		InitialDeposit:   b.InitialDeposit,
		TotalPaid:        b.TotalPaid,
		RemainingBalance: b.RemainingBalance,
		Note:             b.Note,
		Details:          make([]DetailView, 0, len(b.Details)),
	}
	for _, d := range b.Details {
		v.Details = append(v.Details, DetailView{
			ID:         d.ID,
			CourtID:    d.CourtID,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			TotalPrice: d.TotalPrice,
		})
	}
	return v
}
