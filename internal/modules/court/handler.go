package court

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

func (h *Handler) CreateSportCenter(c *gin.Context) {
	var req CreateSportCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sc, err := h.service.CreateSportCenter(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sc)
}

func (h *Handler) CreateCourt(c *gin.Context) {
	var req CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	court, err := h.service.CreateCourt(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, court)
}

func (h *Handler) AddSchedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sc, err := h.service.AddSchedule(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sc)
}

func (h *Handler) AddPromotion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.AddPromotion(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) GetCourt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	court, err := h.service.GetCourt(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, court)
}

func (h *Handler) GetSchedules(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	list, err := h.service.GetSchedules(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) GetPromotions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	list, err := h.service.GetPromotions(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) ListCenterCourts(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	list, err := h.service.ListByCenter(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, domain.ErrInvalidCourt):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Court not found")
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
