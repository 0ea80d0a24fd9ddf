package availability

import (
	"net/http"
	"strconv"

	"lashstudio/internal/pkg/response"
	"lashstudio/internal/timegrid"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/available-dates", h.AvailableDates)
	rg.GET("/available-times", h.AvailableTimes)
	rg.GET("/calendar", h.Calendar)
}

func (h *Handler) AvailableDates(c *gin.Context) {
	var serviceID *int64
	if raw := c.Query("service_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid service_id")
			return
		}
		serviceID = &id
	}

	dates, err := h.service.AvailableDates(c.Request.Context(), serviceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load dates")
		return
	}
	response.Success(c, http.StatusOK, dates)
}

func (h *Handler) AvailableTimes(c *gin.Context) {
	date := c.Query("date")
	if !timegrid.IsValidDate(date) {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid date format")
		return
	}
	serviceID, err := strconv.ParseInt(c.Query("service_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid service_id")
		return
	}

	times, err := h.service.AvailableTimes(c.Request.Context(), date, serviceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load times")
		return
	}
	response.Success(c, http.StatusOK, times)
}

func (h *Handler) Calendar(c *gin.Context) {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 || year < 2000 || year > 2100 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid year/month")
		return
	}

	var serviceID *int64
	if raw := c.Query("service_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid service_id")
			return
		}
		serviceID = &id
	}

	days, err := h.service.Calendar(c.Request.Context(), year, month, serviceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load calendar")
		return
	}
	response.Success(c, http.StatusOK, days)
}
