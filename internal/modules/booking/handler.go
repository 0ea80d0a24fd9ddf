package booking

import (
	"errors"
	"net/http"
	"strconv"

	"lashstudio/internal/middleware"
	"lashstudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	adminID int64
}

func NewHandler(service *Service, adminTgID int64) *Handler {
	return &Handler{service: service, adminID: adminTgID}
}

// RegisterRoutes mounts the client-facing booking endpoints on a
// telegram-authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings/my", h.MyBookings)
	rg.GET("/bookings/:id/status", h.Status)
	rg.DELETE("/bookings/:id", h.Cancel)
}

// RegisterAdminRoutes mounts the provider-only booking endpoints.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.List)
	rg.POST("/bookings/:id/cancel", h.CancelByProvider)
}

func (h *Handler) Create(c *gin.Context) {
	user, ok := middleware.User(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	res, err := h.service.Create(c.Request.Context(), user, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) MyBookings(c *gin.Context) {
	user, ok := middleware.User(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	list, err := h.service.MyBookings(c.Request.Context(), user)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) Status(c *gin.Context) {
	user, ok := middleware.User(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid booking id")
		return
	}

	st, err := h.service.Status(c.Request.Context(), user, user.ID == h.adminID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) Cancel(c *gin.Context) {
	user, ok := middleware.User(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid booking id")
		return
	}

	res, err := h.service.CancelByClient(c.Request.Context(), user, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid query")
		return
	}

	list, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) CancelByProvider(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid booking id")
		return
	}

	res, err := h.service.CancelByProvider(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid booking request")
	case errors.Is(err, ErrServiceNotFound), errors.Is(err, ErrServiceInactive):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Service not found")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Not your booking")
	case errors.Is(err, ErrSlotUnavailable):
		response.Error(c, http.StatusConflict, response.CodeSlotUnavailable, "Requested time is no longer available")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, response.CodeInvalidState, "Booking cannot be cancelled in its current state")
	case errors.Is(err, ErrGateway):
		response.Error(c, http.StatusBadGateway, response.CodeGateway, "Payment provider unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal error")
	}
}
