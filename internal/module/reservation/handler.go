package reservation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roamstay/server/internal/shared/middleware"
)

// Handler handles HTTP requests for reservations.
type Handler struct {
	service *Service
}

// NewHandler creates a new reservation handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	reservations := r.Group("/reservations")
	{
		reservations.POST("", h.Create)
		reservations.GET("", h.List)
		reservations.GET("/:id", h.Get)
		reservations.POST("/:id/cancel", h.Cancel)
	}
}

// RegisterAdminRoutes registers the admin reservation routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	reservations := r.Group("/reservations")
	{
		reservations.GET("", h.ListAll)
		reservations.POST("/:id/complete", h.Complete)
	}
}

// Create creates a new reservation.
//
//	@Summary	Create reservation
//	@Tags		Reservation
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateReservationRequest	true	"Reservation request"
//	@Success	201		{object}	Reservation
//	@Failure	400		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/reservations [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// Get returns a reservation by ID.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	isAdmin := middleware.GetRole(c) == "admin"
	reservation, err := h.service.Get(c.Request.Context(), id, middleware.GetUserID(c), isAdmin)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// List returns the caller's reservations.
func (h *Handler) List(c *gin.Context) {
	var filter ReservationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pagination := NewPagination()
	if err := c.ShouldBindQuery(pagination); err != nil || pagination.Page < 1 {
		pagination = NewPagination()
	}

	reservations, total, err := h.service.ListForUser(c.Request.Context(), middleware.GetUserID(c), &filter, pagination)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReservationListResponse{
		Reservations: reservations,
		Total:        total,
		Page:         pagination.Page,
		PageSize:     pagination.PageSize,
	})
}

// ListAll returns all reservations (admin).
func (h *Handler) ListAll(c *gin.Context) {
	var filter ReservationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pagination := NewPagination()
	if err := c.ShouldBindQuery(pagination); err != nil || pagination.Page < 1 {
		pagination = NewPagination()
	}

	reservations, total, err := h.service.ListAll(c.Request.Context(), &filter, pagination)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReservationListResponse{
		Reservations: reservations,
		Total:        total,
		Page:         pagination.Page,
		PageSize:     pagination.PageSize,
	})
}

// Cancel cancels a reservation.
func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	isAdmin := middleware.GetRole(c) == "admin"
	reservation, err := h.service.Cancel(c.Request.Context(), id, middleware.GetUserID(c), isAdmin)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// Complete marks a reservation as completed (admin).
func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	reservation, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// handleError maps service errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation_not_found", "message": "Reservation not found"})
	case errors.Is(err, ErrHotelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "hotel_not_found", "message": "Hotel not found"})
	case errors.Is(err, ErrRoomTypeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room_type_not_found", "message": "Room type not found"})
	case errors.Is(err, ErrPackageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "package_not_found", "message": "Package not found"})
	case errors.Is(err, ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date_range", "message": "Check-out must be after check-in"})
	case errors.Is(err, ErrCheckInInPast):
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in_in_past", "message": "Check-in date is in the past"})
	case errors.Is(err, ErrCapacityExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacity_exceeded", "message": "Guest count exceeds room capacity"})
	case errors.Is(err, ErrRoomUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "room_unavailable", "message": "No rooms available for the selected dates"})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition", "message": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "Access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
