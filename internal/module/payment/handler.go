package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roamstay/server/internal/module/payment/provider"
	"github.com/roamstay/server/internal/shared/middleware"
	"github.com/roamstay/server/internal/shared/response"
)

// Handler handles HTTP requests for payments.
type Handler struct {
	service *Service
}

// NewHandler creates a new payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.POST("/intent", h.CreateIntent)
		payments.POST("/confirm", h.Confirm)
		payments.GET("", h.List)
		payments.GET("/:id", h.Get)
	}
}

// RegisterAdminRoutes registers the admin payment routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.POST("/:id/refund", h.Refund)
	}
}

// CreateIntent creates a payment intent for a reservation.
//
//	@Summary	Create payment intent
//	@Tags		Payment
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateIntentRequest	true	"Intent request"
//	@Success	200		{object}	PaymentIntentResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/payments/intent [post]
func (h *Handler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.CreateIntent(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		handlePaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Confirm confirms a payment intent with a payment method.
//
//	@Summary	Confirm payment
//	@Tags		Payment
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ConfirmRequest	true	"Confirm request"
//	@Success	200		{object}	ConfirmResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	402		{object}	map[string]string
//	@Router		/payments/confirm [post]
func (h *Handler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Confirm(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		handlePaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns a payment by ID.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	isAdmin := middleware.GetRole(c) == "admin"
	payment, err := h.service.Get(c.Request.Context(), id, middleware.GetUserID(c), isAdmin)
	if err != nil {
		handlePaymentError(c, err)
		return
	}

	resp, err := payment.ToResponse()
	if err != nil {
		handlePaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List returns payments visible to the caller.
func (h *Handler) List(c *gin.Context) {
	var pagination Pagination
	if err := c.ShouldBindQuery(&pagination); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	isAdmin := middleware.GetRole(c) == "admin"
	payments, total, err := h.service.List(c.Request.Context(), middleware.GetUserID(c), isAdmin, &pagination)
	if err != nil {
		handlePaymentError(c, err)
		return
	}

	responses := make([]*PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp, err := p.ToResponse()
		if err != nil {
			handlePaymentError(c, err)
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, PaymentListResponse{
		Payments: responses,
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
}

// Refund refunds a payment (admin).
//
//	@Summary	Refund payment
//	@Tags		Payment
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Payment ID"
//	@Param		request	body		RefundRequest	true	"Refund request"
//	@Success	200		{object}	RefundResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/payments/{id}/refund [post]
func (h *Handler) Refund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Refund(c.Request.Context(), id, &req)
	if err != nil {
		handlePaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// paymentErrorMappings maps service errors to HTTP responses.
var paymentErrorMappings = []response.ErrorMapping{
	{Err: ErrPaymentNotFound, Status: http.StatusNotFound, Code: "payment_not_found", Message: "Payment not found"},
	{Err: ErrReservationNotFound, Status: http.StatusNotFound, Code: "reservation_not_found", Message: "Reservation not found"},
	{Err: ErrForbidden, Status: http.StatusForbidden, Code: "forbidden", Message: "Access denied"},
	{Err: ErrInvalidAmount, Status: http.StatusBadRequest, Code: "invalid_amount", Message: "Invalid payment amount"},
	{Err: ErrNotRefundable, Status: http.StatusConflict, Code: "not_refundable", Message: "Payment cannot be refunded"},
	{Err: ErrMissingIntentID, Status: http.StatusConflict, Code: "missing_intent", Message: "Payment has no provider intent"},
	{Err: ErrDuplicateIntent, Status: http.StatusConflict, Code: "duplicate_intent", Message: "Payment intent already processed"},
	{Err: ErrConfirmationFailed, Status: http.StatusPaymentRequired, Code: "confirmation_failed"},
	{Err: ErrInvalidMetadata, Status: http.StatusUnprocessableEntity, Code: "invalid_metadata", Message: "Payment metadata could not be parsed"},
	{Err: provider.ErrBreakerOpen, Status: http.StatusServiceUnavailable, Code: "provider_unavailable", Message: "Payment provider temporarily unavailable"},
}

func handlePaymentError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, paymentErrorMappings)
}
