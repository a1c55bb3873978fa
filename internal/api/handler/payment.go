package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kvadrat/estate_go_server/internal/api/middleware"
	"github.com/kvadrat/estate_go_server/internal/model"
	"github.com/kvadrat/estate_go_server/internal/model/dto"
	"github.com/kvadrat/estate_go_server/internal/pkg/response"
	"github.com/kvadrat/estate_go_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Webhook receives gateway outcome callbacks. Delivery is at-least-once, so a
// duplicate is answered exactly like the first delivery.
// POST /api/v1/payments/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var wh dto.PaymentWebhook
	if err := c.ShouldBindJSON(&wh); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	payment, err := h.paymentService.HandleOutcome(c.Request.Context(), &wh)
	if err != nil {
		var stErr *model.InvalidSubscriptionTransitionError
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrUnknownPaymentOutcome):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrDuplicateActiveSubscription):
			response.DuplicateError(c, err.Error())
		case errors.As(err, &stErr):
			response.TransitionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, gin.H{
		"payment_id": payment.ID,
		"status":     payment.Status,
	})
}

// InitiateAdUnlock opens a one-off payment for unlocking an ad.
// POST /api/v1/payments/ad-unlock
func (h *PaymentHandler) InitiateAdUnlock(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.InitiateAdUnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	payment, err := h.paymentService.InitiateAdUnlock(agencyID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, payment)
}

// Get returns one owned payment.
// GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid payment id")
		return
	}

	payment, err := h.paymentService.GetByID(agencyID, paymentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrNotOwner):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, payment)
}

// List returns the agency's payment history.
// GET /api/v1/payments
func (h *PaymentHandler) List(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	payments, err := h.paymentService.ListByAgency(agencyID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, payments)
}
