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

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
	paymentService      *service.PaymentService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService, paymentService *service.PaymentService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		paymentService:      paymentService,
	}
}

// Create opens a pending subscription plus the payment the gateway should
// settle, and returns checkout details.
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, plan, err := h.subscriptionService.Create(agencyID, &req)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	payment, err := h.paymentService.InitiateSubscription(agencyID, sub, plan)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, dto.CheckoutInfo{
		SubscriptionID: sub.ID,
		PaymentID:      payment.ID,
		TransactionRef: payment.TransactionRef,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
	})
}

// Current returns the subscription covering now, if any.
// GET /api/v1/subscriptions/current
func (h *SubscriptionHandler) Current(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	sub, err := h.subscriptionService.Current(agencyID)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			response.Success(c, nil) // no subscription is a normal state
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, sub)
}

// List returns the agency's subscription history.
// GET /api/v1/subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	subs, err := h.subscriptionService.ListByAgency(agencyID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, subs)
}

// Cancel stops renewal; access stays open until the window closes unless
// immediate termination is requested.
// POST /api/v1/subscriptions/:id/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid subscription id")
		return
	}

	var req dto.CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sub, err := h.subscriptionService.Cancel(agencyID, subID, req.Reason, req.Immediate)
	if err != nil {
		var stErr *model.InvalidSubscriptionTransitionError
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrNotOwner):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrCancelReasonRequired):
			response.ParamError(c, err.Error())
		case errors.As(err, &stErr):
			response.TransitionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, sub)
}
