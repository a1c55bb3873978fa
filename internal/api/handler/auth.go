package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kvadrat/estate_go_server/internal/api/middleware"
	"github.com/kvadrat/estate_go_server/internal/model/dto"
	"github.com/kvadrat/estate_go_server/internal/pkg/response"
	"github.com/kvadrat/estate_go_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an agency or landlord account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	agency, token, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, dto.AuthResponse{Token: token, Agency: agency})
}

// Login authenticates by email and password.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	agency, token, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, dto.AuthResponse{Token: token, Agency: agency})
}

// Profile returns the authenticated account.
// GET /api/v1/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	agency, err := h.authService.GetAgency(agencyID)
	if err != nil {
		if errors.Is(err, service.ErrAgencyNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, agency)
}
