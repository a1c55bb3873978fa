package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kvadrat/estate_go_server/internal/pkg/response"
	"github.com/kvadrat/estate_go_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// List returns the plan catalog, cheapest first.
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.planService.List()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, plans)
}
