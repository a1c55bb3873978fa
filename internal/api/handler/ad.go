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

type AdHandler struct {
	adService *service.AdService
}

func NewAdHandler(adService *service.AdService) *AdHandler {
	return &AdHandler{
		adService: adService,
	}
}

// Create opens a new draft ad.
// POST /api/v1/ads
func (h *AdHandler) Create(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	ad, err := h.adService.Create(agencyID, &req)
	if err != nil {
		handleAdError(c, err)
		return
	}

	response.Success(c, ad)
}

// List returns the agency's ads, optionally filtered by status.
// GET /api/v1/ads?page=1&page_size=20&status=published
func (h *AdHandler) List(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ListAdsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	ads, total, err := h.adService.List(agencyID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	response.SuccessPage(c, total, page, pageSize, ads)
}

// Get returns one owned ad.
// GET /api/v1/ads/:id
func (h *AdHandler) Get(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	adID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid ad id")
		return
	}

	ad, err := h.adService.Get(agencyID, adID)
	if err != nil {
		handleAdError(c, err)
		return
	}

	response.Success(c, ad)
}

// Update edits descriptive fields; status is out of reach here.
// PUT /api/v1/ads/:id
func (h *AdHandler) Update(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	adID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid ad id")
		return
	}

	var req dto.UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	ad, err := h.adService.Update(agencyID, adID, &req)
	if err != nil {
		handleAdError(c, err)
		return
	}

	response.Success(c, ad)
}

// Transition moves the ad along the lifecycle.
// POST /api/v1/ads/:id/transition
func (h *AdHandler) Transition(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	adID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid ad id")
		return
	}

	var req dto.TransitionAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	to := model.AdStatus(req.Status)
	if !to.Valid() {
		response.ParamError(c, "unknown status: "+req.Status)
		return
	}

	ad, err := h.adService.TransitionOwned(agencyID, adID, to)
	if err != nil {
		handleAdError(c, err)
		return
	}

	response.Success(c, ad)
}

// Delete soft-deletes an owned ad.
// DELETE /api/v1/ads/:id
func (h *AdHandler) Delete(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	adID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid ad id")
		return
	}

	if err := h.adService.Delete(agencyID, adID); err != nil {
		handleAdError(c, err)
		return
	}

	response.Success(c, nil)
}

// Restore brings back a soft-deleted ad.
// POST /api/v1/ads/:id/restore
func (h *AdHandler) Restore(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	adID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid ad id")
		return
	}

	ad, err := h.adService.Restore(agencyID, adID)
	if err != nil {
		handleAdError(c, err)
		return
	}

	response.Success(c, ad)
}

// UploadPhoto stores a listing photo and returns its URL.
// POST /api/v1/ads/:id/photo
func (h *AdHandler) UploadPhoto(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	adID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid ad id")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		response.ParamError(c, "photo file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer file.Close()

	url, err := h.adService.UploadPhoto(agencyID, adID, file, fileHeader.Filename)
	if err != nil {
		handleAdError(c, err)
		return
	}

	response.Success(c, gin.H{"photo_url": url})
}

func handleAdError(c *gin.Context, err error) {
	var itErr *model.InvalidTransitionError

	switch {
	case errors.Is(err, service.ErrAdNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		response.PermissionError(c, err.Error())
	case errors.Is(err, service.ErrIncompleteCoordinates),
		errors.Is(err, service.ErrCoordinatesOutOfRange),
		errors.Is(err, service.ErrAdLimitReached):
		response.ParamError(c, err.Error())
	case errors.As(err, &itErr):
		response.TransitionError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
