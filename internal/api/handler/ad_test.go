package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvadrat/estate_go_server/internal/model"
	"github.com/kvadrat/estate_go_server/internal/model/dto"
	"github.com/kvadrat/estate_go_server/internal/pkg/response"
	"github.com/kvadrat/estate_go_server/internal/testutil"
)

func adTestRouter(env *handlerEnv, agencyID int64) *gin.Engine {
	h := NewAdHandler(env.ads)

	router := gin.New()
	authed := router.Group("", mockAuth(agencyID))
	authed.POST("/ads", h.Create)
	authed.GET("/ads", h.List)
	authed.GET("/ads/:id", h.Get)
	authed.PUT("/ads/:id", h.Update)
	authed.DELETE("/ads/:id", h.Delete)
	authed.POST("/ads/:id/transition", h.Transition)
	authed.POST("/ads/:id/restore", h.Restore)
	return router
}

func TestAdHandler_Create(t *testing.T) {
	env := setupHandlerEnv(t)
	agency := testutil.TestAgency(t, env.db)
	router := adTestRouter(env, agency.ID)

	w := performRequest(router, "POST", "/ads", dto.CreateAdRequest{
		Title: "Penthouse with terrace",
		Price: 3200,
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAdHandler_Create_MissingTitle(t *testing.T) {
	env := setupHandlerEnv(t)
	agency := testutil.TestAgency(t, env.db)
	router := adTestRouter(env, agency.ID)

	w := performRequest(router, "POST", "/ads", map[string]interface{}{"price": 100})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAdHandler_Create_IncompleteCoordinates(t *testing.T) {
	env := setupHandlerEnv(t)
	agency := testutil.TestAgency(t, env.db)
	router := adTestRouter(env, agency.ID)

	lat := 48.85
	w := performRequest(router, "POST", "/ads", dto.CreateAdRequest{
		Title:    "Geo broken",
		Price:    100,
		Latitude: &lat,
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAdHandler_Transition_Illegal(t *testing.T) {
	env := setupHandlerEnv(t)
	agency := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, agency.ID) // draft
	router := adTestRouter(env, agency.ID)

	w := performRequest(router, "POST", fmt.Sprintf("/ads/%d/transition", ad.ID),
		dto.TransitionAdRequest{Status: "published"})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeInvalidTransition, resp.Code)
	// The rejection names both statuses for the operator.
	assert.Contains(t, resp.Message, "Draft")
	assert.Contains(t, resp.Message, "Published")
}

func TestAdHandler_Transition_UnknownStatus(t *testing.T) {
	env := setupHandlerEnv(t)
	agency := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, agency.ID)
	router := adTestRouter(env, agency.ID)

	w := performRequest(router, "POST", fmt.Sprintf("/ads/%d/transition", ad.ID),
		dto.TransitionAdRequest{Status: "vanished"})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAdHandler_Transition_Legal(t *testing.T) {
	env := setupHandlerEnv(t)
	agency := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, agency.ID)
	router := adTestRouter(env, agency.ID)

	w := performRequest(router, "POST", fmt.Sprintf("/ads/%d/transition", ad.ID),
		dto.TransitionAdRequest{Status: "pending_review"})
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)

	var got model.Ad
	data, _ := json.Marshal(resp.Data)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, model.AdStatusPendingReview, got.Status)
}

func TestAdHandler_Get_OtherAgencysAd(t *testing.T) {
	env := setupHandlerEnv(t)
	owner := testutil.TestAgency(t, env.db)
	intruder := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, owner.ID)

	router := adTestRouter(env, intruder.ID)

	w := performRequest(router, "GET", fmt.Sprintf("/ads/%d", ad.ID), nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestAdHandler_Get_NotFound(t *testing.T) {
	env := setupHandlerEnv(t)
	agency := testutil.TestAgency(t, env.db)
	router := adTestRouter(env, agency.ID)

	w := performRequest(router, "GET", "/ads/99999", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestAdHandler_List_Paginated(t *testing.T) {
	env := setupHandlerEnv(t)
	agency := testutil.TestAgency(t, env.db)
	for i := 0; i < 3; i++ {
		testutil.TestAd(t, env.db, agency.ID)
	}
	router := adTestRouter(env, agency.ID)

	w := performRequest(router, "GET", "/ads?page=1&page_size=2", nil)
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)

	var page response.PageData
	data, _ := json.Marshal(resp.Data)
	require.NoError(t, json.Unmarshal(data, &page))
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.PageSize)
}

func TestAdHandler_DeleteAndRestore(t *testing.T) {
	env := setupHandlerEnv(t)
	agency := testutil.TestAgency(t, env.db)
	ad := testutil.TestAd(t, env.db, agency.ID)
	router := adTestRouter(env, agency.ID)

	w := performRequest(router, "DELETE", fmt.Sprintf("/ads/%d", ad.ID), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "GET", fmt.Sprintf("/ads/%d", ad.ID), nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)

	w = performRequest(router, "POST", fmt.Sprintf("/ads/%d/restore", ad.ID), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "GET", fmt.Sprintf("/ads/%d", ad.ID), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)
}
