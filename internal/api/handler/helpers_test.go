package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kvadrat/estate_go_server/internal/api/middleware"
	"github.com/kvadrat/estate_go_server/internal/pkg/response"
	"github.com/kvadrat/estate_go_server/internal/repository"
	"github.com/kvadrat/estate_go_server/internal/service"
	"github.com/kvadrat/estate_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockAuth injects an authenticated agency without going through JWT.
func mockAuth(agencyID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AgencyIDKey, agencyID)
		c.Next()
	}
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, int64) error { return nil }

type handlerEnv struct {
	db       *gorm.DB
	ads      *service.AdService
	subs     *service.SubscriptionService
	payments *service.PaymentService
	plans    *service.PlanService
}

func setupHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	adRepo := repository.NewAdRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	boost := service.NewBoostService(subRepo, planRepo)
	subs := service.NewSubscriptionService(db, subRepo, planRepo, nil, "EUR")

	return &handlerEnv{
		db:       db,
		ads:      service.NewAdService(db, adRepo, boost, nil, nil),
		subs:     subs,
		payments: service.NewPaymentService(db, paymentRepo, subs, noopInvalidator{}, nil, "EUR"),
		plans:    service.NewPlanService(planRepo),
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}
