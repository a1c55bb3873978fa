package service

import (
	"context"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/kvadrat/estate_go_server/internal/repository"
	"github.com/kvadrat/estate_go_server/internal/testutil"
)

// countingInvalidator records every cache invalidation so tests can assert
// exactly-once behavior across webhook redeliveries.
type countingInvalidator struct {
	mu    sync.Mutex
	calls []int64
}

func (c *countingInvalidator) Invalidate(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, userID)
	return nil
}

func (c *countingInvalidator) Calls() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.calls))
	copy(out, c.calls)
	return out
}

type testEnv struct {
	db          *gorm.DB
	ads         *AdService
	subs        *SubscriptionService
	payments    *PaymentService
	boost       *BoostService
	plans       *PlanService
	invalidator *countingInvalidator
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	adRepo := repository.NewAdRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	boost := NewBoostService(subRepo, planRepo)
	subs := NewSubscriptionService(db, subRepo, planRepo, nil, "EUR")
	invalidator := &countingInvalidator{}

	return &testEnv{
		db:          db,
		ads:         NewAdService(db, adRepo, boost, nil, nil),
		subs:        subs,
		payments:    NewPaymentService(db, paymentRepo, subs, invalidator, nil, "EUR"),
		boost:       boost,
		plans:       NewPlanService(planRepo),
		invalidator: invalidator,
	}
}

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }
