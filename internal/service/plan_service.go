package service

import (
	"github.com/kvadrat/estate_go_server/config"
	"github.com/kvadrat/estate_go_server/internal/model"
	"github.com/kvadrat/estate_go_server/internal/repository"
)

type PlanService struct {
	planRepo *repository.PlanRepository
}

func NewPlanService(planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

func (s *PlanService) List() ([]model.Plan, error) {
	return s.planRepo.List()
}

// Seed upserts the config-defined plan catalog at startup. Existing rows keep
// their ids so subscriptions stay attached across price or capability edits.
func (s *PlanService) Seed(plans []config.PlanConfig) error {
	for _, p := range plans {
		period := p.BillingPeriod
		if period != model.PeriodYearly {
			period = model.PeriodMonthly
		}
		maxAds := p.MaxActiveAds
		if maxAds <= 0 {
			maxAds = defaultMaxActiveAds
		}

		plan := &model.Plan{
			Code:          p.Code,
			Name:          p.Name,
			Price:         p.Price,
			BillingPeriod: period,
			AutoBoost:     p.AutoBoost,
			MaxActiveAds:  maxAds,
		}
		if err := s.planRepo.Upsert(plan); err != nil {
			return err
		}
	}
	return nil
}
