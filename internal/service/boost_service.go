package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kvadrat/estate_go_server/internal/model"
	"github.com/kvadrat/estate_go_server/internal/repository"
)

// BoostService decides whether an ad qualifies for automatic promotion under
// the owning agency's current subscription.
type BoostService struct {
	subRepo  *repository.SubscriptionRepository
	planRepo *repository.PlanRepository
}

func NewBoostService(subRepo *repository.SubscriptionRepository, planRepo *repository.PlanRepository) *BoostService {
	return &BoostService{
		subRepo:  subRepo,
		planRepo: planRepo,
	}
}

// CurrentPlan resolves the plan backing the agency's current subscription.
// No current subscription is not an error; it returns (nil, nil).
func (s *BoostService) CurrentPlan(agencyID int64, now time.Time) (*model.Plan, error) {
	sub, err := s.subRepo.Current(agencyID, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	plan, err := s.planRepo.GetByID(sub.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return plan, nil
}

// Eligible reports whether new ads of the agency are auto-boosted right now.
func (s *BoostService) Eligible(agencyID int64, now time.Time) (bool, error) {
	plan, err := s.CurrentPlan(agencyID, now)
	if err != nil {
		return false, err
	}
	return plan != nil && plan.AutoBoost, nil
}

// Apply evaluates eligibility and marks the ad accordingly. Idempotent:
// re-evaluating an already-boosted ad under the same eligibility changes
// nothing.
func (s *BoostService) Apply(ad *model.Ad, now time.Time) error {
	eligible, err := s.Eligible(ad.AgencyID, now)
	if err != nil {
		return err
	}
	ad.Boosted = eligible
	return nil
}
