package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kvadrat/estate_go_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *model.Plan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepository) GetByID(id int64) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) GetByCode(code string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.Where("code = ?", code).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) List() ([]model.Plan, error) {
	var plans []model.Plan
	err := r.db.Order("price ASC").Find(&plans).Error
	return plans, err
}

// Upsert creates the plan or updates its mutable attributes by code.
// Used by the config-driven catalog seed at startup.
func (r *PlanRepository) Upsert(plan *model.Plan) error {
	var existing model.Plan
	err := r.db.Where("code = ?", plan.Code).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(plan).Error
	}
	if err != nil {
		return err
	}
	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt
	return r.db.Save(plan).Error
}
