package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kvadrat/estate_go_server/internal/model"
)

type AdRepository struct {
	db *gorm.DB
}

func NewAdRepository(db *gorm.DB) *AdRepository {
	return &AdRepository{db: db}
}

func (r *AdRepository) Create(ad *model.Ad) error {
	return r.db.Create(ad).Error
}

func (r *AdRepository) GetByID(id int64) (*model.Ad, error) {
	var ad model.Ad
	err := r.db.Where("id = ?", id).First(&ad).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

// GetByIDForUpdate locks the row for the duration of the surrounding
// transaction. Every status mutation goes through this read so two concurrent
// transitions cannot both succeed from the same stale state.
func (r *AdRepository) GetByIDForUpdate(id int64) (*model.Ad, error) {
	var ad model.Ad
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&ad).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *AdRepository) Update(ad *model.Ad) error {
	return r.db.Save(ad).Error
}

func (r *AdRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Ad{}).Where("id = ?", id).Updates(fields).Error
}

func (r *AdRepository) ListByAgency(agencyID int64, status model.AdStatus, page, pageSize int) ([]model.Ad, int64, error) {
	query := r.db.Model(&model.Ad{}).Where("agency_id = ?", agencyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ads []model.Ad
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&ads).Error
	return ads, total, err
}

func (r *AdRepository) CountActiveByAgency(agencyID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Ad{}).
		Where("agency_id = ? AND status IN ?", agencyID,
			[]model.AdStatus{model.AdStatusPendingReview, model.AdStatusPublished}).
		Count(&count).Error
	return count, err
}

// SoftDelete marks the ad removed; default queries stop seeing it but the row
// stays recoverable via Restore.
func (r *AdRepository) SoftDelete(id int64) error {
	return r.db.Delete(&model.Ad{}, id).Error
}

func (r *AdRepository) GetDeletedByID(id int64) (*model.Ad, error) {
	var ad model.Ad
	err := r.db.Unscoped().Where("id = ? AND deleted_at IS NOT NULL", id).First(&ad).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *AdRepository) Restore(id int64) error {
	return r.db.Unscoped().Model(&model.Ad{}).Where("id = ?", id).
		Update("deleted_at", nil).Error
}
