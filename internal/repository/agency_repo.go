package repository

import (
	"gorm.io/gorm"

	"github.com/kvadrat/estate_go_server/internal/model"
)

type AgencyRepository struct {
	db *gorm.DB
}

func NewAgencyRepository(db *gorm.DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

func (r *AgencyRepository) Create(agency *model.Agency) error {
	return r.db.Create(agency).Error
}

func (r *AgencyRepository) GetByID(id int64) (*model.Agency, error) {
	var agency model.Agency
	err := r.db.Where("id = ?", id).First(&agency).Error
	if err != nil {
		return nil, err
	}
	return &agency, nil
}

func (r *AgencyRepository) GetByEmail(email string) (*model.Agency, error) {
	var agency model.Agency
	err := r.db.Where("email = ?", email).First(&agency).Error
	if err != nil {
		return nil, err
	}
	return &agency, nil
}

func (r *AgencyRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Agency{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *AgencyRepository) Update(agency *model.Agency) error {
	return r.db.Save(agency).Error
}
