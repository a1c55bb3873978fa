package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kvadrat/estate_go_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) GetByTransactionRef(ref string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("transaction_ref = ?", ref).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByTransactionRefForUpdate locks the payment row so a redelivered webhook
// serializes behind the first delivery instead of racing it.
func (r *PaymentRepository) GetByTransactionRefForUpdate(ref string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("transaction_ref = ?", ref).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) Update(payment *model.Payment) error {
	return r.db.Save(payment).Error
}

func (r *PaymentRepository) ListByAgency(agencyID int64) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Where("agency_id = ?", agencyID).
		Order("created_at DESC").Find(&payments).Error
	return payments, err
}
