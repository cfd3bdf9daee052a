package repositories

import (
	"secret-santa-backend/internal/models"

	"gorm.io/gorm"
)

type registrantRepo struct {
	db *gorm.DB
}

func NewRegistrantRepository(db *gorm.DB) RegistrantRepository {
	return &registrantRepo{db: db}
}

func (r *registrantRepo) CreateRegistrant(registrant *models.RegistrantEmail) error {
	return r.db.Create(registrant).Error
}

func (r *registrantRepo) GetRegistrantByEmail(email string) (*models.RegistrantEmail, error) {
	var registrant models.RegistrantEmail
	if err := r.db.Where("email = ?", email).First(&registrant).Error; err != nil {
		return nil, err
	}
	return &registrant, nil
}

func (r *registrantRepo) ListRegistrants() ([]models.RegistrantEmail, error) {
	var registrants []models.RegistrantEmail
	if err := r.db.Order("created_at ASC").Find(&registrants).Error; err != nil {
		return nil, err
	}
	return registrants, nil
}

func (r *registrantRepo) CountRegistrants() (int64, error) {
	var count int64
	if err := r.db.Model(&models.RegistrantEmail{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *registrantRepo) DeleteAllRegistrants() error {
	return r.db.Where("1 = 1").Delete(&models.RegistrantEmail{}).Error
}
