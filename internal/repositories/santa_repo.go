package repositories

import (
	"time"

	"secret-santa-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type santaRepo struct {
	db *gorm.DB
}

func NewSantaRepository(db *gorm.DB) SantaRepository {
	return &santaRepo{db: db}
}

func (r *santaRepo) CreateSanta(santa *models.SantaIdentity) error {
	return r.db.Create(santa).Error
}

func (r *santaRepo) GetSantaByName(name string) (*models.SantaIdentity, error) {
	var santa models.SantaIdentity
	if err := r.db.Where("name = ?", name).First(&santa).Error; err != nil {
		return nil, err
	}
	return &santa, nil
}

func (r *santaRepo) ListSantas() ([]models.SantaIdentity, error) {
	var santas []models.SantaIdentity
	if err := r.db.Order("created_at ASC").Find(&santas).Error; err != nil {
		return nil, err
	}
	return santas, nil
}

func (r *santaRepo) ListUnassignedSantas() ([]models.SantaIdentity, error) {
	var santas []models.SantaIdentity
	if err := r.db.Where("assigned = ?", false).Find(&santas).Error; err != nil {
		return nil, err
	}
	return santas, nil
}

func (r *santaRepo) CountSantas() (int64, error) {
	var count int64
	if err := r.db.Model(&models.SantaIdentity{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ClaimSanta is the single conditional update the matching engine relies on:
// the WHERE clause excludes already-assigned rows, so two concurrent claims
// on the same santa cannot both succeed.
func (r *santaRepo) ClaimSanta(id uuid.UUID, assignedTo string, at time.Time) (bool, error) {
	result := r.db.Model(&models.SantaIdentity{}).
		Where("id = ? AND assigned = ?", id, false).
		Updates(map[string]interface{}{
			"assigned":    true,
			"assigned_to": assignedTo,
			"assigned_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *santaRepo) ReleaseSanta(id uuid.UUID) error {
	return r.db.Model(&models.SantaIdentity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned":    false,
			"assigned_to": "",
			"assigned_at": nil,
		}).Error
}

func (r *santaRepo) ResetAssignments() error {
	return r.db.Model(&models.SantaIdentity{}).
		Where("assigned = ?", true).
		Updates(map[string]interface{}{
			"assigned":    false,
			"assigned_to": "",
			"assigned_at": nil,
		}).Error
}

func (r *santaRepo) DeleteAllSantas() error {
	return r.db.Where("1 = 1").Delete(&models.SantaIdentity{}).Error
}
