package repositories

import (
	"secret-santa-backend/internal/models"

	"gorm.io/gorm"
)

type matchRepo struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepo{db: db}
}

func (r *matchRepo) CreateMatch(match *models.MatchRecord) error {
	return r.db.Create(match).Error
}

func (r *matchRepo) GetMatchByEmail(email string) (*models.MatchRecord, error) {
	var match models.MatchRecord
	if err := r.db.Where("registrant_email = ?", email).First(&match).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepo) ListMatches() ([]models.MatchRecord, error) {
	var matches []models.MatchRecord
	if err := r.db.Order("matched_at ASC").Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *matchRepo) CountMatches() (int64, error) {
	var count int64
	if err := r.db.Model(&models.MatchRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *matchRepo) DeleteAllMatches() error {
	return r.db.Where("1 = 1").Delete(&models.MatchRecord{}).Error
}
