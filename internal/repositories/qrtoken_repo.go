package repositories

import (
	"time"

	"secret-santa-backend/internal/models"

	"gorm.io/gorm"
)

type qrTokenRepo struct {
	db *gorm.DB
}

func NewQRTokenRepository(db *gorm.DB) QRTokenRepository {
	return &qrTokenRepo{db: db}
}

func (r *qrTokenRepo) CreateToken(token *models.QRToken) error {
	return r.db.Create(token).Error
}

func (r *qrTokenRepo) GetTokenByCode(code string) (*models.QRToken, error) {
	var token models.QRToken
	if err := r.db.Where("code = ?", code).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *qrTokenRepo) ListTokens() ([]models.QRToken, error) {
	var tokens []models.QRToken
	if err := r.db.Order("created_at DESC").Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// ConsumeToken mirrors ClaimSanta: the used_at IS NULL filter makes one-time
// redemption hold under concurrent requests.
func (r *qrTokenRepo) ConsumeToken(code, usedBy string, at time.Time) (bool, error) {
	result := r.db.Model(&models.QRToken{}).
		Where("code = ? AND used_at IS NULL", code).
		Updates(map[string]interface{}{
			"used_by": usedBy,
			"used_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *qrTokenRepo) ResetTokenUsage() error {
	return r.db.Model(&models.QRToken{}).
		Where("used_at IS NOT NULL").
		Updates(map[string]interface{}{
			"used_by": "",
			"used_at": nil,
		}).Error
}

func (r *qrTokenRepo) DeleteAllTokens() error {
	return r.db.Where("1 = 1").Delete(&models.QRToken{}).Error
}
