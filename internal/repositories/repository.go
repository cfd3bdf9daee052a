package repositories

import (
	"time"

	"secret-santa-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	DB             *gorm.DB
	RegistrantRepo RegistrantRepository
	SantaRepo      SantaRepository
	MatchRepo      MatchRepository
	QRTokenRepo    QRTokenRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:             db,
		RegistrantRepo: NewRegistrantRepository(db),
		SantaRepo:      NewSantaRepository(db),
		MatchRepo:      NewMatchRepository(db),
		QRTokenRepo:    NewQRTokenRepository(db),
	}
}

func AutoMigrate(db *gorm.DB) error {
	// Enable UUID extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return err
	}

	// Migrate models
	return db.AutoMigrate(
		&models.RegistrantEmail{},
		&models.SantaIdentity{},
		&models.MatchRecord{},
		&models.QRToken{},
	)
}

// Interface definitions
type RegistrantRepository interface {
	CreateRegistrant(registrant *models.RegistrantEmail) error
	GetRegistrantByEmail(email string) (*models.RegistrantEmail, error)
	ListRegistrants() ([]models.RegistrantEmail, error)
	CountRegistrants() (int64, error)
	DeleteAllRegistrants() error
}

type SantaRepository interface {
	CreateSanta(santa *models.SantaIdentity) error
	GetSantaByName(name string) (*models.SantaIdentity, error)
	ListSantas() ([]models.SantaIdentity, error)
	ListUnassignedSantas() ([]models.SantaIdentity, error)
	CountSantas() (int64, error)
	// ClaimSanta marks the santa assigned iff it is still unassigned.
	// Returns false when another request claimed it first.
	ClaimSanta(id uuid.UUID, assignedTo string, at time.Time) (bool, error)
	// ReleaseSanta reverses a claim whose ledger insert failed, returning
	// the santa to the unassigned pool.
	ReleaseSanta(id uuid.UUID) error
	ResetAssignments() error
	DeleteAllSantas() error
}

type MatchRepository interface {
	CreateMatch(match *models.MatchRecord) error
	GetMatchByEmail(email string) (*models.MatchRecord, error)
	ListMatches() ([]models.MatchRecord, error)
	CountMatches() (int64, error)
	DeleteAllMatches() error
}

type QRTokenRepository interface {
	CreateToken(token *models.QRToken) error
	GetTokenByCode(code string) (*models.QRToken, error)
	ListTokens() ([]models.QRToken, error)
	// ConsumeToken records the redemption iff the token is still unused.
	// Returns false when the token was redeemed concurrently.
	ConsumeToken(code, usedBy string, at time.Time) (bool, error)
	ResetTokenUsage() error
	DeleteAllTokens() error
}
