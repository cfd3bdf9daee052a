package services

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"secret-santa-backend/internal/config"
	"secret-santa-backend/internal/models"
	"secret-santa-backend/internal/repositories"
	"secret-santa-backend/internal/utils"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// AdminService gates write access to the registrant and santa pools and
// issues the organizer's session tokens and printable QR codes.
type AdminService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewAdminService(repo *repositories.Repository, cfg *config.Config) *AdminService {
	return &AdminService{repo: repo, cfg: cfg}
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrDuplicateEntry  = errors.New("already exists")
	ErrInvalidScope    = errors.New("invalid clear scope")
)

// Login verifies the organizer's password and returns a signed session token
// with a fixed lifetime. A bcrypt hash is preferred when configured; the
// plain-secret fallback is compared in constant time.
func (s *AdminService) Login(password string) (*AdminLoginResponse, error) {
	if password == "" {
		return nil, ErrInvalidPassword
	}

	if s.cfg.AdminPasswordHash != "" {
		if err := utils.CheckPassword(password, s.cfg.AdminPasswordHash); err != nil {
			return nil, ErrInvalidPassword
		}
	} else if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) != 1 {
		return nil, ErrInvalidPassword
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &AdminLoginResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *AdminService) AddRegistrant(email string) (*models.RegistrantEmail, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	if existing, _ := s.repo.RegistrantRepo.GetRegistrantByEmail(email); existing != nil {
		return nil, ErrDuplicateEntry
	}

	registrant := &models.RegistrantEmail{Email: email}
	if err := s.repo.RegistrantRepo.CreateRegistrant(registrant); err != nil {
		return nil, err
	}
	return registrant, nil
}

func (s *AdminService) ListRegistrants() ([]models.RegistrantEmail, error) {
	return s.repo.RegistrantRepo.ListRegistrants()
}

func (s *AdminService) AddSanta(name, contactEmail string) (*models.SantaIdentity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	contactEmail = strings.TrimSpace(strings.ToLower(contactEmail))

	if existing, _ := s.repo.SantaRepo.GetSantaByName(name); existing != nil {
		return nil, ErrDuplicateEntry
	}

	santa := &models.SantaIdentity{
		Name:         name,
		ContactEmail: contactEmail,
	}
	if err := s.repo.SantaRepo.CreateSanta(santa); err != nil {
		return nil, err
	}
	return santa, nil
}

func (s *AdminService) ListSantas() ([]models.SantaIdentity, error) {
	return s.repo.SantaRepo.ListSantas()
}

// IssueQRToken mints a one-time redemption token, renders its scan URL as a
// PNG in the configured QR directory, and persists the token row.
func (s *AdminService) IssueQRToken() (*models.QRToken, error) {
	token := &models.QRToken{Code: utils.NewTokenCode()}

	scanURL, err := utils.BuildScanURL(s.cfg.PublicBaseURL, token.Code, time.Now())
	if err != nil {
		return nil, err
	}

	filename, err := utils.GenerateQRCodeImage(scanURL, s.cfg.QRDir)
	if err != nil {
		return nil, err
	}
	token.ImagePath = "/qrcodes/" + filename

	if err := s.repo.QRTokenRepo.CreateToken(token); err != nil {
		return nil, err
	}

	logrus.WithField("code", token.Code).Info("QR token issued")
	return token, nil
}

func (s *AdminService) ListQRTokens() ([]models.QRToken, error) {
	return s.repo.QRTokenRepo.ListTokens()
}

// Clear bulk-deletes by scope. The matches scope keeps both identity pools
// but returns every santa to the unassigned state and frees redeemed QR
// tokens, so the round can be run again. Clears are best-effort and not
// transactional across collections.
func (s *AdminService) Clear(scope string) error {
	logrus.WithField("scope", scope).Info("admin clear requested")

	switch scope {
	case "emails":
		return s.repo.RegistrantRepo.DeleteAllRegistrants()
	case "santas":
		return s.repo.SantaRepo.DeleteAllSantas()
	case "matches":
		if err := s.repo.MatchRepo.DeleteAllMatches(); err != nil {
			return err
		}
		if err := s.repo.SantaRepo.ResetAssignments(); err != nil {
			return err
		}
		return s.repo.QRTokenRepo.ResetTokenUsage()
	case "all":
		if err := s.repo.MatchRepo.DeleteAllMatches(); err != nil {
			return err
		}
		if err := s.repo.RegistrantRepo.DeleteAllRegistrants(); err != nil {
			return err
		}
		if err := s.repo.SantaRepo.DeleteAllSantas(); err != nil {
			return err
		}
		return s.repo.QRTokenRepo.DeleteAllTokens()
	default:
		return ErrInvalidScope
	}
}
