package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"secret-santa-backend/internal/models"
	"secret-santa-backend/internal/repositories"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxClaimAttempts bounds the re-pick loop when a claim loses a race.
const maxClaimAttempts = 5

// MatchService is the matching engine: it validates a registrant's
// eligibility, claims an unassigned santa identity, and records the pairing.
type MatchService interface {
	RequestMatch(req MatchRequest) (*MatchResult, error)
}

type MatchRequest struct {
	Email  string `json:"email"`
	QRCode string `json:"qr_code"`
}

type MatchResult struct {
	SantaMatch string    `json:"santa_match"`
	MatchedAt  time.Time `json:"matched_at"`
}

type matchService struct {
	registrantRepo repositories.RegistrantRepository
	santaRepo      repositories.SantaRepository
	matchRepo      repositories.MatchRepository
	qrTokenRepo    repositories.QRTokenRepository
}

func NewMatchService(
	registrantRepo repositories.RegistrantRepository,
	santaRepo repositories.SantaRepository,
	matchRepo repositories.MatchRepository,
	qrTokenRepo repositories.QRTokenRepository,
) MatchService {
	return &matchService{
		registrantRepo: registrantRepo,
		santaRepo:      santaRepo,
		matchRepo:      matchRepo,
		qrTokenRepo:    qrTokenRepo,
	}
}

// RequestMatch runs the precondition chain in order, each check failing with
// its own stable error code, then claims a santa by conditional update.
func (s *matchService) RequestMatch(req MatchRequest) (*MatchResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return nil, NewMatchError("email is required", ErrMissingFields, nil)
	}

	qrCode := strings.TrimSpace(req.QRCode)
	if qrCode != "" {
		if err := s.checkQRToken(qrCode); err != nil {
			return nil, err
		}
	}

	if _, err := s.registrantRepo.GetRegistrantByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewMatchError("this email is not registered", ErrInvalidEmail, nil)
		}
		return nil, NewMatchError("failed to look up registrant", ErrServerError, err)
	}

	// Existing ledger entry means this registrant already revealed a match.
	// The previous assignment is deliberately not echoed back.
	if _, err := s.matchRepo.GetMatchByEmail(email); err == nil {
		return nil, NewMatchError("you have already received a match", ErrAlreadyScanned, nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewMatchError("failed to check match history", ErrServerError, err)
	}

	now := time.Now()
	santa, err := s.claimRandomSanta(email, now)
	if err != nil {
		return nil, err
	}

	record := &models.MatchRecord{
		RegistrantEmail: email,
		SantaID:         santa.ID,
		SantaName:       santa.Name,
		MatchedAt:       now,
	}
	if err := s.matchRepo.CreateMatch(record); err != nil {
		// The claim already went through, so put the santa back in the
		// pool before reporting failure. Otherwise a failed insert would
		// strand an assigned santa with no ledger entry.
		if relErr := s.santaRepo.ReleaseSanta(santa.ID); relErr != nil {
			logrus.WithError(relErr).WithField("santa", santa.Name).
				Error("failed to release santa after ledger insert failure")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Two requests for the same registrant raced past the
			// ledger pre-check; the unique index let only one through.
			return nil, NewMatchError("you have already received a match", ErrAlreadyScanned, nil)
		}
		return nil, NewMatchError("failed to record match", ErrServerError, err)
	}

	if qrCode != "" {
		consumed, err := s.qrTokenRepo.ConsumeToken(qrCode, email, now)
		if err != nil {
			return nil, NewMatchError("failed to consume QR token", ErrServerError, err)
		}
		if !consumed {
			// Somebody redeemed the same token between the pre-check and
			// here. The match itself stands; the usage record belongs to
			// the winner of that race.
			logrus.WithFields(logrus.Fields{
				"qr_code": qrCode,
				"email":   email,
			}).Warn("QR token redeemed concurrently after match")
		}
	}

	logrus.WithFields(logrus.Fields{
		"email": email,
		"santa": santa.Name,
	}).Info("match recorded")

	return &MatchResult{SantaMatch: santa.Name, MatchedAt: now}, nil
}

func (s *matchService) checkQRToken(qrCode string) error {
	token, err := s.qrTokenRepo.GetTokenByCode(qrCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewMatchError("this QR code is not recognized", ErrInvalidQR, nil)
		}
		return NewMatchError("failed to look up QR token", ErrServerError, err)
	}
	if token.UsedAt != nil {
		return NewMatchError("this QR code has already been used", ErrQRUsed, nil)
	}
	return nil
}

// claimRandomSanta picks uniformly among the unassigned pool and claims the
// pick with a conditional update. Losing the claim means another request got
// there first; re-pick among whatever remains instead of reporting an empty
// pool that isn't.
func (s *matchService) claimRandomSanta(email string, at time.Time) (*models.SantaIdentity, error) {
	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		pool, err := s.santaRepo.ListUnassignedSantas()
		if err != nil {
			return nil, NewMatchError("failed to load santa pool", ErrServerError, err)
		}
		if len(pool) == 0 {
			return nil, NewMatchError("all matches have been assigned", ErrNoSantas, nil)
		}

		// Package-level rand is safe for concurrent use.
		pick := pool[rand.Intn(len(pool))]
		claimed, err := s.santaRepo.ClaimSanta(pick.ID, email, at)
		if err != nil {
			return nil, NewMatchError("failed to claim santa", ErrServerError, err)
		}
		if claimed {
			return &pick, nil
		}

		logrus.WithFields(logrus.Fields{
			"santa":   pick.Name,
			"attempt": attempt + 1,
		}).Info("lost claim race, re-picking")
	}

	return nil, NewMatchError("could not claim a santa, please retry", ErrServerError, nil)
}

// Error handling types and constants. Codes are the stable machine-readable
// kinds exposed on the wire.
type MatchErrorType string

const (
	ErrMissingFields  MatchErrorType = "missing_fields"
	ErrInvalidEmail   MatchErrorType = "invalid_email"
	ErrInvalidQR      MatchErrorType = "invalid_qr"
	ErrQRUsed         MatchErrorType = "qr_used"
	ErrAlreadyScanned MatchErrorType = "already_scanned"
	ErrNoSantas       MatchErrorType = "no_santas"
	ErrServerError    MatchErrorType = "server_error"
)

type MatchError struct {
	Message string         `json:"message"`
	Code    MatchErrorType `json:"code"`
	Details error          `json:"-"`
}

func (e *MatchError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s [%s]: %v", e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("%s [%s]", e.Message, e.Code)
}

func NewMatchError(message string, code MatchErrorType, details error) *MatchError {
	return &MatchError{
		Message: message,
		Code:    code,
		Details: details,
	}
}

func GetMatchErrorCode(err error) MatchErrorType {
	var merr *MatchError
	if errors.As(err, &merr) {
		return merr.Code
	}
	return ""
}
