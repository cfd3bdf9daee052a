package services

import (
	"time"

	"secret-santa-backend/internal/repositories"
)

// ReportService aggregates progress for the admin panel and the public
// landing page. Nothing is cached; every call re-counts.
type ReportService struct {
	repo *repositories.Repository
}

func NewReportService(repo *repositories.Repository) *ReportService {
	return &ReportService{repo: repo}
}

type Progress struct {
	TotalEmails    int64          `json:"total_emails"`
	TotalSantas    int64          `json:"total_santas"`
	CompletedScans int64          `json:"completed_scans"`
	Matches        []MatchSummary `json:"matches"`
}

type MatchSummary struct {
	Email     string    `json:"email"`
	SantaName string    `json:"santa_name"`
	MatchedAt time.Time `json:"matched_at"`
}

func (s *ReportService) Progress() (*Progress, error) {
	totalEmails, err := s.repo.RegistrantRepo.CountRegistrants()
	if err != nil {
		return nil, err
	}

	totalSantas, err := s.repo.SantaRepo.CountSantas()
	if err != nil {
		return nil, err
	}

	records, err := s.repo.MatchRepo.ListMatches()
	if err != nil {
		return nil, err
	}

	matches := make([]MatchSummary, 0, len(records))
	for _, r := range records {
		matches = append(matches, MatchSummary{
			Email:     r.RegistrantEmail,
			SantaName: r.SantaName,
			MatchedAt: r.MatchedAt,
		})
	}

	return &Progress{
		TotalEmails:    totalEmails,
		TotalSantas:    totalSantas,
		CompletedScans: int64(len(records)),
		Matches:        matches,
	}, nil
}
