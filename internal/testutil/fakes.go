// Package testutil provides in-memory fakes for the repository interfaces so
// service and handler tests run without a database.
package testutil

import (
	"sync"
	"time"

	"secret-santa-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FakeRegistrantRepo is an in-memory RegistrantRepository.
type FakeRegistrantRepo struct {
	mu     sync.Mutex
	byMail map[string]models.RegistrantEmail
}

func NewFakeRegistrantRepo() *FakeRegistrantRepo {
	return &FakeRegistrantRepo{byMail: make(map[string]models.RegistrantEmail)}
}

func (f *FakeRegistrantRepo) CreateRegistrant(r *models.RegistrantEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if _, exists := f.byMail[r.Email]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.byMail[r.Email] = *r
	return nil
}

func (f *FakeRegistrantRepo) GetRegistrantByEmail(email string) (*models.RegistrantEmail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byMail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (f *FakeRegistrantRepo) ListRegistrants() ([]models.RegistrantEmail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.RegistrantEmail, 0, len(f.byMail))
	for _, r := range f.byMail {
		out = append(out, r)
	}
	return out, nil
}

func (f *FakeRegistrantRepo) CountRegistrants() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byMail)), nil
}

func (f *FakeRegistrantRepo) DeleteAllRegistrants() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byMail = make(map[string]models.RegistrantEmail)
	return nil
}

// FakeSantaRepo is an in-memory SantaRepository. ClaimSanta holds the same
// only-if-unassigned contract as the conditional update it stands in for.
type FakeSantaRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.SantaIdentity
}

func NewFakeSantaRepo() *FakeSantaRepo {
	return &FakeSantaRepo{byID: make(map[uuid.UUID]*models.SantaIdentity)}
}

func (f *FakeSantaRepo) CreateSanta(s *models.SantaIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	for _, existing := range f.byID {
		if existing.Name == s.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *FakeSantaRepo) GetSantaByName(name string) (*models.SantaIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byID {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *FakeSantaRepo) ListSantas() ([]models.SantaIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.SantaIdentity, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (f *FakeSantaRepo) ListUnassignedSantas() ([]models.SantaIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.SantaIdentity, 0, len(f.byID))
	for _, s := range f.byID {
		if !s.Assigned {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *FakeSantaRepo) CountSantas() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

func (f *FakeSantaRepo) ClaimSanta(id uuid.UUID, assignedTo string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok || s.Assigned {
		return false, nil
	}
	s.Assigned = true
	s.AssignedTo = assignedTo
	assignedAt := at
	s.AssignedAt = &assignedAt
	return true, nil
}

func (f *FakeSantaRepo) ReleaseSanta(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byID[id]; ok {
		s.Assigned = false
		s.AssignedTo = ""
		s.AssignedAt = nil
	}
	return nil
}

func (f *FakeSantaRepo) ResetAssignments() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byID {
		s.Assigned = false
		s.AssignedTo = ""
		s.AssignedAt = nil
	}
	return nil
}

func (f *FakeSantaRepo) DeleteAllSantas() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID = make(map[uuid.UUID]*models.SantaIdentity)
	return nil
}

// FakeMatchRepo is an in-memory MatchRepository. CreateMatch enforces the
// unique-registrant index the real table carries.
type FakeMatchRepo struct {
	mu      sync.Mutex
	byEmail map[string]models.MatchRecord
	order   []string
}

func NewFakeMatchRepo() *FakeMatchRepo {
	return &FakeMatchRepo{byEmail: make(map[string]models.MatchRecord)}
}

func (f *FakeMatchRepo) CreateMatch(m *models.MatchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if _, exists := f.byEmail[m.RegistrantEmail]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.byEmail[m.RegistrantEmail] = *m
	f.order = append(f.order, m.RegistrantEmail)
	return nil
}

func (f *FakeMatchRepo) GetMatchByEmail(email string) (*models.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (f *FakeMatchRepo) ListMatches() ([]models.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.MatchRecord, 0, len(f.order))
	for _, email := range f.order {
		if m, ok := f.byEmail[email]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *FakeMatchRepo) CountMatches() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byEmail)), nil
}

func (f *FakeMatchRepo) DeleteAllMatches() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byEmail = make(map[string]models.MatchRecord)
	f.order = nil
	return nil
}

// FakeQRTokenRepo is an in-memory QRTokenRepository.
type FakeQRTokenRepo struct {
	mu     sync.Mutex
	byCode map[string]*models.QRToken
}

func NewFakeQRTokenRepo() *FakeQRTokenRepo {
	return &FakeQRTokenRepo{byCode: make(map[string]*models.QRToken)}
}

func (f *FakeQRTokenRepo) CreateToken(t *models.QRToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if _, exists := f.byCode[t.Code]; exists {
		return gorm.ErrDuplicatedKey
	}
	cp := *t
	f.byCode[t.Code] = &cp
	return nil
}

func (f *FakeQRTokenRepo) GetTokenByCode(code string) (*models.QRToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byCode[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *FakeQRTokenRepo) ListTokens() ([]models.QRToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.QRToken, 0, len(f.byCode))
	for _, t := range f.byCode {
		out = append(out, *t)
	}
	return out, nil
}

func (f *FakeQRTokenRepo) ConsumeToken(code, usedBy string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byCode[code]
	if !ok || t.UsedAt != nil {
		return false, nil
	}
	t.UsedBy = usedBy
	usedAt := at
	t.UsedAt = &usedAt
	return true, nil
}

func (f *FakeQRTokenRepo) ResetTokenUsage() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.byCode {
		t.UsedBy = ""
		t.UsedAt = nil
	}
	return nil
}

func (f *FakeQRTokenRepo) DeleteAllTokens() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byCode = make(map[string]*models.QRToken)
	return nil
}
