package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"secret-santa-backend/internal/models"
	"secret-santa-backend/internal/repositories"
	"secret-santa-backend/internal/testutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type matchFixture struct {
	registrants *testutil.FakeRegistrantRepo
	santas      *testutil.FakeSantaRepo
	matches     *testutil.FakeMatchRepo
	tokens      *testutil.FakeQRTokenRepo
	svc         MatchService
}

func newMatchFixture(t *testing.T, emails, santaNames []string) *matchFixture {
	t.Helper()

	f := &matchFixture{
		registrants: testutil.NewFakeRegistrantRepo(),
		santas:      testutil.NewFakeSantaRepo(),
		matches:     testutil.NewFakeMatchRepo(),
		tokens:      testutil.NewFakeQRTokenRepo(),
	}
	f.svc = NewMatchService(f.registrants, f.santas, f.matches, f.tokens)

	for _, email := range emails {
		if err := f.registrants.CreateRegistrant(&models.RegistrantEmail{Email: email}); err != nil {
			t.Fatalf("seed registrant %q: %v", email, err)
		}
	}
	for _, name := range santaNames {
		if err := f.santas.CreateSanta(&models.SantaIdentity{Name: name}); err != nil {
			t.Fatalf("seed santa %q: %v", name, err)
		}
	}
	return f
}

func TestRequestMatch_Scenario(t *testing.T) {
	f := newMatchFixture(t, []string{"a@x.com", "b@x.com"}, []string{"Alice", "Bob"})

	first, err := f.svc.RequestMatch(MatchRequest{Email: "a@x.com"})
	if err != nil {
		t.Fatalf("first match: %v", err)
	}
	if first.SantaMatch != "Alice" && first.SantaMatch != "Bob" {
		t.Fatalf("unexpected santa %q", first.SantaMatch)
	}

	second, err := f.svc.RequestMatch(MatchRequest{Email: "b@x.com"})
	if err != nil {
		t.Fatalf("second match: %v", err)
	}
	if second.SantaMatch == first.SantaMatch {
		t.Fatalf("both registrants received %q", first.SantaMatch)
	}

	_, err = f.svc.RequestMatch(MatchRequest{Email: "a@x.com"})
	if got := GetMatchErrorCode(err); got != ErrAlreadyScanned {
		t.Fatalf("repeat request: want %s, got %s (err=%v)", ErrAlreadyScanned, got, err)
	}

	_, err = f.svc.RequestMatch(MatchRequest{Email: "c@x.com"})
	if got := GetMatchErrorCode(err); got != ErrInvalidEmail {
		t.Fatalf("unregistered request: want %s, got %s (err=%v)", ErrInvalidEmail, got, err)
	}
}

func TestRequestMatch_MissingEmail(t *testing.T) {
	f := newMatchFixture(t, nil, nil)

	for _, email := range []string{"", "   "} {
		_, err := f.svc.RequestMatch(MatchRequest{Email: email})
		if got := GetMatchErrorCode(err); got != ErrMissingFields {
			t.Errorf("email %q: want %s, got %s", email, ErrMissingFields, got)
		}
	}
}

func TestRequestMatch_NormalizesEmail(t *testing.T) {
	f := newMatchFixture(t, []string{"a@x.com"}, []string{"Alice"})

	if _, err := f.svc.RequestMatch(MatchRequest{Email: "  A@X.CoM "}); err != nil {
		t.Fatalf("normalized match: %v", err)
	}

	record, err := f.matches.GetMatchByEmail("a@x.com")
	if err != nil {
		t.Fatalf("ledger entry missing: %v", err)
	}
	if record.SantaName != "Alice" {
		t.Fatalf("want Alice, got %q", record.SantaName)
	}
}

func TestRequestMatch_Idempotence(t *testing.T) {
	f := newMatchFixture(t, []string{"a@x.com"}, []string{"Alice", "Bob"})

	if _, err := f.svc.RequestMatch(MatchRequest{Email: "a@x.com"}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := f.svc.RequestMatch(MatchRequest{Email: "a@x.com"})
	if got := GetMatchErrorCode(err); got != ErrAlreadyScanned {
		t.Fatalf("want %s, got %s", ErrAlreadyScanned, got)
	}

	count, _ := f.matches.CountMatches()
	if count != 1 {
		t.Fatalf("want exactly 1 ledger entry, got %d", count)
	}
}

func TestRequestMatch_Exhaustion(t *testing.T) {
	f := newMatchFixture(t, []string{"a@x.com", "b@x.com"}, []string{"Alice"})

	if _, err := f.svc.RequestMatch(MatchRequest{Email: "a@x.com"}); err != nil {
		t.Fatalf("first request: %v", err)
	}

	_, err := f.svc.RequestMatch(MatchRequest{Email: "b@x.com"})
	if got := GetMatchErrorCode(err); got != ErrNoSantas {
		t.Fatalf("want %s, got %s (err=%v)", ErrNoSantas, got, err)
	}

	// Exhaustion must not mutate state.
	count, _ := f.matches.CountMatches()
	if count != 1 {
		t.Fatalf("ledger grew on exhausted pool: %d entries", count)
	}
	if _, err := f.matches.GetMatchByEmail("b@x.com"); err == nil {
		t.Fatal("unexpected ledger entry for exhausted request")
	}
}

func TestRequestMatch_QRToken(t *testing.T) {
	f := newMatchFixture(t, []string{"a@x.com", "b@x.com"}, []string{"Alice", "Bob"})
	if err := f.tokens.CreateToken(&models.QRToken{Code: "tok-1"}); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	t.Run("unknown code", func(t *testing.T) {
		_, err := f.svc.RequestMatch(MatchRequest{Email: "a@x.com", QRCode: "nope"})
		if got := GetMatchErrorCode(err); got != ErrInvalidQR {
			t.Fatalf("want %s, got %s", ErrInvalidQR, got)
		}
	})

	t.Run("valid code consumed once", func(t *testing.T) {
		if _, err := f.svc.RequestMatch(MatchRequest{Email: "a@x.com", QRCode: "tok-1"}); err != nil {
			t.Fatalf("redeem: %v", err)
		}

		token, err := f.tokens.GetTokenByCode("tok-1")
		if err != nil {
			t.Fatalf("token lookup: %v", err)
		}
		if token.UsedAt == nil || token.UsedBy != "a@x.com" {
			t.Fatalf("token not consumed: %+v", token)
		}
	})

	t.Run("second redemption rejected", func(t *testing.T) {
		_, err := f.svc.RequestMatch(MatchRequest{Email: "b@x.com", QRCode: "tok-1"})
		if got := GetMatchErrorCode(err); got != ErrQRUsed {
			t.Fatalf("want %s, got %s", ErrQRUsed, got)
		}
	})
}

// contentiousSantaRepo fails the first n claims to simulate losing the
// conditional update race.
type contentiousSantaRepo struct {
	repositories.SantaRepository
	failures int32
}

func (r *contentiousSantaRepo) ClaimSanta(id uuid.UUID, assignedTo string, at time.Time) (bool, error) {
	if atomic.AddInt32(&r.failures, -1) >= 0 {
		return false, nil
	}
	return r.SantaRepository.ClaimSanta(id, assignedTo, at)
}

func TestRequestMatch_RetriesLostClaim(t *testing.T) {
	registrants := testutil.NewFakeRegistrantRepo()
	santas := testutil.NewFakeSantaRepo()
	matches := testutil.NewFakeMatchRepo()
	tokens := testutil.NewFakeQRTokenRepo()

	if err := registrants.CreateRegistrant(&models.RegistrantEmail{Email: "a@x.com"}); err != nil {
		t.Fatal(err)
	}
	if err := santas.CreateSanta(&models.SantaIdentity{Name: "Alice"}); err != nil {
		t.Fatal(err)
	}

	contended := &contentiousSantaRepo{SantaRepository: santas, failures: 2}
	svc := NewMatchService(registrants, contended, matches, tokens)

	result, err := svc.RequestMatch(MatchRequest{Email: "a@x.com"})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if result.SantaMatch != "Alice" {
		t.Fatalf("want Alice, got %q", result.SantaMatch)
	}
}

// failingMatchRepo fails CreateMatch with a fixed error while the claim
// itself succeeds, exercising the release path.
type failingMatchRepo struct {
	repositories.MatchRepository
	err error
}

func (r *failingMatchRepo) CreateMatch(m *models.MatchRecord) error {
	if r.err != nil {
		return r.err
	}
	return r.MatchRepository.CreateMatch(m)
}

func TestRequestMatch_ReleasesSantaOnLedgerFailure(t *testing.T) {
	t.Run("duplicate key reports already scanned", func(t *testing.T) {
		f := newMatchFixture(t, []string{"a@x.com"}, []string{"Alice"})
		failing := &failingMatchRepo{MatchRepository: f.matches, err: gorm.ErrDuplicatedKey}
		svc := NewMatchService(f.registrants, f.santas, failing, f.tokens)

		_, err := svc.RequestMatch(MatchRequest{Email: "a@x.com"})
		if got := GetMatchErrorCode(err); got != ErrAlreadyScanned {
			t.Fatalf("want %s, got %s (err=%v)", ErrAlreadyScanned, got, err)
		}

		pool, poolErr := f.santas.ListUnassignedSantas()
		if poolErr != nil {
			t.Fatal(poolErr)
		}
		if len(pool) != 1 {
			t.Fatalf("santa not released: %d unassigned of 1", len(pool))
		}
	})

	t.Run("other failures report server error and retry succeeds", func(t *testing.T) {
		f := newMatchFixture(t, []string{"a@x.com"}, []string{"Alice"})
		failing := &failingMatchRepo{MatchRepository: f.matches, err: errors.New("insert failed")}
		svc := NewMatchService(f.registrants, f.santas, failing, f.tokens)

		_, err := svc.RequestMatch(MatchRequest{Email: "a@x.com"})
		if got := GetMatchErrorCode(err); got != ErrServerError {
			t.Fatalf("want %s, got %s (err=%v)", ErrServerError, got, err)
		}

		failing.err = nil
		result, err := svc.RequestMatch(MatchRequest{Email: "a@x.com"})
		if err != nil {
			t.Fatalf("retry after transient failure: %v", err)
		}
		if result.SantaMatch != "Alice" {
			t.Fatalf("want Alice, got %q", result.SantaMatch)
		}
	})
}

func TestRequestMatch_ConcurrentNoDuplicates(t *testing.T) {
	const n = 10

	emails := make([]string, n)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		emails[i] = string(rune('a'+i)) + "@x.com"
		names[i] = "Santa " + string(rune('A'+i))
	}
	f := newMatchFixture(t, emails, names)

	var wg sync.WaitGroup
	var successCount atomic.Int32
	results := make([]string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			result, err := f.svc.RequestMatch(MatchRequest{Email: emails[idx]})
			if err != nil {
				return
			}
			successCount.Add(1)
			results[idx] = result.SantaMatch
		}(i)
	}
	wg.Wait()

	if got := successCount.Load(); got != n {
		t.Fatalf("want %d successful matches, got %d", n, got)
	}

	seen := make(map[string]int)
	for idx, name := range results {
		if name == "" {
			continue
		}
		if prev, dup := seen[name]; dup {
			t.Fatalf("santa %q assigned to both request %d and %d", name, prev, idx)
		}
		seen[name] = idx
	}

	count, _ := f.matches.CountMatches()
	if count != n {
		t.Fatalf("want %d ledger entries, got %d", n, count)
	}
}
