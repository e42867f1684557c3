package service

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/cache"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store/drivers/sqlite"
	"github.com/aussiebroadwan/stepglobe/pkg/cryptox"
	"github.com/aussiebroadwan/stepglobe/pkg/jwtx"
	"github.com/aussiebroadwan/stepglobe/pkg/tgauth"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:TEST-bot-token"

var testHashParams = cryptox.Params{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16}

type testEnv struct {
	now      time.Time
	store    *sqlite.Store
	keys     *jwtx.KeyManager
	verifier *tgauth.Verifier
	roster   *memRoster
	blobs    *memBlobs
	vision   *stubVision
	notifier *recordingNotifier

	tokens   *TokenService
	accounts *AccountService
	identity *IdentityService
	admin    *AdminService
	intake   *IntakeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: "https://steps.test", Audience: []string{"stepglobe"}})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	v, err := tgauth.NewVerifier(testBotToken, tgauth.KeySHA256)
	require.NoError(t, err)
	v.Now = func() time.Time { return now }

	e := &testEnv{
		now:      now,
		store:    st,
		keys:     km,
		verifier: v,
		roster:   &memRoster{},
		blobs:    &memBlobs{objects: map[string][]byte{}},
		vision:   &stubVision{},
		notifier: &recordingNotifier{},
	}
	clock := func() time.Time { return e.now }

	e.tokens = &TokenService{
		KeyManager: km,
		Store:      st,
		Issuer:     "https://steps.test",
		Audience:   []string{"stepglobe"},
		Now:        clock,
	}
	e.accounts = &AccountService{Store: st, Cache: e.roster}
	e.identity = &IdentityService{
		Store:    st,
		Verifier: v,
		Hasher:   cryptox.NewHasher([]byte("pepper-one"), testHashParams),
		Tokens:   e.tokens,
		Accounts: e.accounts,
		Notifier: e.notifier,
	}
	e.admin = &AdminService{Store: st, Accounts: e.accounts, Blobs: e.blobs, Notifier: e.notifier}
	e.intake = &IntakeService{Accounts: e.accounts, Blobs: e.blobs, Vision: e.vision, Now: clock}
	return e
}

// widgetPayload returns a signed login-widget body for telegram id tgID.
func (e *testEnv) widgetPayload(t *testing.T, tgID int64, authDate time.Time) []byte {
	t.Helper()
	fields := map[string]string{
		"id":         strconv.FormatInt(tgID, 10),
		"first_name": "Ada",
		"last_name":  "Walker",
		"username":   "ada",
		"photo_url":  "https://t.me/i/userpic/320/ada.jpg",
		"auth_date":  strconv.FormatInt(authDate.Unix(), 10),
	}
	hash := e.verifier.Sign(fields)

	body := map[string]any{
		"id":         json.Number(fields["id"]),
		"first_name": fields["first_name"],
		"last_name":  fields["last_name"],
		"username":   fields["username"],
		"photo_url":  fields["photo_url"],
		"auth_date":  json.Number(fields["auth_date"]),
		"hash":       hash,
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return raw
}

// signIn creates (or resolves) the account for tgID.
func (e *testEnv) signIn(t *testing.T, tgID int64) SignInResult {
	t.Helper()
	res, err := e.identity.SignInWithWidget(context.Background(), e.widgetPayload(t, tgID, e.now.Add(-time.Minute)))
	require.NoError(t, err)
	return res
}

func (e *testEnv) approve(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.store.Accounts().SetApproved(context.Background(), id, true))
}

type memRoster struct {
	mu          sync.Mutex
	profiles    []domain.Profile
	ok          bool
	gen         int64
	hits        int
	invalidated int

	// beforeSet runs between the database read and the refill.
	beforeSet func()
}

func (m *memRoster) Get(context.Context) ([]domain.Profile, int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ok {
		m.hits++
	}
	return m.profiles, m.gen, m.ok, nil
}

func (m *memRoster) Set(_ context.Context, p []domain.Profile, gen int64) error {
	if m.beforeSet != nil {
		m.beforeSet()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return cache.ErrStale
	}
	m.profiles, m.ok = p, true
	return nil
}

func (m *memRoster) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles, m.ok = nil, false
	m.gen++
	m.invalidated++
	return nil
}

func (m *memRoster) cached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ok
}

type memBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memBlobs) Put(_ context.Context, key, _ string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memBlobs) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type stubVision struct {
	steps int64
	err   error
	calls int
}

func (s *stubVision) ExtractSteps(context.Context, string, []byte) (int64, error) {
	s.calls++
	return s.steps, s.err
}

type recordingNotifier struct {
	mu       sync.Mutex
	pending  []string
	approved []string
}

func (n *recordingNotifier) AccountPending(_ context.Context, a domain.Account) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, a.ID)
	return nil
}

func (n *recordingNotifier) AccountApproved(_ context.Context, a domain.Account) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approved = append(n.approved, a.ID)
	return nil
}
