package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"schoolfit/internal/gamification"
	"schoolfit/internal/metrics"
	"schoolfit/internal/models"
	"schoolfit/internal/repository"
	"schoolfit/internal/security"
)

var testNow = time.Date(2024, 1, 10, 18, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type testEnv struct {
	store   *repository.JSONFileStore
	users   *repository.UserRepository
	ledger  *gamification.Ledger
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewJSONFileStore(filepath.Join(t.TempDir(), "users.json"))
	users := repository.NewUserRepository(store)
	require.NoError(t, users.Load(context.Background()))
	return &testEnv{
		store:   store,
		users:   users,
		ledger:  gamification.NewLedger(),
		metrics: metrics.New(),
	}
}

// addUser stores a student with the given house directly in the repository
func (e *testEnv) addUser(t *testing.T, username string, role models.Role, house models.House) *models.UserRecord {
	t.Helper()
	hash, err := security.HashPassword("secret1")
	require.NoError(t, err)

	record := models.NewUserRecord(username+"@school.edu", hash, "User "+username, role, testNow)
	record.Age = 14
	record.Gender = models.GenderMale
	record.Class = "2A"
	if house != "" {
		h := house
		record.House = &h
	}
	require.NoError(t, e.users.Put(username, record))
	require.NoError(t, e.users.Save(context.Background()))
	return record
}

func (e *testEnv) get(t *testing.T, username string) *models.UserRecord {
	t.Helper()
	record, err := e.users.Get(username)
	require.NoError(t, err)
	return record
}

// reload reads the document back from disk into a fresh repository
func (e *testEnv) reload(t *testing.T) *repository.UserRepository {
	t.Helper()
	users := repository.NewUserRepository(e.store)
	require.NoError(t, users.Load(context.Background()))
	return users
}

func (e *testEnv) authService() *AuthService {
	sessions := security.NewSessionManager("test-secret", time.Hour, nil)
	s := NewAuthService(e.users, sessions, e.ledger, nil, e.metrics)
	s.now = fixedClock
	return s
}

func (e *testEnv) activityService() *ActivityService {
	s := NewActivityService(e.users, e.ledger, e.metrics)
	s.now = fixedClock
	return s
}

func (e *testEnv) socialService() *SocialService {
	s := NewSocialService(e.users, e.ledger, e.metrics)
	s.now = fixedClock
	return s
}

func (e *testEnv) napfaService() *NapfaService {
	s := NewNapfaService(e.users, e.ledger, e.metrics)
	s.now = fixedClock
	return s
}

// perfectScores grades 5 on every station for a 14 year old boy
var perfectScores = models.NapfaScores{
	SitUps:     60,
	BroadJump:  260,
	SitReach:   50,
	PullUps:    20,
	ShuttleRun: 9.0,
	Run:        9.0,
}
