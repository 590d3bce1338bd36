package handler_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/campus-market/internal/handler"
	"github.com/msomdec/campus-market/internal/repository/sqlite"
	"github.com/msomdec/campus-market/internal/service"
	"github.com/msomdec/campus-market/internal/store"
)

const testJWTSecret = "test-secret-for-handler-tests-32bytes!"

type testServer struct {
	*httptest.Server
	services handler.Services
	clock    *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestServices(t *testing.T) (handler.Services, *fakeClock) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	kv := db.KV()
	limiter := service.NewTokenBucket(0.5, 5)
	t.Cleanup(limiter.Stop)

	return handler.Services{
		Accounts:    service.NewAccountService(store.NewAccounts(kv), store.NewSessions(kv), service.BcryptHasher{Cost: 4}, ""),
		Catalog:     service.NewCatalogService(store.NewListings(kv), service.WithClock(clock.Now)),
		Images:      service.NewImageService(db.FileStore()),
		Tokens:      service.NewProfileTokens(testJWTSecret),
		AuthLimiter: limiter,
	}, clock
}

// newTestServer serves the routes over fresh services. opts may swap a
// service before the routes are registered.
func newTestServer(t *testing.T, opts ...func(*handler.Services)) *testServer {
	t.Helper()
	services, clock := newTestServices(t)
	for _, opt := range opts {
		opt(&services)
	}
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, services)
	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, services: services, clock: clock}
}

// newClient returns a client with its own cookie jar, standing in for one
// browser profile.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}
