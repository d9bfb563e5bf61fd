package coffeehouse

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coffeehouse/internal/cache"
	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/health"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/pages"
	"github.com/magabrotheeeer/coffeehouse/internal/metrics"
	"github.com/magabrotheeeer/coffeehouse/internal/session"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupRouter(t *testing.T, checkErr error) (http.Handler, *session.Store, config.Session) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	cfg := config.Session{CookieName: "regs_sid", SessionTTL: time.Hour, BusyTTL: time.Second}
	logger := newNoopLogger()
	sessions := session.NewStore(c, cfg.SessionTTL, logger)

	r := chi.NewRouter()
	RegisterRoutes(r, logger, cfg, sessions, c, metrics.New(), Handlers{
		Pages: pages.New(logger, nil),
		Health: health.New(logger, map[string]health.Checker{
			"postgres": pingFunc(func(context.Context) error { return checkErr }),
		}),
	})
	return r, sessions, cfg
}

func TestRoutes_ProtectedPageRedirectsAnonymous(t *testing.T) {
	router, _, _ := setupRouter(t, nil)

	for _, path := range []string{"/members", "/dashboard", "/radio-archive", "/ask-reg"} {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Equal(t, "/", rr.Header().Get("Location"))
		})
	}
}

func TestRoutes_MembersWithSession(t *testing.T) {
	router, sessions, cfg := setupRouter(t, nil)
	sid := uuid.NewString()
	require.NoError(t, sessions.Set(context.Background(), sid, "Reg", "reg@example.com", "0xabc"))

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: sid})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"display_name":"Reg"`)
}

func TestRoutes_LandingIssuesSessionCookie(t *testing.T) {
	router, _, cfg := setupRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cfg.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestRoutes_Metrics(t *testing.T) {
	router, _, _ := setupRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestRoutes_Health(t *testing.T) {
	tests := []struct {
		name     string
		checkErr error
		wantCode int
	}{
		{name: "healthy", wantCode: http.StatusOK},
		{name: "postgres down", checkErr: errors.New("connection refused"), wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, _ := setupRouter(t, tt.checkErr)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}

func TestSameOrigin(t *testing.T) {
	check := sameOrigin("https://regs.example.com")

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{name: "no origin", origin: "", want: true},
		{name: "public origin", origin: "https://regs.example.com", want: true},
		{name: "same host", origin: "http://example.com", want: true},
		{name: "foreign", origin: "https://evil.example.org", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/live/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, check(req))
		})
	}
}
