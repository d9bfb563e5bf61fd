package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/coffeehouse/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

func TestRateLimitMiddleware(t *testing.T) {
	limiter := middlewarectx.NewRateLimiter(rate.Limit(0.001), 2)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RateLimitMiddleware(limiter, newNoopLogger())(next)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithSID("sid-a"))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// новая сессия с того же адреса не получает новый лимит
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithSID("sid-b"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// другой адрес имеет собственный лимит
	req := requestWithSID("sid-c")
	req.RemoteAddr = "10.0.0.2:4000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware_KeyedByHost(t *testing.T) {
	limiter := middlewarectx.NewRateLimiter(rate.Limit(0.001), 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := middlewarectx.RateLimitMiddleware(limiter, newNoopLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req.RemoteAddr = "10.0.0.1:5001"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimitMiddleware_CookielessRequestsShareLimit(t *testing.T) {
	store := new(SessionReaderMock)
	store.On("Get", mock.Anything, mock.Anything).Return(models.Session{})

	limiter := middlewarectx.NewRateLimiter(rate.Limit(0.001), 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.SessionMiddleware(store, sessionCfg, newNoopLogger())(
		middlewarectx.RateLimitMiddleware(limiter, newNoopLogger())(next),
	)

	allowed := 0
	for range 50 {
		// каждый запрос без cookie получает новый идентификатор сессии
		req := httptest.NewRequest(http.MethodPost, "/newsletter", nil)
		req.RemoteAddr = "10.0.0.1:6000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)
}
