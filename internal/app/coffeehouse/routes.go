// Package coffeehouse собирает HTTP- и gRPC-серверы сайта.
package coffeehouse

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/coffeehouse/internal/cache"
	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/entitlement"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/askreg"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/auth"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/catalog"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/health"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/live"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/newsletter"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/pages"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/purchase"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/rsvp"
	"github.com/magabrotheeeer/coffeehouse/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coffeehouse/internal/metrics"
	"github.com/magabrotheeeer/coffeehouse/internal/session"
)

// Handlers обработчики, из которых собирается роутер.
type Handlers struct {
	Auth       *auth.Handler
	Purchase   *purchase.Handler
	Rsvp       *rsvp.Handler
	Newsletter *newsletter.Handler
	AskReg     *askreg.Handler
	Pages      *pages.Handler
	Live       *live.Handler
	Health     *health.Handler
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.Session, sessions *session.Store,
	locker *cache.Cache, m *metrics.Metrics, h Handlers) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Handle("/metrics", m.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
	r.Get("/health", h.Health.ServeHTTP)

	limiter := middlewarectx.NewRateLimiter(rate.Every(200*time.Millisecond), 5)
	busy := func(action string) func(http.Handler) http.Handler {
		return middlewarectx.BusyGuard(locker, action, cfg.BusyTTL, logger)
	}
	guard := func(route string) func(http.Handler) http.Handler {
		return middlewarectx.RequireEntitlement(route, logger)
	}

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(sessions, cfg, logger))

		// Публичные страницы
		r.Get("/", catalog.Landing)
		r.Get("/merch", catalog.Merch)
		r.Get("/events", catalog.Events)

		r.Route("/auth", func(r chi.Router) {
			r.With(busy("login")).Get("/login", h.Auth.Login)
			r.With(busy("login")).Get("/callback", h.Auth.Callback)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/session", h.Auth.Session)
		})

		r.With(busy("purchase")).Post("/purchases", h.Purchase.Create)
		r.Get("/purchase-success", h.Purchase.Success)

		r.With(busy("rsvp")).Post("/events/{id}/rsvp", h.Rsvp.Reserve)
		r.Get("/events/rsvps", h.Rsvp.List)

		r.With(middlewarectx.RateLimitMiddleware(limiter, logger)).Post("/newsletter", h.Newsletter.ServeHTTP)

		r.Route("/live", func(r chi.Router) {
			r.Get("/", h.Live.Songs)
			r.With(middlewarectx.RateLimitMiddleware(limiter, logger)).Post("/songs/{id}/vote", h.Live.Vote)
			r.Get("/ws", h.Live.Chat)
		})

		// Страницы только для участников
		r.With(guard(entitlement.RouteMembers)).Get("/members", h.Pages.Members)
		r.With(guard(entitlement.RouteDashboard)).Get("/dashboard", h.Pages.Dashboard)
		r.With(guard(entitlement.RouteRadioArchive)).Get("/radio-archive", h.Pages.RadioArchive)
		r.Route("/ask-reg", func(r chi.Router) {
			r.Use(guard(entitlement.RouteAskReg))
			r.Get("/", h.AskReg.Form)
			r.With(middlewarectx.RateLimitMiddleware(limiter, logger)).Post("/", h.AskReg.Submit)
		})
	})
}
