package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/coffeehouse/internal/entitlement"
)

// RequireEntitlement проверяет доступ к странице до вызова обработчика.
// При отказе отвечает 303 See Other на публичную страницу.
func RequireEntitlement(route string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !entitlement.CanAccess(route, SessionFrom(r.Context())) {
				log.Info("access denied, redirecting", slog.String("route", route))
				http.Redirect(w, r, entitlement.LandingPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
