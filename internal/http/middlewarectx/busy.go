package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coffeehouse/internal/http/response"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
)

// Locker ставит и снимает флаг занятости.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// BusyGuard не даёт одной сессии выполнять одно действие параллельно.
// Флаг busy:<sid>:<action> держится на время запроса, повторный запрос получает 409.
// Если хранилище флагов недоступно, запрос пропускается.
func BusyGuard(locker Locker, action string, ttl time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "busy:" + SessionIDFrom(r.Context()) + ":" + action

			ok, err := locker.Acquire(r.Context(), key, ttl)
			if err != nil {
				log.Warn("busy flag unavailable", slog.String("action", action), sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("request already in progress"))
				return
			}
			defer func() {
				if err := locker.Release(context.WithoutCancel(r.Context()), key); err != nil {
					log.Warn("failed to release busy flag", slog.String("action", action), sl.Err(err))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
