// Package middlewarectx содержит HTTP middleware, которые кладут в контекст
// запроса идентификатор и сессию посетителя, проверяют доступ к страницам,
// запрещают параллельные действия одной сессии и ограничивают частоту запросов.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// SessionID ключ идентификатора сессии в контексте.
	SessionID Key = "session_id"
	// Session ключ загруженной сессии в контексте.
	Session Key = "session"
)

// SessionReader читает сессию по идентификатору.
type SessionReader interface {
	Get(ctx context.Context, sid string) models.Session
}

// SessionMiddleware выдаёт идентификатор сессии в HttpOnly cookie при первом визите
// и на каждом запросе заново загружает сессию из хранилища.
func SessionMiddleware(store SessionReader, cfg config.Session, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					sid = c.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(cfg.SessionTTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.SecureCookies,
					SameSite: http.SameSiteLaxMode,
				})
				log.Debug("issued new session id")
			}

			ctx := context.WithValue(r.Context(), SessionID, sid)
			ctx = context.WithValue(ctx, Session, store.Get(ctx, sid))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFrom возвращает идентификатор сессии из контекста.
func SessionIDFrom(ctx context.Context) string {
	sid, _ := ctx.Value(SessionID).(string)
	return sid
}

// SessionFrom возвращает сессию из контекста или пустую сессию.
func SessionFrom(ctx context.Context) models.Session {
	sess, _ := ctx.Value(Session).(models.Session)
	return sess
}

// WithSession кладёт идентификатор и сессию в контекст.
func WithSession(ctx context.Context, sid string, sess models.Session) context.Context {
	ctx = context.WithValue(ctx, SessionID, sid)
	return context.WithValue(ctx, Session, sess)
}
