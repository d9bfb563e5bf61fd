// Package health HTTP-проверка готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coffeehouse/internal/http/response"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
)

const checkTimeout = 2 * time.Second

// Checker зависимость, которую нужно проверить.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler проверяет зависимости.
type Handler struct {
	log    *slog.Logger
	checks map[string]Checker
}

// New создаёт обработчик проверки готовности.
func New(log *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{
		log:    log,
		checks: checks,
	}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response "Все зависимости доступны"
// @Failure 503 {object} response.Response "Часть зависимостей недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	statuses := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.log.Warn("dependency check failed", sl.Op(op), slog.String("dependency", name), sl.Err(err))
			statuses[name] = "down"
			healthy = false
			continue
		}
		statuses[name] = "ok"
	}

	if !healthy {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Response{Status: response.StatusError, Error: "dependencies unavailable", Data: statuses})
		return
	}
	render.JSON(w, r, response.StatusOKWithData(statuses))
}
