// Package live обрабатывает голосование за песни и чат прямого эфира.
package live

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"

	"github.com/magabrotheeeer/coffeehouse/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coffeehouse/internal/http/response"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/livestream"
	"github.com/magabrotheeeer/coffeehouse/internal/metrics"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// Tally подсчёт голосов.
type Tally interface {
	Songs(ctx context.Context) ([]models.Song, error)
	Vote(ctx context.Context, songID int) ([]models.Song, error)
}

// Hub рассылка событий эфира.
type Hub interface {
	Broadcast(event livestream.Event)
	Serve(conn *websocket.Conn, name string)
}

// Handler обработчики эфира.
type Handler struct {
	log      *slog.Logger
	tally    Tally
	hub      Hub
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

// New создаёт обработчики эфира. checkOrigin проверяет заголовок Origin при подключении к чату,
// nil означает проверку по умолчанию (тот же хост).
func New(log *slog.Logger, tally Tally, hub Hub, m *metrics.Metrics, checkOrigin func(r *http.Request) bool) *Handler {
	return &Handler{
		log:     log,
		tally:   tally,
		hub:     hub,
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Songs godoc
// @Summary Песни эфира
// @Description Песни по убыванию голосов, при равенстве по возрастанию id
// @Tags Live
// @Produce json
// @Success 200 {array} models.Song
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /live [get]
func (h *Handler) Songs(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.live.songs"
	songs, err := h.tally.Songs(r.Context())
	if err != nil {
		h.log.Error("failed to load songs", sl.Op(op), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, songs)
}

// Vote godoc
// @Summary Проголосовать за песню
// @Description Увеличивает счётчик и рассылает новый рейтинг подключённым клиентам
// @Tags Live
// @Produce json
// @Param id path int true "ID песни"
// @Success 200 {array} models.Song
// @Failure 422 {object} response.ErrorResponse "Неизвестная песня"
// @Failure 429 {object} response.ErrorResponse "Слишком часто"
// @Router /live/songs/{id}/vote [post]
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.live.vote"
	log := h.log.With(sl.Op(op), slog.String("request_id", middleware.GetReqID(r.Context())))

	idParam := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idParam)
	if err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid song id"))
		return
	}

	songs, err := h.tally.Vote(r.Context(), id)
	if err != nil {
		log.Info("vote rejected", slog.Int("song_id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	h.metrics.Vote(idParam)
	h.hub.Broadcast(livestream.Event{Type: livestream.EventVotes, Songs: songs})

	render.JSON(w, r, songs)
}

// Chat godoc
// @Summary Чат эфира
// @Description Переключает соединение на WebSocket. Клиент шлёт {"text": "..."}, сервер рассылает события chat и votes
// @Tags Live
// @Success 101 "Switching Protocols"
// @Router /live/ws [get]
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.live.chat"
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.log.Warn("websocket upgrade failed", sl.Op(op), sl.Err(err))
		return
	}

	h.metrics.LiveConnected(1)
	defer h.metrics.LiveConnected(-1)

	h.hub.Serve(conn, middlewarectx.SessionFrom(r.Context()).DisplayName)
}
