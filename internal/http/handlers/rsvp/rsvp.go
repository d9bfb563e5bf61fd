// Package rsvp обрабатывает бронирование мест на VIP-событиях.
package rsvp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coffeehouse/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coffeehouse/internal/http/response"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/metrics"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// ReserveRequest тело запроса на бронирование. Телефон обязателен только гостям.
type ReserveRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// ReserveResponse итог бронирования.
type ReserveResponse struct {
	EventID int              `json:"event_id"`
	State   models.RsvpState `json:"state"`
}

// ListResponse забронированные события подписчика.
type ListResponse struct {
	EventIDs []int `json:"event_ids"`
}

// Service сценарий бронирования.
type Service interface {
	Reserve(ctx context.Context, eventID int, sess models.Session, phone string) (models.RsvpState, error)
	ReservedEvents(ctx context.Context, sess models.Session) ([]int, error)
}

// Handler обработчики бронирования.
type Handler struct {
	log     *slog.Logger
	service Service
	metrics *metrics.Metrics
}

// New создаёт обработчики бронирования.
func New(log *slog.Logger, service Service, m *metrics.Metrics) *Handler {
	return &Handler{
		log:     log,
		service: service,
		metrics: m,
	}
}

// Reserve godoc
// @Summary Забронировать место
// @Description Подписчик получает reserved или already_reserved, гость с телефоном попадает в лист ожидания
// @Tags Events
// @Accept json
// @Produce json
// @Param id path int true "ID события"
// @Param request body ReserveRequest false "Телефон для гостя"
// @Success 200 {object} ReserveResponse "Состояние бронирования"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Запрос уже выполняется"
// @Failure 422 {object} response.ErrorResponse "Неизвестное событие или нет телефона"
// @Router /events/{id}/rsvp [post]
func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rsvp.reserve"
	log := h.log.With(sl.Op(op), slog.String("request_id", middleware.GetReqID(r.Context())))

	eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid event id"))
		return
	}

	var req ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	state, err := h.service.Reserve(r.Context(), eventID, middlewarectx.SessionFrom(r.Context()), req.PhoneNumber)
	if err != nil {
		log.Error("failed to reserve", slog.Int("event_id", eventID), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	h.metrics.Rsvp(string(state))

	render.JSON(w, r, ReserveResponse{EventID: eventID, State: state})
}

// List godoc
// @Summary Мои бронирования
// @Tags Events
// @Produce json
// @Success 200 {object} ListResponse "ID забронированных событий"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /events/rsvps [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rsvp.list"
	log := h.log.With(sl.Op(op), slog.String("request_id", middleware.GetReqID(r.Context())))

	ids, err := h.service.ReservedEvents(r.Context(), middlewarectx.SessionFrom(r.Context()))
	if err != nil {
		log.Error("failed to list reservations", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, ListResponse{EventIDs: ids})
}
