// Package pages отдаёт страницы, доступные только после входа.
// Доступ проверяет middleware RequireEntitlement до вызова обработчиков.
package pages

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coffeehouse/internal/catalog"
	"github.com/magabrotheeeer/coffeehouse/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coffeehouse/internal/http/response"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// MembersResponse страница участника.
type MembersResponse struct {
	DisplayName   string           `json:"display_name"`
	WalletAddress string           `json:"wallet_address"`
	Mixtapes      []models.Mixtape `json:"mixtapes"`
}

// DashboardEvent событие с отметкой о брони.
type DashboardEvent struct {
	models.Event
	Reserved bool `json:"reserved"`
}

// DashboardResponse личный кабинет.
type DashboardResponse struct {
	DisplayName string             `json:"display_name"`
	Mixtapes    []models.Mixtape   `json:"mixtapes"`
	Events      []DashboardEvent   `json:"events"`
	Merch       []models.MerchItem `json:"merch"`
}

// ReservationLister список забронированных событий.
type ReservationLister interface {
	ReservedEvents(ctx context.Context, sess models.Session) ([]int, error)
}

// Handler обработчики закрытых страниц.
type Handler struct {
	log          *slog.Logger
	reservations ReservationLister
}

// New создаёт обработчики закрытых страниц.
func New(log *slog.Logger, reservations ReservationLister) *Handler {
	return &Handler{log: log, reservations: reservations}
}

// Members godoc
// @Summary Страница участника
// @Tags Pages
// @Produce json
// @Success 200 {object} MembersResponse
// @Failure 303 "Нет входа"
// @Router /members [get]
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	sess := middlewarectx.SessionFrom(r.Context())
	render.JSON(w, r, MembersResponse{
		DisplayName:   sess.DisplayName,
		WalletAddress: sess.WalletAddress,
		Mixtapes:      catalog.ExclusiveMixtapes(),
	})
}

// Dashboard godoc
// @Summary Личный кабинет
// @Description Подборки, события с отметками о брони и товары для участников
// @Tags Pages
// @Produce json
// @Success 200 {object} DashboardResponse
// @Failure 303 "Нет входа"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pages.dashboard"
	log := h.log.With(sl.Op(op), slog.String("request_id", middleware.GetReqID(r.Context())))
	sess := middlewarectx.SessionFrom(r.Context())

	reserved, err := h.reservations.ReservedEvents(r.Context(), sess)
	if err != nil {
		log.Error("failed to load reservations", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	events := catalog.Events()
	withFlags := make([]DashboardEvent, 0, len(events))
	for _, e := range events {
		withFlags = append(withFlags, DashboardEvent{Event: e, Reserved: slices.Contains(reserved, e.ID)})
	}

	render.JSON(w, r, DashboardResponse{
		DisplayName: sess.DisplayName,
		Mixtapes:    catalog.ExclusiveMixtapes(),
		Events:      withFlags,
		Merch:       catalog.MemberMerch(),
	})
}

// RadioArchive godoc
// @Summary Радиоархив
// @Tags Pages
// @Produce json
// @Param q query string false "Подстрока названия"
// @Param filter query string false "all, extended, mixtapes или interviews"
// @Success 200 {array} models.Show
// @Failure 303 "Нет входа"
// @Failure 422 {object} response.ErrorResponse "Неизвестный фильтр"
// @Router /radio-archive [get]
func (h *Handler) RadioArchive(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	shows, err := catalog.FilterShows(q.Get("q"), q.Get("filter"))
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, shows)
}
