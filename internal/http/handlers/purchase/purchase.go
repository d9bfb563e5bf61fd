// Package purchase обрабатывает запуск оплаты мерча и возврат со шлюза.
package purchase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/coffeehouse/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coffeehouse/internal/http/response"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/metrics"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// Этапы покупки для метрик.
const (
	StageInitiated = "initiated"
	StageConfirmed = "confirmed"
)

// CreateRequest запрос на покупку товара.
type CreateRequest struct {
	ItemID int `json:"item_id" validate:"required,gt=0"`
}

// ConfirmResponse ответ на возврат со шлюза.
type ConfirmResponse struct {
	PurchaseID int64  `json:"purchase_id"`
	Status     string `json:"payment_status"`
}

// Service сценарий покупки.
type Service interface {
	Purchase(ctx context.Context, origin string, itemID int, sess models.Session) (models.Checkout, error)
	Confirm(ctx context.Context, id int64) error
}

// Handler обработчики покупок.
type Handler struct {
	log      *slog.Logger
	service  Service
	origin   string
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// New создаёт обработчики покупок. origin публичный адрес сайта для ссылок возврата.
func New(log *slog.Logger, service Service, origin string, m *metrics.Metrics) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		origin:   origin,
		metrics:  m,
		validate: validator.New(),
	}
}

// Create godoc
// @Summary Купить товар
// @Description Создаёт запись покупки и возвращает адрес страницы оплаты
// @Tags Purchases
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Товар"
// @Success 200 {object} models.Checkout "Адрес оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Покупка уже выполняется"
// @Failure 422 {object} response.ErrorResponse "Неизвестный товар"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного шлюза"
// @Failure 504 {object} response.ErrorResponse "Превышено время ожидания"
// @Router /purchases [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.create"
	log := h.log.With(sl.Op(op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	checkout, err := h.service.Purchase(r.Context(), h.origin, req.ItemID, middlewarectx.SessionFrom(r.Context()))
	h.metrics.Purchase(StageInitiated, err)
	if err != nil {
		log.Error("failed to start purchase", slog.Int("item_id", req.ItemID), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("purchase initiated", slog.Int64("purchase_id", checkout.PurchaseID))
	render.JSON(w, r, checkout)
}

// Success godoc
// @Summary Подтвердить оплату
// @Description Возврат со шлюза после успешной оплаты, повторный вызов безопасен
// @Tags Purchases
// @Produce json
// @Param id query int true "ID покупки"
// @Success 200 {object} ConfirmResponse "Покупка подтверждена"
// @Failure 404 {object} response.ErrorResponse "Покупка не найдена"
// @Failure 422 {object} response.ErrorResponse "Некорректный id"
// @Router /purchase-success [get]
func (h *Handler) Success(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.success"
	log := h.log.With(sl.Op(op), slog.String("request_id", middleware.GetReqID(r.Context())))

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid purchase id"))
		return
	}

	err = h.service.Confirm(r.Context(), id)
	h.metrics.Purchase(StageConfirmed, err)
	if err != nil {
		log.Error("failed to confirm purchase", slog.Int64("purchase_id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, ConfirmResponse{PurchaseID: id, Status: models.PaymentStatusConfirmed})
}
