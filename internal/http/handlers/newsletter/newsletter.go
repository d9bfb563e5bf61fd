// Package newsletter обрабатывает подписку на рассылку.
package newsletter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/coffeehouse/internal/http/response"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
)

// SubscribeRequest запрос на подписку.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SubscribeResponse результат подписки.
type SubscribeResponse struct {
	AlreadySubscribed bool `json:"already_subscribed"`
}

// Service сценарий подписки.
type Service interface {
	Subscribe(ctx context.Context, email string) (bool, error)
}

// Handler обработчик подписки на рассылку.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт обработчик подписки.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подписаться на рассылку
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Email"
// @Success 200 {object} SubscribeResponse "Результат подписки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Некорректный email"
// @Router /newsletter [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.newsletter.subscribe"
	log := h.log.With(sl.Op(op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	already, err := h.service.Subscribe(r.Context(), req.Email)
	if err != nil {
		log.Error("failed to subscribe", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, SubscribeResponse{AlreadySubscribed: already})
}
