// Package askreg обрабатывает форму вопросов и предложений "Ask Reg".
package askreg

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/coffeehouse/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coffeehouse/internal/http/response"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// FormResponse значения формы, заполненные из сессии.
type FormResponse struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Types []string `json:"types"`
}

// SubmitRequest тело формы.
type SubmitRequest struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Content    string `json:"content"`
	ArtistName string `json:"artist_name"`
	ArtistLink string `json:"artist_link"`
}

// SubmitResponse id сохранённого вопроса.
type SubmitResponse struct {
	ID int64 `json:"id"`
}

// Service сценарий отправки вопроса.
type Service interface {
	Ask(ctx context.Context, sess models.Session, q models.Question) (int64, error)
}

// Handler обработчики формы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт обработчики формы.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Form godoc
// @Summary Форма Ask Reg
// @Tags AskReg
// @Produce json
// @Success 200 {object} FormResponse "Имя и email из сессии"
// @Failure 303 "Нет входа"
// @Router /ask-reg [get]
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	sess := middlewarectx.SessionFrom(r.Context())
	render.JSON(w, r, FormResponse{
		Name:  sess.DisplayName,
		Email: sess.Email,
		Types: []string{"question", "artist", "interview"},
	})
}

// Submit godoc
// @Summary Отправить вопрос
// @Tags AskReg
// @Accept json
// @Produce json
// @Param request body SubmitRequest true "Вопрос"
// @Success 201 {object} SubmitResponse "Вопрос сохранён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /ask-reg [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.askreg.submit"
	log := h.log.With(sl.Op(op), slog.String("request_id", middleware.GetReqID(r.Context())))

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	id, err := h.service.Ask(r.Context(), middlewarectx.SessionFrom(r.Context()), models.Question{
		Type:       req.Type,
		Name:       req.Name,
		Email:      req.Email,
		Content:    req.Content,
		ArtistName: req.ArtistName,
		ArtistLink: req.ArtistLink,
	})
	if err != nil {
		log.Info("failed to save question", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SubmitResponse{ID: id})
}
