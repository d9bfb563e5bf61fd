// Package auth обрабатывает вход через внешнего провайдера, выход и чтение сессии.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coffeehouse/internal/http/response"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/jwt"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/metrics"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
	authservice "github.com/magabrotheeeer/coffeehouse/internal/services/auth"
)

// StateCookie имя cookie с токеном состояния входа.
const StateCookie = "regs_login_state"

// AfterLoginPath страница, куда попадает посетитель после входа.
const AfterLoginPath = "/members"

var errProviderDenied = errors.New("provider denied login")

// LoginService завершает вход.
type LoginService interface {
	Login(ctx context.Context, sid, displayName, code, nonce string) (models.Session, error)
}

// AuthURLBuilder строит адрес перехода к провайдеру.
type AuthURLBuilder interface {
	AuthCodeURL(state, nonce string) string
}

// SessionClearer удаляет сессию.
type SessionClearer interface {
	Clear(ctx context.Context, sid string) error
}

// Handler обработчики сценария входа.
type Handler struct {
	log      *slog.Logger
	service  LoginService
	provider AuthURLBuilder
	states   jwt.Maker
	sessions SessionClearer
	metrics  *metrics.Metrics
	cfg      config.Session
}

// New создаёт обработчики входа.
func New(log *slog.Logger, service LoginService, provider AuthURLBuilder, states jwt.Maker,
	sessions SessionClearer, m *metrics.Metrics, cfg config.Session) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		provider: provider,
		states:   states,
		sessions: sessions,
		metrics:  m,
		cfg:      cfg,
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) setStateCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    value,
		Path:     "/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login godoc
// @Summary Начать вход
// @Description Проверяет имя и перенаправляет к провайдеру входа
// @Tags Auth
// @Produce json
// @Param name query string true "Отображаемое имя"
// @Success 302 "Переход к провайдеру"
// @Failure 422 {object} response.ErrorResponse "Некорректное имя"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /auth/login [get]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.login")

	name, err := authservice.ValidateDisplayName(r.URL.Query().Get("name"))
	if err != nil {
		log.Info("invalid display name", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	nonce := uuid.NewString()
	state, err := h.states.GenerateState(name, nonce)
	if err != nil {
		log.Error("failed to sign login state", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	h.setStateCookie(w, state, int(h.cfg.StateTTL.Seconds()))
	http.Redirect(w, r, h.provider.AuthCodeURL(state, nonce), http.StatusFound)
}

// Callback godoc
// @Summary Завершить вход
// @Description Проверяет состояние, подтверждает личность у провайдера и сохраняет сессию
// @Tags Auth
// @Produce json
// @Param state query string true "Токен состояния"
// @Param code query string true "Код авторизации"
// @Success 303 "Переход на страницу участника"
// @Failure 400 {object} response.ErrorResponse "Неверное состояние входа"
// @Failure 422 {object} response.ErrorResponse "Нет кода авторизации"
// @Failure 502 {object} response.ErrorResponse "Ошибка провайдера"
// @Failure 504 {object} response.ErrorResponse "Превышено время ожидания"
// @Router /auth/callback [get]
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.callback")
	q := r.URL.Query()

	cookie, err := r.Cookie(StateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != q.Get("state") {
		log.Warn("login state mismatch")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid login state"))
		return
	}
	// состояние одноразовое
	h.setStateCookie(w, "", -1)

	claims, err := h.states.ParseState(cookie.Value)
	if err != nil {
		log.Warn("invalid login state token", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid login state"))
		return
	}

	if providerErr := q.Get("error"); providerErr != "" {
		log.Info("provider denied login", slog.String("provider_error", providerErr))
		h.metrics.Login(errProviderDenied)
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("authentication failed, please try again"))
		return
	}
	code := q.Get("code")
	if code == "" {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("authorization code is required"))
		return
	}

	sess, err := h.service.Login(r.Context(), middlewarectx.SessionIDFrom(r.Context()), claims.DisplayName, code, claims.Nonce)
	h.metrics.Login(err)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("visitor signed in", slog.String("display_name", sess.DisplayName))
	http.Redirect(w, r, AfterLoginPath, http.StatusSeeOther)
}

// Logout godoc
// @Summary Выйти
// @Description Полностью удаляет сессию браузера
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response "Пустая сессия"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.logout")

	if err := h.sessions.Clear(r.Context(), middlewarectx.SessionIDFrom(r.Context())); err != nil {
		log.Error("failed to clear session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(models.Session{}))
}

// Session godoc
// @Summary Текущая сессия
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response "Сессия посетителя"
// @Router /auth/session [get]
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(middlewarectx.SessionFrom(r.Context())))
}
