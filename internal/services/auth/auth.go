// Package services содержит логику входа посетителя через внешнего провайдера.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// MaxDisplayNameLen максимальная длина отображаемого имени в символах.
const MaxDisplayNameLen = 64

// SubscriberRepository описывает контракт для работы с подписчиками в базе данных.
type SubscriberRepository interface {
	// FindSubscriberByEmail возвращает подписчика; found=false, если записи нет.
	FindSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, bool, error)
	// CreateSubscriber сохраняет нового подписчика и возвращает его ID.
	CreateSubscriber(ctx context.Context, sub models.Subscriber) (int64, error)
	// TouchSubscriberLogin обновляет время последнего входа.
	TouchSubscriberLogin(ctx context.Context, email string, at time.Time) error
}

// IdentityProvider подтверждает личность посетителя по коду авторизации.
type IdentityProvider interface {
	Authenticate(ctx context.Context, code, nonce string) (models.Identity, error)
}

// SessionWriter сохраняет сессию браузера.
type SessionWriter interface {
	Set(ctx context.Context, sid, name, email, walletAddress string) error
}

// AuthService отвечает за вход посетителя и регистрацию подписчика.
type AuthService struct {
	subscribers SubscriberRepository
	provider    IdentityProvider
	sessions    SessionWriter
	timeouts    config.Timeouts
	now         func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(subscribers SubscriberRepository, provider IdentityProvider, sessions SessionWriter,
	timeouts config.Timeouts) *AuthService {
	return &AuthService{
		subscribers: subscribers,
		provider:    provider,
		sessions:    sessions,
		timeouts:    timeouts,
		now:         time.Now,
	}
}

// ValidateDisplayName проверяет имя до любых сетевых вызовов и возвращает его без пробелов по краям.
func ValidateDisplayName(name string) (string, error) {
	const op = "auth.ValidateDisplayName"
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation(op, "display name is required")
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		return "", apperr.Validation(op, "display name is too long")
	}
	return name, nil
}

// NormalizeEmail приводит адрес к виду, по которому подписчик уникален.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login завершает вход: подтверждает личность у провайдера, создаёт подписчика
// или обновляет время его входа и только после этого сохраняет сессию.
// При любой ошибке сессия не записывается и посетитель остаётся анонимным.
func (s *AuthService) Login(ctx context.Context, sid, displayName, code, nonce string) (models.Session, error) {
	const op = "auth.Login"

	name, err := ValidateDisplayName(displayName)
	if err != nil {
		return models.Session{}, err
	}

	identity, err := s.authenticate(ctx, code, nonce)
	if err != nil {
		return models.Session{}, apperr.Wrap(apperr.ErrProvider, op, err)
	}
	identity.Email = NormalizeEmail(identity.Email)
	if identity.Email == "" {
		return models.Session{}, apperr.Wrap(apperr.ErrProvider, op, errors.New("provider returned no email"))
	}

	if err := s.upsertSubscriber(ctx, name, identity); err != nil {
		return models.Session{}, apperr.Wrap(apperr.ErrStore, op, err)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeouts.StoreTimeout)
	defer cancel()
	if err := s.sessions.Set(storeCtx, sid, name, identity.Email, identity.Address); err != nil {
		return models.Session{}, apperr.Wrap(apperr.ErrStore, op, err)
	}

	return models.NewSession(name, identity.Email, identity.Address), nil
}

func (s *AuthService) authenticate(ctx context.Context, code, nonce string) (models.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.ProviderTimeout)
	defer cancel()
	return s.provider.Authenticate(ctx, code, nonce)
}

// upsertSubscriber идемпотентен по email: повторный вход не создаёт дубликатов.
func (s *AuthService) upsertSubscriber(ctx context.Context, name string, identity models.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.StoreTimeout)
	defer cancel()

	now := s.now().UTC()
	_, found, err := s.subscribers.FindSubscriberByEmail(ctx, identity.Email)
	if err != nil {
		return err
	}
	if found {
		return s.subscribers.TouchSubscriberLogin(ctx, identity.Email, now)
	}

	_, err = s.subscribers.CreateSubscriber(ctx, models.Subscriber{
		Email:         identity.Email,
		Name:          name,
		WalletAddress: identity.Address,
		LastLogin:     &now,
	})
	if errors.Is(err, apperr.ErrConflict) {
		// параллельный вход успел создать запись
		return s.subscribers.TouchSubscriberLogin(ctx, identity.Email, now)
	}
	return err
}
