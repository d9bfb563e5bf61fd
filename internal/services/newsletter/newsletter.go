// Package services подписка на новостную рассылку.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
)

// NewsletterRepository хранилище адресов рассылки.
type NewsletterRepository interface {
	FindNewsletterSubscriber(ctx context.Context, email string) (bool, error)
	CreateNewsletterSubscriber(ctx context.Context, email string) (int64, error)
}

// NewsletterService идемпотентно подписывает адреса на рассылку.
type NewsletterService struct {
	repo     NewsletterRepository
	validate *validator.Validate
	timeouts config.Timeouts
}

// NewNewsletterService создаёт сервис рассылки.
func NewNewsletterService(repo NewsletterRepository, timeouts config.Timeouts) *NewsletterService {
	return &NewsletterService{
		repo:     repo,
		validate: validator.New(),
		timeouts: timeouts,
	}
}

// Subscribe подписывает email. already=true, если адрес уже был подписан.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (bool, error) {
	const op = "newsletter.Subscribe"

	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return false, apperr.Validation(op, "a valid email is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeouts.StoreTimeout)
	defer cancel()

	found, err := s.repo.FindNewsletterSubscriber(ctx, email)
	if err != nil {
		return false, apperr.Wrap(apperr.ErrStore, op, err)
	}
	if found {
		return true, nil
	}

	if _, err := s.repo.CreateNewsletterSubscriber(ctx, email); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return true, nil
		}
		return false, apperr.Wrap(apperr.ErrStore, op, err)
	}
	return false, nil
}
