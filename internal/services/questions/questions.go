// Package services приём вопросов и предложений через форму "Ask Reg".
package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// QuestionRepository хранилище вопросов.
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, q models.Question) (int64, error)
}

// QuestionService сохраняет вопросы подписчиков.
type QuestionService struct {
	repo     QuestionRepository
	validate *validator.Validate
	timeouts config.Timeouts
}

// NewQuestionService создаёт сервис вопросов.
func NewQuestionService(repo QuestionRepository, timeouts config.Timeouts) *QuestionService {
	return &QuestionService{
		repo:     repo,
		validate: validator.New(),
		timeouts: timeouts,
	}
}

// Ask сохраняет вопрос. Пустые имя и email берутся из сессии.
func (s *QuestionService) Ask(ctx context.Context, sess models.Session, q models.Question) (int64, error) {
	const op = "questions.Ask"

	q.Content = strings.TrimSpace(q.Content)
	q.Name = strings.TrimSpace(q.Name)
	q.Email = strings.TrimSpace(q.Email)
	if q.Name == "" {
		q.Name = sess.DisplayName
	}
	if q.Email == "" {
		q.Email = sess.Email
	}
	if q.Type == "artist" && strings.TrimSpace(q.ArtistName) == "" {
		return 0, apperr.Validation(op, "artist name is required")
	}
	if err := s.validate.Struct(q); err != nil {
		return 0, apperr.Validation(op, "invalid question: "+err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeouts.StoreTimeout)
	defer cancel()
	id, err := s.repo.CreateQuestion(ctx, q)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrStore, op, err)
	}
	return id, nil
}
