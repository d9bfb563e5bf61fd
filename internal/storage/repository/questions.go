package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// CreateQuestion сохраняет вопрос из формы "Ask Reg".
func (s *Storage) CreateQuestion(ctx context.Context, q models.Question) (int64, error) {
	const op = "storage.CreateQuestion"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO asked_questions (type, name, email, content, artist_name, artist_link)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		q.Type, q.Name, q.Email, q.Content, q.ArtistName, q.ArtistLink).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// FindNewsletterSubscriber проверяет, подписан ли email на рассылку.
func (s *Storage) FindNewsletterSubscriber(ctx context.Context, email string) (bool, error) {
	const op = "storage.FindNewsletterSubscriber"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	err := s.DB.QueryRowContext(ctx, `SELECT id FROM newsletter_subscribers WHERE email = $1`, email).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// CreateNewsletterSubscriber подписывает email на рассылку.
func (s *Storage) CreateNewsletterSubscriber(ctx context.Context, email string) (int64, error) {
	const op = "storage.CreateNewsletterSubscriber"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO newsletter_subscribers (email) VALUES ($1) RETURNING id`, email).Scan(&newID)
	if err != nil {
		return 0, wrapWrite(op, err)
	}
	return newID, nil
}
