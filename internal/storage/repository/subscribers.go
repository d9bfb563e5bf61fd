package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// FindSubscriberByEmail ищет подписчика по email. Отсутствие записи не ошибка.
func (s *Storage) FindSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, bool, error) {
	const op = "storage.FindSubscriberByEmail"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, name, wallet_address, created_at, last_login
			  FROM subscribers
			  WHERE email = $1`
	var sub models.Subscriber
	var lastLogin sql.NullTime
	err := s.DB.QueryRowContext(ctx, query, email).Scan(&sub.ID, &sub.Email, &sub.Name,
		&sub.WalletAddress, &sub.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if lastLogin.Valid {
		sub.LastLogin = &lastLogin.Time
	}
	return &sub, true, nil
}

// CreateSubscriber сохраняет нового подписчика и возвращает его ID.
// Повторный email возвращает ошибку apperr.ErrConflict.
func (s *Storage) CreateSubscriber(ctx context.Context, sub models.Subscriber) (int64, error) {
	const op = "storage.CreateSubscriber"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscribers (email, name, wallet_address, last_login)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query, sub.Email, sub.Name, sub.WalletAddress, sub.LastLogin).Scan(&newID)
	if err != nil {
		return 0, wrapWrite(op, err)
	}
	return newID, nil
}

// TouchSubscriberLogin обновляет время последнего входа подписчика.
func (s *Storage) TouchSubscriberLogin(ctx context.Context, email string, at time.Time) error {
	const op = "storage.TouchSubscriberLogin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscribers
			  SET last_login = $1
			  WHERE email = $2`
	result, err := s.DB.ExecContext(ctx, query, at, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}
