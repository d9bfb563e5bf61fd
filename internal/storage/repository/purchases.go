package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

const purchaseColumns = `id, user_email, user_type, item_id, item_name, item_price,
			      payment_status, subscriber_id, created_at, confirmed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row rowScanner) (*models.Purchase, error) {
	var p models.Purchase
	var userEmail sql.NullString
	var subscriberID sql.NullInt64
	var confirmedAt sql.NullTime
	if err := row.Scan(&p.ID, &userEmail, &p.UserType, &p.ItemID, &p.ItemName, &p.ItemPrice,
		&p.PaymentStatus, &subscriberID, &p.CreatedAt, &confirmedAt); err != nil {
		return nil, err
	}
	p.UserEmail = stringPtr(userEmail)
	if subscriberID.Valid {
		id := subscriberID.Int64
		p.SubscriberID = &id
	}
	if confirmedAt.Valid {
		p.ConfirmedAt = &confirmedAt.Time
	}
	return &p, nil
}

// CreatePurchase вставляет запись о покупке и возвращает назначенный ID.
func (s *Storage) CreatePurchase(ctx context.Context, p models.Purchase) (int64, error) {
	const op = "storage.CreatePurchase"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO merch_purchases (user_email, user_type, item_id, item_name, item_price,
			      payment_status, subscriber_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		nullString(p.UserEmail), p.UserType, p.ItemID, p.ItemName, p.ItemPrice,
		p.PaymentStatus, nullInt64(p.SubscriberID)).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPurchase возвращает покупку по ID.
func (s *Storage) GetPurchase(ctx context.Context, id int64) (*models.Purchase, error) {
	const op = "storage.GetPurchase"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + purchaseColumns + `
			  FROM merch_purchases
			  WHERE id = $1`
	p, err := scanPurchase(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ConfirmPurchase переводит покупку в статус confirmed.
// changed равен true только при первом переходе; повторный вызов не ошибка.
func (s *Storage) ConfirmPurchase(ctx context.Context, id int64) (*models.Purchase, bool, error) {
	const op = "storage.ConfirmPurchase"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE merch_purchases
			  SET payment_status = $1, confirmed_at = NOW()
			  WHERE id = $2 AND payment_status <> $1
			  RETURNING ` + purchaseColumns
	p, err := scanPurchase(s.DB.QueryRowContext(ctx, query, models.PaymentStatusConfirmed, id))
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	// строка уже подтверждена или её нет
	p, err = s.GetPurchase(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return p, false, nil
}
