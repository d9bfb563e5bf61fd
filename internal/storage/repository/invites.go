package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// ListInvitesByEmail возвращает приглашения подписчика.
func (s *Storage) ListInvitesByEmail(ctx context.Context, email string) ([]*models.EventInvite, error) {
	const op = "storage.ListInvitesByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, event_id, event_name, event_date, event_time, event_venue,
			      user_email, phone_number, subscriber_type, created_at
			  FROM event_invites
			  WHERE user_email = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.EventInvite
	for rows.Next() {
		var inv models.EventInvite
		var userEmail, phone sql.NullString
		if err := rows.Scan(&inv.ID, &inv.EventID, &inv.EventName, &inv.EventDate, &inv.EventTime,
			&inv.EventVenue, &userEmail, &phone, &inv.SubscriberType, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		inv.UserEmail = stringPtr(userEmail)
		inv.PhoneNumber = stringPtr(phone)
		result = append(result, &inv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateInvite сохраняет приглашение и возвращает его ID.
// Повторное бронирование подписчиком возвращает apperr.ErrConflict.
func (s *Storage) CreateInvite(ctx context.Context, inv models.EventInvite) (int64, error) {
	const op = "storage.CreateInvite"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO event_invites (event_id, event_name, event_date, event_time, event_venue,
			      user_email, phone_number, subscriber_type)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		inv.EventID, inv.EventName, inv.EventDate, inv.EventTime, inv.EventVenue,
		nullString(inv.UserEmail), nullString(inv.PhoneNumber), inv.SubscriberType).Scan(&newID)
	if err != nil {
		return 0, wrapWrite(op, err)
	}
	return newID, nil
}
