// Package services бронирование мест на VIP-событиях.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/magabrotheeeer/coffeehouse/internal/catalog"
	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
	"github.com/magabrotheeeer/coffeehouse/internal/rabbitmq"
)

// Допустимая длина контактного телефона.
const (
	minPhoneLen = 7
	maxPhoneLen = 20
)

// InviteRepository хранилище приглашений на события.
type InviteRepository interface {
	ListInvitesByEmail(ctx context.Context, email string) ([]*models.EventInvite, error)
	CreateInvite(ctx context.Context, inv models.EventInvite) (int64, error)
}

// Publisher публикует уведомления.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// RsvpService бронирует места для подписчиков и ставит гостей в лист ожидания.
type RsvpService struct {
	invites   InviteRepository
	publisher Publisher
	timeouts  config.Timeouts
	log       *slog.Logger
}

// NewRsvpService создаёт сервис бронирования. publisher может быть nil.
func NewRsvpService(invites InviteRepository, publisher Publisher, timeouts config.Timeouts, log *slog.Logger) *RsvpService {
	return &RsvpService{
		invites:   invites,
		publisher: publisher,
		timeouts:  timeouts,
		log:       log,
	}
}

// Reserve бронирует место на событии eventID.
// Подписчик получает Reserved или AlreadyReserved, гость с телефоном всегда Waitlisted.
func (s *RsvpService) Reserve(ctx context.Context, eventID int, sess models.Session, phone string) (models.RsvpState, error) {
	const op = "rsvp.Reserve"

	event, ok := catalog.FindEvent(eventID)
	if !ok {
		return "", apperr.Validation(op, fmt.Sprintf("unknown event %d", eventID))
	}

	invite := models.EventInvite{
		EventID:    event.ID,
		EventName:  event.Name,
		EventDate:  event.Date,
		EventTime:  event.Time,
		EventVenue: event.Venue,
	}

	if !sess.IsAuthenticated || sess.Email == "" {
		phone = strings.TrimSpace(phone)
		if n := utf8.RuneCountInString(phone); n < minPhoneLen || n > maxPhoneLen {
			return "", apperr.Validation(op, "a contact phone number is required")
		}
		invite.PhoneNumber = &phone
		invite.SubscriberType = models.SubscriberTypeNonSubscriber
		if err := s.create(ctx, invite); err != nil {
			return "", apperr.Wrap(apperr.ErrStore, op, err)
		}
		return models.RsvpWaitlisted, nil
	}

	reserved, err := s.reservedEventIDs(ctx, sess.Email)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrStore, op, err)
	}
	if slices.Contains(reserved, eventID) {
		return models.RsvpAlreadyReserved, nil
	}

	email := sess.Email
	invite.UserEmail = &email
	invite.SubscriberType = models.SubscriberTypeSubscriber
	if err := s.create(ctx, invite); err != nil {
		// параллельный запрос успел забронировать место
		if errors.Is(err, apperr.ErrConflict) {
			return models.RsvpAlreadyReserved, nil
		}
		return "", apperr.Wrap(apperr.ErrStore, op, err)
	}

	s.notify(ctx, models.RsvpReservedMessage{
		Email:       email,
		DisplayName: sess.DisplayName,
		EventID:     event.ID,
		EventName:   event.Name,
		EventDate:   event.Date,
		EventTime:   event.Time,
		EventVenue:  event.Venue,
	})
	return models.RsvpReserved, nil
}

// ReservedEvents возвращает id событий, забронированных подписчиком.
// Для анонимной сессии список пуст.
func (s *RsvpService) ReservedEvents(ctx context.Context, sess models.Session) ([]int, error) {
	const op = "rsvp.ReservedEvents"
	if !sess.IsAuthenticated || sess.Email == "" {
		return []int{}, nil
	}
	ids, err := s.reservedEventIDs(ctx, sess.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, op, err)
	}
	return ids, nil
}

func (s *RsvpService) reservedEventIDs(ctx context.Context, email string) ([]int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.StoreTimeout)
	defer cancel()

	invites, err := s.invites.ListInvitesByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(invites))
	for _, inv := range invites {
		if !slices.Contains(ids, inv.EventID) {
			ids = append(ids, inv.EventID)
		}
	}
	return ids, nil
}

func (s *RsvpService) create(ctx context.Context, invite models.EventInvite) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.StoreTimeout)
	defer cancel()
	_, err := s.invites.CreateInvite(ctx, invite)
	return err
}

func (s *RsvpService) notify(ctx context.Context, msg models.RsvpReservedMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingRsvpReserved, msg); err != nil {
		s.log.Warn("failed to publish rsvp notification",
			slog.String("op", "rsvp.notify"), slog.Int("event_id", msg.EventID), sl.Err(err))
	}
}
