package models

import "time"

// Тип участника события.
const (
	SubscriberTypeSubscriber    = "subscriber"
	SubscriberTypeNonSubscriber = "non-subscriber"
)

// RsvpState результат запроса на участие в событии.
type RsvpState string

// Возможные состояния RSVP.
const (
	RsvpReserved        RsvpState = "reserved"
	RsvpAlreadyReserved RsvpState = "already_reserved"
	RsvpWaitlisted      RsvpState = "waitlisted"
)

// EventInvite запись о бронировании места на событии.
type EventInvite struct {
	ID             int64     `json:"id"`
	EventID        int       `json:"event_id"`
	EventName      string    `json:"event_name"`
	EventDate      string    `json:"event_date"`
	EventTime      string    `json:"event_time"`
	EventVenue     string    `json:"event_venue"`
	UserEmail      *string   `json:"user_email,omitempty"`
	PhoneNumber    *string   `json:"phone_number,omitempty"`
	SubscriberType string    `json:"subscriber_type"`
	CreatedAt      time.Time `json:"created_at"`
}
