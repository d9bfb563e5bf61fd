package models

// PurchaseConfirmedMessage уведомление о подтверждённой оплате мерча.
type PurchaseConfirmedMessage struct {
	PurchaseID int64   `json:"purchase_id"`
	Email      string  `json:"email"`
	ItemName   string  `json:"item_name"`
	ItemPrice  float64 `json:"item_price"`
}

// RsvpReservedMessage уведомление о забронированном месте на событии.
type RsvpReservedMessage struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	EventID     int    `json:"event_id"`
	EventName   string `json:"event_name"`
	EventDate   string `json:"event_date"`
	EventTime   string `json:"event_time"`
	EventVenue  string `json:"event_venue"`
}
