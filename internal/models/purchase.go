package models

import "time"

// Тип покупателя.
const (
	UserTypeSubscriber    = "subscriber"
	UserTypeNonSubscriber = "non_subscriber"
)

// Статус оплаты покупки.
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusConfirmed = "confirmed"
)

// Purchase запись о покупке мерча.
// ID назначается хранилищем и должен существовать до запроса ссылки на оплату.
type Purchase struct {
	ID            int64      `json:"id"`
	UserEmail     *string    `json:"user_email,omitempty"`
	UserType      string     `json:"user_type"`
	ItemID        int        `json:"item_id"`
	ItemName      string     `json:"item_name"`
	ItemPrice     float64    `json:"item_price"`
	PaymentStatus string     `json:"payment_status"`
	SubscriberID  *int64     `json:"subscriber_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
}

// Checkout результат запуска оплаты: id покупки и адрес для перехода.
type Checkout struct {
	PurchaseID  int64  `json:"purchase_id"`
	RedirectURL string `json:"url"`
}
