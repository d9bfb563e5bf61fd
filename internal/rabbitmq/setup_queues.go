package rabbitmq

// Exchange имя direct exchange для уведомлений.
const Exchange = "notifications"

// Ключи маршрутизации уведомлений.
const (
	RoutingPurchaseConfirmed = "purchase.confirmed"
	RoutingRsvpReserved      = "rsvp.reserved"
)

// QueueConfig описывает очередь и ключ, которым она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues очереди, которые читает отправитель писем.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.purchase_confirmed", RoutingKey: RoutingPurchaseConfirmed},
		{QueueName: "notifications.rsvp_reserved", RoutingKey: RoutingRsvpReserved},
	}
}
