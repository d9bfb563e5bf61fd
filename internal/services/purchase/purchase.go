// Package purchase запускает оплату мерча и подтверждает её по возврату со шлюза.
package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/coffeehouse/internal/catalog"
	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
	"github.com/magabrotheeeer/coffeehouse/internal/paymentgateway"
	"github.com/magabrotheeeer/coffeehouse/internal/rabbitmq"
)

// Repository хранилище покупок и подписчиков.
type Repository interface {
	CreatePurchase(ctx context.Context, p models.Purchase) (int64, error)
	ConfirmPurchase(ctx context.Context, id int64) (*models.Purchase, bool, error)
	FindSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, bool, error)
}

// Gateway создаёт сессию оплаты во внешнем шлюзе.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req paymentgateway.CheckoutRequest) (string, error)
}

// Publisher публикует уведомления.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service сценарий покупки мерча.
type Service struct {
	repo      Repository
	gateway   Gateway
	publisher Publisher
	timeouts  config.Timeouts
	log       *slog.Logger
}

// NewService создаёт сервис покупок. publisher может быть nil, тогда уведомления не отправляются.
func NewService(repo Repository, gateway Gateway, publisher Publisher, timeouts config.Timeouts, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		timeouts:  timeouts,
		log:       log,
	}
}

// CallbackURLs строит адреса возврата со шлюза. Адрес успеха содержит id покупки.
func CallbackURLs(origin string, purchaseID int64, authenticated bool) (successURL, cancelURL string) {
	origin = strings.TrimRight(origin, "/")
	q := url.Values{}
	q.Set("id", strconv.FormatInt(purchaseID, 10))
	successURL = origin + "/purchase-success?" + q.Encode()
	if authenticated {
		cancelURL = origin + "/dashboard"
	} else {
		cancelURL = origin + "/"
	}
	return successURL, cancelURL
}

// Purchase создаёт запись покупки в статусе initiated и запрашивает у шлюза адрес оплаты.
// Запись создаётся до обращения к шлюзу; при ошибке шлюза она остаётся initiated.
// Повторная попытка всегда создаёт новую запись.
func (s *Service) Purchase(ctx context.Context, origin string, itemID int, sess models.Session) (models.Checkout, error) {
	const op = "purchase.Purchase"

	item, ok := catalog.FindMerch(itemID)
	if !ok {
		return models.Checkout{}, apperr.Validation(op, fmt.Sprintf("unknown item %d", itemID))
	}

	authenticated := sess.IsAuthenticated && sess.Email != ""
	record := models.Purchase{
		UserType:      models.UserTypeNonSubscriber,
		ItemID:        item.ID,
		ItemName:      item.Name,
		ItemPrice:     item.Price,
		PaymentStatus: models.PaymentStatusInitiated,
	}
	if authenticated {
		email := sess.Email
		record.UserEmail = &email
		record.UserType = models.UserTypeSubscriber
	}

	id, err := s.createRecord(ctx, &record)
	if err != nil {
		return models.Checkout{}, apperr.Wrap(apperr.ErrStore, op, err)
	}

	successURL, cancelURL := CallbackURLs(origin, id, authenticated)
	metaEmail := "guest"
	if authenticated {
		metaEmail = sess.Email
	}
	req := paymentgateway.CheckoutRequest{
		Origin:             origin,
		Amount:             item.Price,
		ProductName:        item.Name,
		ProductDescription: item.Description,
		SuccessURL:         successURL,
		CancelURL:          cancelURL,
		Metadata:           paymentgateway.CheckoutMetadata{PurchaseID: id, UserEmail: metaEmail},
	}
	if len(item.Images) > 0 {
		req.ProductImage = item.Images[0]
	}

	gwCtx, cancel := context.WithTimeout(ctx, s.timeouts.GatewayTimeout)
	defer cancel()
	redirectURL, err := s.gateway.CreateCheckoutSession(gwCtx, req)
	if err != nil {
		return models.Checkout{}, apperr.Wrap(apperr.ErrGateway, op, err)
	}

	return models.Checkout{PurchaseID: id, RedirectURL: redirectURL}, nil
}

func (s *Service) createRecord(ctx context.Context, record *models.Purchase) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.StoreTimeout)
	defer cancel()

	if record.UserEmail != nil {
		sub, found, err := s.repo.FindSubscriberByEmail(ctx, *record.UserEmail)
		if err != nil {
			return 0, err
		}
		if found {
			record.SubscriberID = &sub.ID
		}
	}
	return s.repo.CreatePurchase(ctx, *record)
}

// Confirm переводит покупку в статус confirmed. Повторное подтверждение не ошибка.
// Уведомление публикуется только при первом переходе.
func (s *Service) Confirm(ctx context.Context, id int64) error {
	const op = "purchase.Confirm"
	if id <= 0 {
		return apperr.Validation(op, "invalid purchase id")
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeouts.StoreTimeout)
	defer cancel()
	p, changed, err := s.repo.ConfirmPurchase(storeCtx, id)
	if err != nil {
		return apperr.Wrap(apperr.ErrStore, op, err)
	}

	if changed && p.UserEmail != nil {
		s.notify(ctx, models.PurchaseConfirmedMessage{
			PurchaseID: p.ID,
			Email:      *p.UserEmail,
			ItemName:   p.ItemName,
			ItemPrice:  p.ItemPrice,
		})
	}
	return nil
}

func (s *Service) notify(ctx context.Context, msg models.PurchaseConfirmedMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingPurchaseConfirmed, msg); err != nil {
		s.log.Warn("failed to publish purchase notification",
			slog.String("op", "purchase.notify"), slog.Int64("purchase_id", msg.PurchaseID), sl.Err(err))
	}
}
