package coffeehouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/coffeehouse/internal/authprovider"
	"github.com/magabrotheeeer/coffeehouse/internal/cache"
	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/grpc/server"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/askreg"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/auth"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/health"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/live"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/newsletter"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/pages"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/purchase"
	"github.com/magabrotheeeer/coffeehouse/internal/http/handlers/rsvp"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/jwt"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/livestream"
	"github.com/magabrotheeeer/coffeehouse/internal/metrics"
	"github.com/magabrotheeeer/coffeehouse/internal/migrations"
	"github.com/magabrotheeeer/coffeehouse/internal/paymentgateway"
	"github.com/magabrotheeeer/coffeehouse/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/coffeehouse/internal/services/auth"
	newsletterservice "github.com/magabrotheeeer/coffeehouse/internal/services/newsletter"
	purchaseservice "github.com/magabrotheeeer/coffeehouse/internal/services/purchase"
	questionservice "github.com/magabrotheeeer/coffeehouse/internal/services/questions"
	rsvpservice "github.com/magabrotheeeer/coffeehouse/internal/services/rsvp"
	"github.com/magabrotheeeer/coffeehouse/internal/session"
	"github.com/magabrotheeeer/coffeehouse/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// notifier общий контракт публикации уведомлений для сервисов покупок и бронирований.
type notifier interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// App основное приложение: HTTP-сайт и gRPC-проверка здоровья.
type App struct {
	server     *http.Server
	grpcServer *grpc.Server
	grpcAddr   string
	health     *server.HealthServer
	hub        *livestream.Hub
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	amqpConn   *amqp.Connection
	amqpCh     *amqp.Channel
}

// New подключает зависимости и собирает серверы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "coffeehouse.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{
		grpcAddr: cfg.AddressGRPC,
		logger:   logger,
		db:       db,
		cache:    cacheRedis,
	}

	var publisher notifier
	if cfg.RabbitMQURL != "" {
		app.amqpConn, err = rabbitmq.Connect(ctx, logger, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			app.closeStores()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.amqpCh, err = rabbitmq.SetupChannel(app.amqpConn, rabbitmq.GetNotificationQueues())
		if err != nil {
			app.closeStores()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = rabbitmq.NewPublisher(app.amqpCh, rabbitmq.Exchange)
	} else {
		logger.Warn("rabbitmq_url is empty, notifications are disabled")
	}

	provider, err := authprovider.New(ctx, cfg.OIDC)
	if err != nil {
		app.closeStores()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New()
	sessions := session.NewStore(cacheRedis, cfg.SessionTTL, logger)
	states := jwt.NewJWTMaker(cfg.StateSecret, cfg.StateTTL)
	gateway := paymentgateway.NewClient(cfg.GatewayURL, cfg.GatewayTimeout)

	authService := authservice.NewAuthService(db, provider, sessions, cfg.Timeouts)
	purchaseService := purchaseservice.NewService(db, gateway, publisher, cfg.Timeouts, logger)
	rsvpService := rsvpservice.NewRsvpService(db, publisher, cfg.Timeouts, logger)
	newsletterService := newsletterservice.NewNewsletterService(db, cfg.Timeouts)
	questionService := questionservice.NewQuestionService(db, cfg.Timeouts)

	app.hub = livestream.NewHub(logger)
	tally := livestream.NewTally(cacheRedis)

	checks := map[string]server.Checker{"postgres": db, "redis": cacheRedis}
	httpChecks := map[string]health.Checker{"postgres": db, "redis": cacheRedis}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.Session, sessions, cacheRedis, m, Handlers{
		Auth:       auth.New(logger, authService, provider, states, sessions, m, cfg.Session),
		Purchase:   purchase.New(logger, purchaseService, cfg.PublicOrigin, m),
		Rsvp:       rsvp.New(logger, rsvpService, m),
		Newsletter: newsletter.New(logger, newsletterService),
		AskReg:     askreg.New(logger, questionService),
		Pages:      pages.New(logger, rsvpService),
		Live:       live.New(logger, tally, app.hub, m, sameOrigin(cfg.PublicOrigin)),
		Health:     health.New(logger, httpChecks),
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	app.health = server.NewHealthServer(checks, cfg.HealthInterval, logger)
	app.grpcServer = grpc.NewServer()
	app.health.Register(app.grpcServer)

	return app, nil
}

// sameOrigin разрешает WebSocket-подключения только со страниц сайта.
func sameOrigin(publicOrigin string) func(r *http.Request) bool {
	allowed, err := url.Parse(publicOrigin)
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, perr := url.Parse(origin)
		if perr != nil {
			return false
		}
		if err == nil && u.Scheme == allowed.Scheme && u.Host == allowed.Host {
			return true
		}
		return u.Host == r.Host
	}
}

// Run запускает серверы и ждёт отмены ctx, затем плавно их останавливает.
func (a *App) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", a.grpcAddr)
	if err != nil {
		return fmt.Errorf("coffeehouse.Run: %w", err)
	}

	go a.hub.Run(ctx)
	go a.health.Run(ctx)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("gRPC health server listening on", slog.String("address", lis.Addr().String()))
		errCh <- a.grpcServer.Serve(lis)
	}()
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err = <-errCh:
	case <-ctx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down servers gracefully")
	shutdownErr := a.server.Shutdown(timeoutCtx)
	a.grpcServer.GracefulStop()
	a.closeStores()

	if err != nil {
		return err
	}
	return shutdownErr
}

func (a *App) closeStores() {
	if a.amqpCh != nil {
		if err := a.amqpCh.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
