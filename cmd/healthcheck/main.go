// Команда healthcheck опрашивает gRPC health сервиса и завершается с кодом 0, если он обслуживает запросы.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/magabrotheeeer/coffeehouse/internal/grpc/client"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
)

func main() {
	addr := flag.String("addr", "localhost:9090", "адрес gRPC health сервера")
	service := flag.String("service", "", "имя проверяемой зависимости, пусто для сервиса целиком")
	timeout := flag.Duration("timeout", 3*time.Second, "таймаут проверки")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	c, err := client.NewHealthClient(*addr)
	if err != nil {
		logger.Error("failed to create health client", sl.Err(err))
		os.Exit(1)
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	ok, err := c.Check(ctx, *service)
	if err != nil {
		logger.Error("health check failed", sl.Err(err))
		os.Exit(1)
	}
	if !ok {
		logger.Warn("service is not serving", slog.String("service", *service))
		os.Exit(1)
	}
	logger.Info("service is serving", slog.String("service", *service))
}
