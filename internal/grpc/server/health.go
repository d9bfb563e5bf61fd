// Package server реализует gRPC-сервер проверки здоровья.
//
// HealthServer периодически проверяет зависимости (Postgres, Redis) и
// публикует их состояние через стандартный сервис grpc.health.v1.
// Общий статус (пустое имя сервиса) SERVING только когда живы все зависимости.
package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
)

const probeTimeout = 2 * time.Second

// Checker зависимость, доступность которой проверяется.
type Checker interface {
	Ping(ctx context.Context) error
}

// HealthServer публикует состояние зависимостей.
type HealthServer struct {
	health   *health.Server
	checks   map[string]Checker
	interval time.Duration
	log      *slog.Logger
}

// NewHealthServer создаёт сервер здоровья. До первого Probe все сервисы NOT_SERVING.
func NewHealthServer(checks map[string]Checker, interval time.Duration, logger *slog.Logger) *HealthServer {
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	for name := range checks {
		h.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return &HealthServer{
		health:   h,
		checks:   checks,
		interval: interval,
		log:      logger,
	}
}

// Register регистрирует сервис здоровья на gRPC-сервере.
func (s *HealthServer) Register(g *grpc.Server) {
	healthpb.RegisterHealthServer(g, s.health)
}

// Probe проверяет все зависимости и обновляет статусы. Возвращает общий результат.
func (s *HealthServer) Probe(ctx context.Context) bool {
	allOK := true
	for name, check := range s.checks {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := check.Ping(probeCtx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			s.log.Warn("dependency is not healthy", slog.String("dependency", name), sl.Err(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
			allOK = false
		}
		s.health.SetServingStatus(name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !allOK {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)
	return allOK
}

// Run проверяет зависимости с заданным интервалом до отмены ctx.
func (s *HealthServer) Run(ctx context.Context) {
	s.Probe(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Probe(ctx)
		case <-ctx.Done():
			s.health.Shutdown()
			return
		}
	}
}
