package middlewarectx_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

type SessionReaderMock struct {
	mock.Mock
}

func (m *SessionReaderMock) Get(ctx context.Context, sid string) models.Session {
	args := m.Called(ctx, sid)
	return args.Get(0).(models.Session)
}

type LockerMock struct {
	mock.Mock
}

func (m *LockerMock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *LockerMock) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
