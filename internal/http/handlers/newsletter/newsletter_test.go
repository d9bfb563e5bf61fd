package newsletter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Subscribe(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSubscribe(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "new subscriber",
			body: `{"email":"fan@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("Subscribe", mock.Anything, "fan@example.com").Return(false, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"already_subscribed":false}`,
		},
		{
			name: "already subscribed",
			body: `{"email":"fan@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("Subscribe", mock.Anything, "fan@example.com").Return(true, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"already_subscribed":true}`,
		},
		{
			name:       "invalid email",
			body:       `{"email":"fan"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"status":"Error","error":"field Email must be a valid email"}`,
		},
		{
			name:       "invalid JSON",
			body:       `[`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "store error",
			body: `{"email":"fan@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("Subscribe", mock.Anything, "fan@example.com").
					Return(false, apperr.Wrap(apperr.ErrStore, "newsletter.Subscribe", errors.New("down"))).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			rec := httptest.NewRecorder()
			New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/newsletter", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
