package purchase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coffeehouse/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/metrics"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

const origin = "https://regs.example.com"

type MockService struct {
	mock.Mock
}

func (m *MockService) Purchase(ctx context.Context, origin string, itemID int, sess models.Session) (models.Checkout, error) {
	args := m.Called(ctx, origin, itemID, sess)
	return args.Get(0).(models.Checkout), args.Error(1)
}

func (m *MockService) Confirm(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreate(t *testing.T) {
	member := models.NewSession("Reg", "reg@example.com", "")

	tests := []struct {
		name       string
		body       string
		session    models.Session
		setupMock  func(*MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name:    "member purchase",
			body:    `{"item_id":1}`,
			session: member,
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, origin, 1, member).
					Return(models.Checkout{PurchaseID: 42, RedirectURL: "https://pay.example.com/s/1"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"purchase_id":42,"url":"https://pay.example.com/s/1"}`,
		},
		{
			name:       "invalid JSON",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:       "missing item",
			body:       `{}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"status":"Error","error":"field ItemID is a required field"}`,
		},
		{
			name: "unknown item",
			body: `{"item_id":999}`,
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, origin, 999, models.Session{}).
					Return(models.Checkout{}, apperr.Validation("purchase.Purchase", "unknown item 999")).Once()
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"status":"Error","error":"unknown item 999"}`,
		},
		{
			name: "gateway failure",
			body: `{"item_id":2}`,
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, origin, 2, models.Session{}).
					Return(models.Checkout{}, apperr.Wrap(apperr.ErrGateway, "purchase.Purchase", errors.New("503"))).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"status":"Error","error":"payment provider error, please try again"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			h := New(newNoopLogger(), svc, origin, metrics.New())

			req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewBufferString(tt.body))
			req = req.WithContext(middlewarectx.WithSession(req.Context(), "sid-1", tt.session))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestSuccess(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setupMock  func(*MockService)
		wantStatus int
	}{
		{
			name:  "confirmed",
			query: "?id=42",
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, int64(42)).Return(nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing id",
			query:      "",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "negative id",
			query:      "?id=-3",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:  "unknown purchase",
			query: "?id=7",
			setupMock: func(m *MockService) {
				m.On("Confirm", mock.Anything, int64(7)).
					Return(apperr.Wrap(apperr.ErrStore, "purchase.Confirm", apperr.ErrNotFound)).Once()
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			h := New(newNoopLogger(), svc, origin, nil)

			rec := httptest.NewRecorder()
			h.Success(rec, httptest.NewRequest(http.MethodGet, "/purchase-success"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var body ConfirmResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, ConfirmResponse{PurchaseID: 42, Status: models.PaymentStatusConfirmed}, body)
			}
			svc.AssertExpectations(t)
		})
	}
}
