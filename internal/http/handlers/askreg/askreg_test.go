package askreg

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coffeehouse/internal/http/middlewarectx"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Ask(ctx context.Context, sess models.Session, q models.Question) (int64, error) {
	args := m.Called(ctx, sess, q)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var member = models.NewSession("Reg", "reg@example.com", "")

func withSession(r *http.Request) *http.Request {
	return r.WithContext(middlewarectx.WithSession(r.Context(), "sid-1", member))
}

func TestForm(t *testing.T) {
	rec := httptest.NewRecorder()
	New(newNoopLogger(), new(MockService)).Form(rec, withSession(httptest.NewRequest(http.MethodGet, "/ask-reg", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Reg","email":"reg@example.com","types":["question","artist","interview"]}`, rec.Body.String())
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "question saved",
			body: `{"type":"question","content":"What's brewing?"}`,
			setupMock: func(m *MockService) {
				m.On("Ask", mock.Anything, member, models.Question{Type: "question", Content: "What's brewing?"}).
					Return(int64(5), nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":5}`,
		},
		{
			name: "artist without name",
			body: `{"type":"artist","content":"Check them out"}`,
			setupMock: func(m *MockService) {
				m.On("Ask", mock.Anything, member, models.Question{Type: "artist", Content: "Check them out"}).
					Return(int64(0), apperr.Validation("questions.Ask", "artist name is required")).Once()
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"status":"Error","error":"artist name is required"}`,
		},
		{
			name:       "invalid JSON",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"Error","error":"invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			rec := httptest.NewRecorder()
			req := withSession(httptest.NewRequest(http.MethodPost, "/ask-reg", bytes.NewBufferString(tt.body)))
			New(newNoopLogger(), svc).Submit(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
