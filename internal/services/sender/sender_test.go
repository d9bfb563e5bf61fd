package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/mail"
	"github.com/magabrotheeeer/coffeehouse/internal/rabbitmq"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSenderService_SendPurchaseConfirmed(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockMailer)
		expectedError bool
		permanent     bool
		errorMessage  string
	}{
		{
			name: "success",
			body: []byte(`{"purchase_id":7,"email":"ann@example.com","item_name":"Vinyl <LE>","item_price":34.99}`),
			setupMocks: func(m *MockMailer) {
				m.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
					return msg.To == "ann@example.com" &&
						strings.Contains(msg.HTML, "Vinyl &lt;LE&gt;") &&
						strings.Contains(msg.HTML, "$34.99") &&
						strings.Contains(msg.HTML, "#7")
				})).Return(nil).Once()
			},
		},
		{
			name:          "invalid JSON",
			body:          []byte(`invalid json`),
			setupMocks:    func(_ *MockMailer) {},
			expectedError: true,
			permanent:     true,
			errorMessage:  "error unmarshalling message",
		},
		{
			name: "mailer error is returned for requeue",
			body: []byte(`{"purchase_id":7,"email":"ann@example.com","item_name":"Vinyl","item_price":1}`),
			setupMocks: func(m *MockMailer) {
				m.On("Send", mock.Anything, mock.Anything).Return(errors.New("resend down")).Once()
			},
			expectedError: true,
			errorMessage:  "resend down",
		},
		{
			name:       "no recipient is skipped",
			body:       []byte(`{"purchase_id":7,"item_name":"Vinyl","item_price":1}`),
			setupMocks: func(_ *MockMailer) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := new(MockMailer)
			tt.setupMocks(mailer)
			service := NewSenderService(newNoopLogger(), mailer)

			err := service.SendPurchaseConfirmed(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
				assert.Equal(t, tt.permanent, errors.Is(err, rabbitmq.ErrPermanent))
			} else {
				assert.NoError(t, err)
			}
			mailer.AssertExpectations(t)
		})
	}
}

func TestSenderService_SendRsvpReserved(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockMailer)
		expectedError bool
	}{
		{
			name: "success",
			body: []byte(`{"email":"ann@example.com","display_name":"Ann","event_id":3,"event_name":"The Wood Brothers",` +
				`"event_date":"2025-05-01","event_time":"8:00 PM","event_venue":"Iron City"}`),
			setupMocks: func(m *MockMailer) {
				m.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
					return msg.To == "ann@example.com" &&
						msg.Subject == "You're on the list: The Wood Brothers" &&
						strings.Contains(msg.HTML, "Hi Ann") &&
						strings.Contains(msg.HTML, "Iron City")
				})).Return(nil).Once()
			},
		},
		{
			name: "anonymous greeting",
			body: []byte(`{"email":"ann@example.com","event_name":"Show"}`),
			setupMocks: func(m *MockMailer) {
				m.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
					return strings.Contains(msg.HTML, "Hi there")
				})).Return(nil).Once()
			},
		},
		{
			name:          "invalid JSON",
			body:          []byte(`{`),
			setupMocks:    func(_ *MockMailer) {},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := new(MockMailer)
			tt.setupMocks(mailer)
			service := NewSenderService(newNoopLogger(), mailer)

			err := service.SendRsvpReserved(tt.body)
			if tt.expectedError {
				assert.ErrorIs(t, err, rabbitmq.ErrPermanent)
			} else {
				assert.NoError(t, err)
			}
			mailer.AssertExpectations(t)
		})
	}
}
