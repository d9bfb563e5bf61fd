package mail

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coffeehouse/internal/config"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTransport(t *testing.T, handler http.HandlerFunc) *Transport {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tr, err := NewTransport(config.Mail{
		ResendAPIKey: "re_test",
		FromEmail:    "noreply@regs.example.com",
		FromName:     "Reg's Coffee House",
	}, newNoopLogger())
	require.NoError(t, err)

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	tr.client.BaseURL = base
	return tr
}

func TestNewTransport_NoKey(t *testing.T) {
	tr, err := NewTransport(config.Mail{}, newNoopLogger())
	assert.Nil(t, tr)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestTransport_Send(t *testing.T) {
	var got map[string]any
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/emails"))
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-1"}`))
	})

	err := tr.Send(context.Background(), Message{To: "ann@example.com", Subject: "Hi", HTML: "<p>Hi</p>"})
	require.NoError(t, err)

	assert.Equal(t, "Reg's Coffee House <noreply@regs.example.com>", got["from"])
	assert.Equal(t, []any{"ann@example.com"}, got["to"])
	assert.Equal(t, "Hi", got["subject"])
	assert.Equal(t, "<p>Hi</p>", got["html"])
}

func TestTransport_SendAPIError(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"bad from"}`))
	})

	err := tr.Send(context.Background(), Message{To: "ann@example.com", Subject: "Hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail.Send")
}

func TestTransport_SendCanceled(t *testing.T) {
	tr := newTestTransport(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("request must not be sent")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tr.Send(ctx, Message{To: "ann@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}
