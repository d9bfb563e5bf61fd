// Package paymentgateway клиент внешнего платёжного шлюза,
// создающего сессии оплаты по HTTP JSON.
package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrEmptyURL шлюз ответил без адреса страницы оплаты.
var ErrEmptyURL = errors.New("gateway returned empty url")

// Client отправляет запросы в платёжный шлюз.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент шлюза.
func NewClient(apiURL string, timeout time.Duration) *Client {
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateCheckoutSession создаёт сессию оплаты и возвращает адрес перехода.
func (c *Client) CreateCheckoutSession(ctx context.Context, reqParams CheckoutRequest) (string, error) {
	const op = "paymentgateway.CreateCheckoutSession"

	req, err := c.newRequest(ctx, http.MethodPost, reqParams)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var checkout CheckoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&checkout); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if checkout.URL == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyURL)
	}
	return checkout.URL, nil
}
