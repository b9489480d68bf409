package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/tasting-booking-gateway/internal/availability"
)

const maxResponseBytes = 1 << 20

var ErrUnexpectedStatus = errors.New("unexpected backend status")

// StatusError carries a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Client talks to the booking backend over JSON. It does not retry.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ProviderAvailability fetches weekly availability and date overrides for a provider.
func (c *Client) ProviderAvailability(ctx context.Context, providerID string) (*ProviderAvailability, error) {
	var out ProviderAvailability
	if err := c.get(ctx, "/availability/user/"+url.PathEscape(providerID), &out); err != nil {
		return nil, fmt.Errorf("fetch provider availability: %w", err)
	}
	return &out, nil
}

// PublicSchedule fetches the public booked-slot projection for a provider.
func (c *Client) PublicSchedule(ctx context.Context, providerID string) ([]availability.BookedSlot, error) {
	var out []availability.BookedSlot
	if err := c.get(ctx, "/events/public/user/"+url.PathEscape(providerID)+"/schedule", &out); err != nil {
		return nil, fmt.Errorf("fetch public schedule: %w", err)
	}
	return out, nil
}

func (c *Client) WidgetData(ctx context.Context, serviceID string) (*WidgetData, error) {
	var out WidgetData
	if err := c.get(ctx, "/widget/service/"+url.PathEscape(serviceID), &out); err != nil {
		return nil, fmt.Errorf("fetch widget data: %w", err)
	}
	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*BookingConfirmation, error) {
	if req.PaymentMethod == "" {
		req.PaymentMethod = PaymentOnSite
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode booking: %w", err)
	}

	var out BookingConfirmation
	if err := c.do(ctx, http.MethodPost, "/bookings/widget", bytes.NewReader(body), &out); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	return c.do(ctx, http.MethodGet, path, nil, v)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, v any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if v == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return decodeEnvelope(data, v)
}

// decodeEnvelope unmarshals either a bare payload or one wrapped in {"data": ...}.
func decodeEnvelope(data []byte, v any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, v); err != nil {
			return fmt.Errorf("decode data envelope: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
