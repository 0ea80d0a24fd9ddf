package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const yookassaBase = "https://api.yookassa.ru/v3"

// Gateway is the YooKassa REST client. With empty credentials it
// reports itself disabled and bookings skip the payment leg entirely.
type Gateway struct {
	shopID    string
	secretKey string
	returnURL string
	baseURL   string
	client    *http.Client
}

func NewGateway(shopID, secretKey, returnURL string) *Gateway {
	return &Gateway{
		shopID:    shopID,
		secretKey: secretKey,
		returnURL: returnURL,
		baseURL:   yookassaBase,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewGatewayWithBase is used by tests to point at a fake API.
func NewGatewayWithBase(shopID, secretKey, returnURL, baseURL string) *Gateway {
	g := NewGateway(shopID, secretKey, returnURL)
	g.baseURL = baseURL
	return g
}

func (g *Gateway) Enabled() bool {
	return g.shopID != "" && g.secretKey != ""
}

type createPaymentResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Confirmation struct {
		ConfirmationURL string `json:"confirmation_url"`
	} `json:"confirmation"`
}

// CreatePayment registers a redirect payment and returns its id and
// the confirmation URL the client is sent to. The booking id travels
// in metadata and comes back on the webhook.
func (g *Gateway) CreatePayment(ctx context.Context, bookingID int64, amount int64, description string) (string, string, error) {
	body := map[string]interface{}{
		"amount": map[string]string{
			"value":    formatAmount(amount),
			"currency": "RUB",
		},
		"capture": true,
		"confirmation": map[string]string{
			"type":       "redirect",
			"return_url": g.returnURL,
		},
		"description": description,
		"metadata": map[string]string{
			"booking_id": strconv.FormatInt(bookingID, 10),
		},
	}

	var res createPaymentResponse
	if err := g.post(ctx, "/payments", body, &res); err != nil {
		return "", "", err
	}
	return res.ID, res.Confirmation.ConfirmationURL, nil
}

// CreateRefund refunds the given amount back onto the payment.
func (g *Gateway) CreateRefund(ctx context.Context, paymentID string, amount int64) error {
	body := map[string]interface{}{
		"payment_id": paymentID,
		"amount": map[string]string{
			"value":    formatAmount(amount),
			"currency": "RUB",
		},
	}
	return g.post(ctx, "/refunds", body, &struct{}{})
}

func (g *Gateway) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.SetBasicAuth(g.shopID, g.secretKey)
	req.Header.Set("Content-Type", "application/json")
	// YooKassa deduplicates retries of the same logical request by key.
	req.Header.Set("Idempotence-Key", uuid.NewString())

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("yookassa %s: status %d: %s", path, resp.StatusCode, snippet)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// formatAmount renders minor currency units in the "123.45" form the
// API expects.
func formatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
