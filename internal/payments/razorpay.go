package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

// ErrMissingCredentials indicates that the client was configured without API keys.
var ErrMissingCredentials = errors.New("razorpay: key id and secret are required")

// Options configures the Razorpay client.
type Options struct {
	KeyID          string
	KeySecret      string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Razorpay orders and payments API and
// implements domain.PaymentGateway.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type orderRequestBody struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponseBody struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type paymentResponseBody struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
	Status  string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	keyID := strings.TrimSpace(opts.KeyID)
	keySecret := strings.TrimSpace(opts.KeySecret)
	if keyID == "" || keySecret == "" {
		return nil, ErrMissingCredentials
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CreateOrder registers a provisional order at the gateway and returns its handle.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.PaymentOrder, error) {
	if req.AmountPaise <= 0 {
		return nil, errors.New("razorpay: order amount must be positive")
	}
	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = "INR"
	}
	body, err := json.Marshal(orderRequestBody{
		Amount:   req.AmountPaise,
		Currency: currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("razorpay: encode order request: %w", err)
	}
	var decoded orderResponseBody
	if err := c.do(ctx, http.MethodPost, "/orders", body, &decoded); err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("order_id", decoded.ID).
		Int64("amount", decoded.Amount).
		Str("receipt", decoded.Receipt).
		Msg("razorpay: order created")
	return &domain.PaymentOrder{
		ID:          decoded.ID,
		AmountPaise: decoded.Amount,
		Currency:    decoded.Currency,
	}, nil
}

// FetchPayment retrieves the gateway's authoritative record of a payment.
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, errors.New("razorpay: payment id is required")
	}
	var decoded paymentResponseBody
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentID), nil, &decoded); err != nil {
		return nil, err
	}
	return &domain.Payment{
		ID:          decoded.ID,
		OrderID:     decoded.OrderID,
		Status:      decoded.Status,
		AmountPaise: decoded.Amount,
	}, nil
}

// VerifySignature recomputes the checkout callback signature over
// orderID + "|" + paymentID and compares it in constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.keySecret)
}

// VerifySignature checks a gateway callback signature against the shared secret.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	expected := SignPayment(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignPayment computes the hex HMAC-SHA256 digest the gateway asserts for a
// completed checkout.
func SignPayment(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("razorpay: build request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("razorpay: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("razorpay: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var detail errorResponse
		diag := strings.TrimSpace(string(raw))
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Description != "" {
			diag = detail.Error.Description
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("razorpay: %s: %w", diag, domain.ErrGatewayAuth)
		}
		return fmt.Errorf("razorpay: status %d: %s", resp.StatusCode, diag)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("razorpay: decode response: %w", err)
	}
	return nil
}
