package yookassa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MikeRez0/cashhealer/internal/adapter/config"
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

const (
	mockPrefix  = "mock_"
	mockPayBase = "https://mock-payment.example.com/pay/"
)

// Client talks to the YooKassa v3 payments API. In mock mode no request is
// made and every payment reports as paid.
type Client struct {
	logger    *zap.Logger
	http      *http.Client
	baseURL   string
	shopID    string
	secretKey string
	returnURL string
	test      bool
	mock      bool
}

func NewClient(cfg *config.YooKassa, log *zap.Logger) (*Client, error) {
	if !cfg.Mock && (cfg.ShopID == "" || cfg.SecretKey == "") {
		return nil, fmt.Errorf("%w: yookassa credentials not configured", domain.ErrPaymentGateway)
	}
	return &Client{
		logger:    log,
		http:      &http.Client{Timeout: cfg.Timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		shopID:    cfg.ShopID,
		secretKey: cfg.SecretKey,
		returnURL: cfg.ReturnURL,
		test:      cfg.Test,
		mock:      cfg.Mock,
	}, nil
}

type amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type paymentRequest struct {
	Amount       amount       `json:"amount"`
	Confirmation confirmation `json:"confirmation"`
	Capture      bool         `json:"capture"`
	Description  string       `json:"description"`
	Test         bool         `json:"test,omitempty"`
}

type paymentResponse struct {
	ID           string       `json:"id"`
	Status       string       `json:"status"`
	Paid         bool         `json:"paid"`
	Amount       amount       `json:"amount"`
	Confirmation confirmation `json:"confirmation"`
}

// CreatePayment registers a redirect payment for amount kopecks.
func (c *Client) CreatePayment(ctx context.Context, amountMinor int64,
	description string) (*domain.GatewayPayment, error) {
	if c.mock {
		id := mockPrefix + uuid.NewString()
		c.logger.Info("Mock payment created", zap.String("payment", id), zap.Int64("amount", amountMinor))
		return &domain.GatewayPayment{
			ID:         id,
			PaymentURL: mockPayBase + id,
			Status:     domain.PaymentStatusPending,
			Amount:     amountMinor,
		}, nil
	}

	value, err := decimal.New(amountMinor, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %d: %v", domain.ErrPaymentGateway, amountMinor, err)
	}
	body, err := json.Marshal(paymentRequest{
		Amount:       amount{Value: value.String(), Currency: string(domain.CurrencyRUB)},
		Confirmation: confirmation{Type: "redirect", ReturnURL: c.returnURL},
		Capture:      true,
		Description:  description,
		Test:         c.test,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrPaymentGateway, err)
	}

	var resp paymentResponse
	if err = c.do(ctx, http.MethodPost, "/payments", body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" || resp.Confirmation.ConfirmationURL == "" {
		return nil, fmt.Errorf("%w: payment without id or confirmation url", domain.ErrPaymentGateway)
	}
	c.logger.Info("Payment created", zap.String("payment", resp.ID), zap.String("status", resp.Status))
	return toGatewayPayment(resp)
}

func (c *Client) CheckPayment(ctx context.Context, gatewayPaymentID string) (*domain.GatewayPayment, error) {
	if c.mock {
		c.logger.Info("Mock payment checked", zap.String("payment", gatewayPaymentID))
		return &domain.GatewayPayment{
			ID:     gatewayPaymentID,
			Status: domain.PaymentStatusSucceeded,
			Paid:   true,
		}, nil
	}

	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(gatewayPaymentID), nil, &resp); err != nil {
		return nil, err
	}
	return toGatewayPayment(resp)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: error on %s: %v", domain.ErrPaymentGateway, path, err)
	}
	req.SetBasicAuth(c.shopID, c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Idempotence-Key", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request %s: %v", domain.ErrPaymentGateway, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Unexpected YooKassa response",
			zap.String("path", path), zap.Int("status", resp.StatusCode), zap.ByteString("body", text))
		return fmt.Errorf("%w: bad response %d for %s", domain.ErrPaymentGateway, resp.StatusCode, path)
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: error on response decode: %v", domain.ErrPaymentGateway, err)
	}
	return nil
}

func toGatewayPayment(resp paymentResponse) (*domain.GatewayPayment, error) {
	status := domain.PaymentStatus(resp.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", domain.ErrPaymentGateway, resp.Status)
	}
	minor, err := minorUnits(resp.Amount.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q: %v", domain.ErrPaymentGateway, resp.Amount.Value, err)
	}
	return &domain.GatewayPayment{
		ID:         resp.ID,
		PaymentURL: resp.Confirmation.ConfirmationURL,
		Status:     status,
		Paid:       resp.Paid,
		Amount:     minor,
	}, nil
}

// minorUnits converts "450.00" to 45000.
func minorUnits(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	d, err := decimal.Parse(value)
	if err != nil {
		return 0, err
	}
	d, err = d.Mul(decimal.Hundred)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(d.Round(0).String(), 10, 64)
}
