package midtrans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yoga-nditya/ALO-MONTIR-API/config"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/domain"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/ports"
	"github.com/yoga-nditya/ALO-MONTIR-API/pkg/apperror"

	"github.com/rs/zerolog"
)

const snapTokenPath = "/snap/v1/transactions"

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.GatewayClient against the Midtrans Snap and core
// APIs. All credentials come from the injected config; the client holds no
// package-level state.
type Client struct {
	cfg        config.MidtransConfig
	httpClient HTTPClient
	snapURL    string
	apiURL     string
	log        zerolog.Logger
}

// NewClient creates a gateway client. If httpClient is nil a default client
// bound to the configured timeout is used.
func NewClient(cfg config.MidtransConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		snapURL:    cfg.SnapBaseURL(),
		apiURL:     cfg.APIBaseURL(),
		log:        log,
	}
}

type transactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type customerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type itemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type expiry struct {
	Unit     string `json:"unit"`
	Duration int    `json:"duration"`
}

type bankTransfer struct {
	Bank string `json:"bank"`
}

type echannel struct {
	BillInfo1 string `json:"bill_info1"`
	BillInfo2 string `json:"bill_info2"`
}

type gopay struct {
	EnableCallback bool   `json:"enable_callback"`
	CallbackURL    string `json:"callback_url,omitempty"`
}

type shopeepay struct {
	CallbackURL string `json:"callback_url,omitempty"`
}

type qris struct {
	Acquirer string `json:"acquirer"`
}

type cstore struct {
	Store   string `json:"store"`
	Message string `json:"message"`
}

type snapRequest struct {
	TransactionDetails transactionDetails `json:"transaction_details"`
	CustomerDetails    customerDetails    `json:"customer_details"`
	ItemDetails        []itemDetail       `json:"item_details"`
	Expiry             *expiry            `json:"expiry,omitempty"`
	EnabledPayments    []string           `json:"enabled_payments,omitempty"`
	BankTransfer       *bankTransfer      `json:"bank_transfer,omitempty"`
	EChannel           *echannel          `json:"echannel,omitempty"`
	GoPay              *gopay             `json:"gopay,omitempty"`
	ShopeePay          *shopeepay         `json:"shopeepay,omitempty"`
	QRIS               *qris              `json:"qris,omitempty"`
	CStore             *cstore            `json:"cstore,omitempty"`
}

type snapResponse struct {
	Token         string   `json:"token"`
	RedirectURL   string   `json:"redirect_url"`
	ErrorMessages []string `json:"error_messages"`
}

type statusResponse struct {
	OrderID           string   `json:"order_id"`
	TransactionStatus string   `json:"transaction_status"`
	FraudStatus       string   `json:"fraud_status"`
	PaymentType       string   `json:"payment_type"`
	GrossAmount       string   `json:"gross_amount"`
	StatusCode        string   `json:"status_code"`
	StatusMessage     string   `json:"status_message"`
	ErrorMessages     []string `json:"error_messages"`
}

// CreateTransaction requests a Snap token for the given order. Exactly one
// payment channel is enabled so the hosted page cannot offer alternatives.
func (c *Client) CreateTransaction(ctx context.Context, req ports.SnapRequest) (*ports.SnapResult, error) {
	body := snapRequest{
		TransactionDetails: transactionDetails{
			OrderID:     req.OrderID,
			GrossAmount: req.Amount,
		},
		CustomerDetails: customerDetails{
			FirstName: req.CustomerName,
			Email:     req.CustomerEmail,
			Phone:     req.CustomerPhone,
		},
		ItemDetails: []itemDetail{
			{ID: "topup", Price: req.Amount, Quantity: 1, Name: "Top Up Balance"},
		},
		EnabledPayments: req.PaymentMethod.EnabledPayments(),
	}

	if c.cfg.Expiry > 0 {
		body.Expiry = &expiry{Unit: "minutes", Duration: int(c.cfg.Expiry / time.Minute)}
	}

	switch req.PaymentMethod.GatewayType() {
	case domain.GatewayTypeBankTransfer:
		if code := req.PaymentMethod.BankCode(); code != "" {
			body.BankTransfer = &bankTransfer{Bank: code}
		}
	case domain.GatewayTypeEChannel:
		body.EChannel = &echannel{BillInfo1: "Payment For:", BillInfo2: "Top Up Balance"}
	case domain.GatewayTypeGoPay:
		body.GoPay = &gopay{EnableCallback: true, CallbackURL: c.cfg.CallbackURL}
	case domain.GatewayTypeShopeePay:
		body.ShopeePay = &shopeepay{CallbackURL: c.cfg.CallbackURL}
	case domain.GatewayTypeQRIS:
		body.QRIS = &qris{Acquirer: c.cfg.QRISAcquirer}
	case domain.GatewayTypeCStore:
		body.CStore = &cstore{Store: c.cfg.CStoreOutlet, Message: "Top Up Balance"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal snap request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.snapURL+snapTokenPath, bytes.NewReader(payload))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("build snap request: %w", err))
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.transportError("snap token request", err)
	}
	defer resp.Body.Close()

	var snap snapResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&snap); err != nil {
		return nil, apperror.ErrGateway(fmt.Errorf("decode snap response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error().
			Int("status", resp.StatusCode).
			Strs("errors", snap.ErrorMessages).
			Str("order_id", req.OrderID).
			Msg("snap token request rejected")
		return nil, apperror.ErrGateway(fmt.Errorf("snap token request returned %d: %s", resp.StatusCode, strings.Join(snap.ErrorMessages, "; ")))
	}
	if snap.Token == "" {
		return nil, apperror.ErrGateway(errors.New("snap response missing token"))
	}

	redirectURL := snap.RedirectURL
	if redirectURL == "" {
		redirectURL = c.snapURL + "/snap/v2/vtweb/" + snap.Token
	}

	c.log.Debug().
		Str("order_id", req.OrderID).
		Str("payment_type", req.PaymentMethod.GatewayType()).
		Msg("snap token issued")

	return &ports.SnapResult{Token: snap.Token, RedirectURL: redirectURL}, nil
}

// GetStatus queries the core API for the current transaction status.
func (c *Client) GetStatus(ctx context.Context, orderID string) (*ports.GatewayStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/v2/"+orderID+"/status", nil)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("build status request: %w", err))
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.transportError("status query", err)
	}
	defer resp.Body.Close()

	var status statusResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&status); err != nil {
		return nil, apperror.ErrGateway(fmt.Errorf("decode status response: %w", err))
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.ErrNotFound("Transaction")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.ErrGateway(fmt.Errorf("status query returned %d: %s", resp.StatusCode, status.StatusMessage))
	}

	return &ports.GatewayStatus{
		OrderID:           status.OrderID,
		TransactionStatus: status.TransactionStatus,
		FraudStatus:       status.FraudStatus,
		PaymentType:       status.PaymentType,
		GrossAmount:       status.GrossAmount,
	}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	auth := base64.StdEncoding.EncodeToString([]byte(c.cfg.ServerKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func (c *Client) transportError(op string, err error) *apperror.AppError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperror.ErrGatewayTimeout(fmt.Errorf("%s: %w", op, err))
	}
	return apperror.ErrGateway(fmt.Errorf("%s: %w", op, err))
}
