package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/domain"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/ports"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/ports/mocks"
	"github.com/yoga-nditya/ALO-MONTIR-API/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) (*gin.Engine, *mocks.MockTopUpService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTopUpService(ctrl)
	r := SetupRouter(RouterDeps{
		TopUpSvc: svc,
		Logger:   zerolog.Nop(),
	})
	return r, svc
}

func doJSON(r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleTopUp(status domain.TopUpStatus) *domain.TopUp {
	token := "snap-token"
	return &domain.TopUp{
		UserID:        42,
		OrderID:       "TOPUP-42-1700000000-abcdef",
		Amount:        50000,
		PaymentMethod: domain.PaymentMethodGoPay,
		Status:        status,
		SnapToken:     &token,
		CreatedAt:     time.Now(),
	}
}

func TestCreateTopUp_Success(t *testing.T) {
	r, svc := setupRouter(t)

	svc.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.CreateTopUpRequest) (*domain.TopUp, error) {
			assert.Equal(t, int64(42), req.UserID)
			assert.Equal(t, int64(50000), req.Amount)
			assert.Equal(t, domain.PaymentMethodGoPay, req.PaymentMethod)
			assert.NotEmpty(t, req.ClientIP)
			return sampleTopUp(domain.TopUpStatusPending), nil
		})

	w := doJSON(r, http.MethodPost, "/api/v1/topups", gin.H{
		"user_id":        42,
		"amount":         50000,
		"payment_method": "GoPay",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Data struct {
			OrderID         string `json:"order_id"`
			FormattedAmount string `json:"formatted_amount"`
			StatusText      string `json:"status_text"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "TOPUP-42-1700000000-abcdef", body.Data.OrderID)
	assert.Equal(t, "Rp 50.000", body.Data.FormattedAmount)
	assert.Equal(t, "Pending", body.Data.StatusText)
}

func TestCreateTopUp_MissingFields(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/topups", gin.H{"amount": 50000})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_001")
}

func TestCreateTopUp_AmountRejected(t *testing.T) {
	r, svc := setupRouter(t)

	svc.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInvalidAmount(domain.MinTopUpAmount, domain.MaxTopUpAmount))

	w := doJSON(r, http.MethodPost, "/api/v1/topups", gin.H{
		"user_id":        42,
		"amount":         500,
		"payment_method": "GoPay",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_002")
}

func TestHandleNotification_Settled(t *testing.T) {
	r, svc := setupRouter(t)

	svc.EXPECT().
		HandleNotification(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n ports.GatewayNotification) (*ports.ReconcileResult, error) {
			assert.Equal(t, "TOPUP-42-1700000000-abcdef", n.OrderID)
			assert.Equal(t, "settlement", n.TransactionStatus)
			assert.Equal(t, "sig", n.SignatureKey)
			return &ports.ReconcileResult{TopUp: sampleTopUp(domain.TopUpStatusSuccess), Transitioned: true}, nil
		})

	w := doJSON(r, http.MethodPost, "/api/v1/topups/notification", gin.H{
		"order_id":           "TOPUP-42-1700000000-abcdef",
		"transaction_status": "settlement",
		"payment_type":       "gopay",
		"gross_amount":       "50000.00",
		"signature_key":      "sig",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Notification processed")
}

func TestHandleNotification_AlreadyProcessed(t *testing.T) {
	r, svc := setupRouter(t)

	svc.EXPECT().
		HandleNotification(gomock.Any(), gomock.Any()).
		Return(&ports.ReconcileResult{TopUp: sampleTopUp(domain.TopUpStatusSuccess), AlreadyProcessed: true}, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/topups/notification", gin.H{
		"order_id":           "TOPUP-42-1700000000-abcdef",
		"transaction_status": "settlement",
		"gross_amount":       "50000.00",
		"signature_key":      "sig",
	})

	// Replays must be acknowledged, not errored, or the gateway keeps retrying
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Already processed")
}

func TestHandleNotification_InvalidSignature(t *testing.T) {
	r, svc := setupRouter(t)

	svc.EXPECT().
		HandleNotification(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInvalidSignature())

	w := doJSON(r, http.MethodPost, "/api/v1/topups/notification", gin.H{
		"order_id":           "TOPUP-42-1700000000-abcdef",
		"transaction_status": "settlement",
		"gross_amount":       "50000.00",
		"signature_key":      "bad",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_001")
}

func TestHandleNotification_MissingSignature(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/topups/notification", gin.H{
		"order_id":           "TOPUP-42-1700000000-abcdef",
		"transaction_status": "settlement",
		"gross_amount":       "50000.00",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckStatus_Success(t *testing.T) {
	r, svc := setupRouter(t)

	svc.EXPECT().
		CheckStatus(gomock.Any(), "TOPUP-42-1700000000-abcdef").
		Return(sampleTopUp(domain.TopUpStatusSuccess), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/topups/status?order_id=TOPUP-42-1700000000-abcdef", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
}

func TestCheckStatus_MissingOrderID(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/topups/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckStatus_NotFound(t *testing.T) {
	r, svc := setupRouter(t)

	svc.EXPECT().
		CheckStatus(gomock.Any(), "TOPUP-0-0-zz").
		Return(nil, apperror.ErrNotFound("Top up"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/topups/status?order_id=TOPUP-0-0-zz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "TOP_001")
}

func TestGetBalance_Success(t *testing.T) {
	r, svc := setupRouter(t)

	svc.EXPECT().GetBalance(gomock.Any(), int64(42)).Return(int64(125000), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/balance?user_id=42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"formatted_saldo":"Rp 125.000"`)
}

func TestGetBalance_InvalidUserID(t *testing.T) {
	r, _ := setupRouter(t)

	for _, q := range []string{"", "abc", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/balance?user_id="+q, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "user_id=%q", q)
	}
}

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Ping(context.Context) error { return f.err }
func (f fakeChecker) Name() string               { return f.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := SetupRouter(RouterDeps{
		TopUpSvc: mocks.NewMockTopUpService(ctrl),
		HealthCheckers: []ports.HealthChecker{
			fakeChecker{name: "postgresql"},
			fakeChecker{name: "redis"},
		},
		Logger: zerolog.Nop(),
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := SetupRouter(RouterDeps{
		TopUpSvc: mocks.NewMockTopUpService(ctrl),
		HealthCheckers: []ports.HealthChecker{
			fakeChecker{name: "postgresql"},
			fakeChecker{name: "redis", err: errors.New("connection refused")},
		},
		Logger: zerolog.Nop(),
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
