package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMapGatewayStatus(t *testing.T) {
	cases := []struct {
		transactionStatus string
		fraudStatus       string
		want              TopUpStatus
		ok                bool
	}{
		{GatewayStatusCapture, FraudStatusAccept, TopUpStatusSuccess, true},
		{GatewayStatusCapture, FraudStatusChallenge, TopUpStatusChallenge, true},
		{GatewayStatusCapture, "deny", "", false},
		{GatewayStatusCapture, "", "", false},
		{GatewayStatusSettlement, "", TopUpStatusSuccess, true},
		{GatewayStatusSettlement, FraudStatusAccept, TopUpStatusSuccess, true},
		{GatewayStatusPending, "", TopUpStatusPending, true},
		{GatewayStatusDeny, "", TopUpStatusFailed, true},
		{GatewayStatusExpire, "", TopUpStatusExpired, true},
		{GatewayStatusCancel, "", TopUpStatusCancelled, true},
		{"refund", "", "", false},
		{"", "", "", false},
	}

	for _, tc := range cases {
		got, ok := MapGatewayStatus(tc.transactionStatus, tc.fraudStatus)
		assert.Equal(t, tc.ok, ok, "status %q fraud %q", tc.transactionStatus, tc.fraudStatus)
		assert.Equal(t, tc.want, got, "status %q fraud %q", tc.transactionStatus, tc.fraudStatus)
	}
}

func TestTopUp_IsTerminal(t *testing.T) {
	terminal := []TopUpStatus{TopUpStatusSuccess, TopUpStatusFailed, TopUpStatusExpired, TopUpStatusCancelled}
	for _, s := range terminal {
		assert.True(t, (&TopUp{Status: s}).IsTerminal(), "status %s", s)
	}

	open := []TopUpStatus{TopUpStatusPending, TopUpStatusChallenge}
	for _, s := range open {
		assert.False(t, (&TopUp{Status: s}).IsTerminal(), "status %s", s)
	}
}

func TestTopUp_IsRefreshable(t *testing.T) {
	assert.True(t, (&TopUp{Status: TopUpStatusPending}).IsRefreshable())
	assert.True(t, (&TopUp{Status: TopUpStatusChallenge}).IsRefreshable())
	assert.False(t, (&TopUp{Status: TopUpStatusSuccess}).IsRefreshable())
	assert.False(t, (&TopUp{Status: TopUpStatusFailed}).IsRefreshable())
}

func TestTopUp_IsSuccessful(t *testing.T) {
	assert.True(t, (&TopUp{Status: TopUpStatusSuccess}).IsSuccessful())
	assert.False(t, (&TopUp{Status: TopUpStatusPending}).IsSuccessful())
}

func TestNewOrderID_Format(t *testing.T) {
	now := time.Unix(1700000000, 0)
	id := NewOrderID(42, now)

	assert.True(t, strings.HasPrefix(id, "TOPUP-42-1700000000-"), "got %s", id)
	// 6 random bytes hex-encoded
	suffix := strings.TrimPrefix(id, "TOPUP-42-1700000000-")
	assert.Len(t, suffix, 12)
}

func TestNewOrderID_UniqueUnderClockCollision(t *testing.T) {
	// Same user, same second: the random suffix alone must keep ids distinct
	now := time.Unix(1700000000, 0)
	seen := make(map[string]struct{}, 10_000)
	for i := 0; i < 10_000; i++ {
		id := NewOrderID(1, now)
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate order id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(MinTopUpAmount))
	assert.NoError(t, ValidateAmount(50_000))
	assert.NoError(t, ValidateAmount(MaxTopUpAmount))

	assert.Error(t, ValidateAmount(MinTopUpAmount-1))
	assert.Error(t, ValidateAmount(MaxTopUpAmount+1))
	assert.Error(t, ValidateAmount(0))
	assert.Error(t, ValidateAmount(-50_000))
}

func TestPaymentMethod_IsValid(t *testing.T) {
	for _, m := range SupportedPaymentMethods() {
		assert.True(t, m.IsValid(), "method %s", m)
	}
	assert.False(t, PaymentMethod("PayPal").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}

func TestPaymentMethod_GatewayMapping(t *testing.T) {
	cases := []struct {
		method  PaymentMethod
		gwType  string
		enabled []string
		bank    string
	}{
		{PaymentMethodBCAVA, GatewayTypeBankTransfer, []string{"bca_va"}, "bca"},
		{PaymentMethodBNIVA, GatewayTypeBankTransfer, []string{"bni_va"}, "bni"},
		{PaymentMethodBRIVA, GatewayTypeBankTransfer, []string{"bri_va"}, "bri"},
		{PaymentMethodMandiriVA, GatewayTypeEChannel, []string{"echannel"}, ""},
		{PaymentMethodGoPay, GatewayTypeGoPay, []string{"gopay"}, ""},
		{PaymentMethodShopeePay, GatewayTypeShopeePay, []string{"shopeepay"}, ""},
		{PaymentMethodQRIS, GatewayTypeQRIS, []string{"qris"}, ""},
		{PaymentMethodDana, GatewayTypeDana, []string{"dana"}, ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.gwType, tc.method.GatewayType(), "method %s", tc.method)
		assert.Equal(t, tc.enabled, tc.method.EnabledPayments(), "method %s", tc.method)
		assert.Equal(t, tc.bank, tc.method.BankCode(), "method %s", tc.method)
	}
}

func TestPaymentMethod_EnabledPaymentsSingleChannel(t *testing.T) {
	// The hosted page must only ever offer the channel the user picked
	for _, m := range SupportedPaymentMethods() {
		assert.Len(t, m.EnabledPayments(), 1, "method %s", m)
	}
}
