package service

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatewaySignatureVerifier_Verify(t *testing.T) {
	v := NewGatewaySignatureVerifier("SB-Mid-server-secret")

	orderID := "TOPUP-42-1700000000-abcdef"
	status := "settlement"
	gross := "50000.00"

	sum := sha512.Sum512([]byte(orderID + status + gross + "SB-Mid-server-secret"))
	valid := hex.EncodeToString(sum[:])

	assert.True(t, v.Verify(orderID, status, gross, valid))
}

func TestGatewaySignatureVerifier_Verify_WrongSignature(t *testing.T) {
	v := NewGatewaySignatureVerifier("SB-Mid-server-secret")

	assert.False(t, v.Verify("TOPUP-42-1700000000-abcdef", "settlement", "50000.00", "deadbeef"))
	assert.False(t, v.Verify("TOPUP-42-1700000000-abcdef", "settlement", "50000.00", ""))
}

func TestGatewaySignatureVerifier_Verify_TamperedFields(t *testing.T) {
	v := NewGatewaySignatureVerifier("SB-Mid-server-secret")

	valid := v.Sign("TOPUP-42-1700000000-abcdef", "settlement", "50000.00")

	// Any altered field invalidates the signature.
	assert.False(t, v.Verify("TOPUP-42-1700000000-abcdef", "settlement", "99999.00", valid))
	assert.False(t, v.Verify("TOPUP-42-1700000000-abcdef", "pending", "50000.00", valid))
	assert.False(t, v.Verify("TOPUP-43-1700000000-abcdef", "settlement", "50000.00", valid))
}

func TestGatewaySignatureVerifier_Verify_WrongServerKey(t *testing.T) {
	a := NewGatewaySignatureVerifier("key-a")
	b := NewGatewaySignatureVerifier("key-b")

	sig := a.Sign("ORDER-1", "settlement", "1000.00")
	assert.True(t, a.Verify("ORDER-1", "settlement", "1000.00", sig))
	assert.False(t, b.Verify("ORDER-1", "settlement", "1000.00", sig))
}
