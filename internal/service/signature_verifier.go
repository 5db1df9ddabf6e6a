package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// GatewaySignatureVerifier implements ports.SignatureVerifier for Midtrans
// notification callbacks. The expected signature is the SHA-512 digest of
// order_id + transaction_status + gross_amount + server_key, hex-encoded.
type GatewaySignatureVerifier struct {
	serverKey string
}

// NewGatewaySignatureVerifier creates a verifier bound to a server key.
func NewGatewaySignatureVerifier(serverKey string) *GatewaySignatureVerifier {
	return &GatewaySignatureVerifier{serverKey: serverKey}
}

// Sign computes the expected notification signature.
func (v *GatewaySignatureVerifier) Sign(orderID, transactionStatus, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + transactionStatus + grossAmount + v.serverKey))
	return hex.EncodeToString(sum[:])
}

// Verify checks the supplied signature against the recomputed one.
// Uses constant-time comparison to prevent timing attacks.
func (v *GatewaySignatureVerifier) Verify(orderID, transactionStatus, grossAmount, signature string) bool {
	expected := v.Sign(orderID, transactionStatus, grossAmount)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
