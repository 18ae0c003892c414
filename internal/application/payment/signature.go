package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// SignatureHeader carries the webhook HMAC: "X-Webhook-Signature: sha256=<hex>".
// The signature covers the raw request body bytes exactly as received, and the
// hex encoding is the wire contract.
const SignatureHeader = "X-Webhook-Signature"

const signaturePrefix = "sha256="

var (
	ErrMissingSignature = errors.New("payment: missing webhook signature")
	ErrInvalidSignature = errors.New("payment: invalid webhook signature")
	ErrInvalidPayload   = errors.New("payment: invalid webhook payload")
)

// Sign computes the signature header value for a payload. Used by clients and
// tests; the processor only verifies.
func Sign(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the HMAC-SHA256 of the raw payload against the header
// value using a constant-time comparison. A header without the sha256= prefix
// fails immediately.
func VerifySignature(secret, payload []byte, header string) error {
	if header == "" {
		return ErrMissingSignature
	}
	if !strings.HasPrefix(header, signaturePrefix) {
		return ErrInvalidSignature
	}
	provided := strings.TrimPrefix(header, signaturePrefix)

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return ErrInvalidSignature
	}
	return nil
}
