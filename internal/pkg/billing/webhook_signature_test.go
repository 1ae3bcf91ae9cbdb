package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"userId":1}`)
	secret := "whsec_test"
	sig := signPayload(payload, secret)

	if !VerifyWebhookSignature(payload, sig, secret) {
		t.Fatalf("valid signature should verify")
	}
	if VerifyWebhookSignature(payload, sig, "other_secret") {
		t.Fatalf("signature with wrong secret should not verify")
	}
	if VerifyWebhookSignature([]byte(`{"userId":2}`), sig, secret) {
		t.Fatalf("signature over different payload should not verify")
	}
	if VerifyWebhookSignature(payload, "", secret) {
		t.Fatalf("empty signature should not verify")
	}
	if VerifyWebhookSignature(payload, sig, "") {
		t.Fatalf("empty secret should not verify")
	}
	if VerifyWebhookSignature(payload, "not-hex", secret) {
		t.Fatalf("malformed signature should not verify")
	}
}
