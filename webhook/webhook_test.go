package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureAccepts(t *testing.T) {
	body := []byte(`{"ref":"refs/heads/main","after":"abc123"}`)
	secret := "top-secret"

	assert.True(t, verifySignature(secret, body, sign(secret, body)))
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	body := []byte(`{"ref":"refs/heads/main","after":"abc123"}`)

	assert.False(t, verifySignature("top-secret", body, sign("a-different-secret", body)))
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	secret := "top-secret"
	original := []byte(`{"ref":"refs/heads/main","after":"abc123"}`)
	signature := sign(secret, original)

	tampered := []byte(`{"ref":"refs/heads/main","after":"evil"}`)
	assert.False(t, verifySignature(secret, tampered, signature))
}

func TestVerifySignatureRejectsMalformedHeader(t *testing.T) {
	body := []byte(`{}`)
	assert.False(t, verifySignature("top-secret", body, "sha256=not-hex"))
}
