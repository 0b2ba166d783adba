package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureService_SignAndVerify(t *testing.T) {
	svc := NewHMACSignatureService()
	secret := "whsec_0123456789abcdef"
	payload := []byte(`{"event":"subscription.created","data":{"planName":"Pro"},"metadata":{"version":"1.0"}}`)

	signature := svc.Sign(secret, payload)

	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, signature)
	assert.True(t, svc.Verify(secret, payload, signature))
}

func TestHMACSignatureService_MatchesReferenceHMAC(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := []byte(`{"a":1}`)

	mac := hmac.New(sha256.New, []byte("key"))
	mac.Write(payload)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, svc.Sign("key", payload))
}

func TestHMACSignatureService_Deterministic(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := []byte("same bytes")
	assert.Equal(t, svc.Sign("k", payload), svc.Sign("k", payload))
}

func TestHMACSignatureService_ByteExact(t *testing.T) {
	svc := NewHMACSignatureService()
	// Semantically equal JSON, different bytes.
	a := svc.Sign("k", []byte(`{"a":1,"b":2}`))
	b := svc.Sign("k", []byte(`{"b":2,"a":1}`))
	assert.NotEqual(t, a, b)
}

func TestHMACSignatureService_VerifyFails_WrongKey(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := []byte("test payload")

	signature := svc.Sign("correct-key", payload)
	assert.False(t, svc.Verify("wrong-key", payload, signature))
}

func TestHMACSignatureService_VerifyFails_WrongPayload(t *testing.T) {
	svc := NewHMACSignatureService()

	signature := svc.Sign("k", []byte("original payload"))
	assert.False(t, svc.Verify("k", []byte("tampered payload"), signature))
}

func TestHMACSignatureService_VerifyFails_MissingPrefix(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := []byte("p")

	signature := svc.Sign("k", payload)
	assert.False(t, svc.Verify("k", payload, signature[len(SignaturePrefix):]))
}

func TestHMACSignatureService_EmptySecretStillSigns(t *testing.T) {
	svc := NewHMACSignatureService()
	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, svc.Sign("", []byte("p")))
}
