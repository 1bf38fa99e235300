package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestFingerprintEventIDTakesPriority(t *testing.T) {
	payload := decodePayload(t, `{"event_id":"evt-123","data":{"id":"r1","updated_at":"2026-01-05T10:00:00Z"}}`)
	assert.Equal(t, "evt-123", Fingerprint(payload))
}

func TestFingerprintNumericEventID(t *testing.T) {
	payload := decodePayload(t, `{"event_id":42}`)
	assert.Equal(t, "42", Fingerprint(payload))
}

func TestFingerprintDataIdentity(t *testing.T) {
	payload := decodePayload(t, `{"data":{"id":"r1","updated_at":"2026-01-05T10:00:00Z","total_bruto":500}}`)

	sum := sha256.Sum256([]byte("r1-2026-01-05T10:00:00Z"))
	assert.Equal(t, hex.EncodeToString(sum[:]), Fingerprint(payload))
}

func TestFingerprintDataIdentityIgnoresOtherFields(t *testing.T) {
	a := decodePayload(t, `{"data":{"id":"r1","updated_at":"2026-01-05T10:00:00Z","canal":"airbnb"}}`)
	b := decodePayload(t, `{"data":{"id":"r1","updated_at":"2026-01-05T10:00:00Z","canal":"booking"}}`)

	assert.Equal(t, Fingerprint(a), Fingerprint(b),
		"same entity version must dedupe regardless of surrounding fields")
}

func TestFingerprintCanonicalFallbackIsKeyOrderIndependent(t *testing.T) {
	a := decodePayload(t, `{"type":"listing.updated","payload":{"x":1,"y":2}}`)
	b := decodePayload(t, `{"payload":{"y":2,"x":1},"type":"listing.updated"}`)

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintDiffersOnAnyContentChange(t *testing.T) {
	a := decodePayload(t, `{"type":"listing.updated","payload":{"x":1}}`)
	b := decodePayload(t, `{"type":"listing.updated","payload":{"x":2}}`)

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintDeterministic(t *testing.T) {
	payload := decodePayload(t, `{"a":{"b":{"c":[1,2,3]}},"d":true}`)

	first := Fingerprint(payload)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Fingerprint(payload))
	}
}

func TestFingerprintPartialDataIdentityFallsBack(t *testing.T) {
	// An id without updated_at cannot identify a version; the canonical
	// hash takes over.
	payload := decodePayload(t, `{"data":{"id":"r1"}}`)

	sum := sha256.Sum256([]byte(canonicalJSON(payload)))
	assert.Equal(t, hex.EncodeToString(sum[:]), Fingerprint(payload))
}
