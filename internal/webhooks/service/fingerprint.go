package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint derives the dedupe key for one webhook payload.
//
// Priority order:
//  1. an explicit top-level "event_id" is trusted as-is;
//  2. otherwise "data.id" + "data.updated_at" identify one version of one
//     entity and are hashed together;
//  3. otherwise the whole payload is re-serialized canonically (map keys
//     sorted at every level) and hashed, so byte-level noise like key order
//     or whitespace does not defeat deduplication.
func Fingerprint(payload map[string]any) string {
	if id, ok := scalarField(payload, "event_id"); ok {
		return id
	}

	if data, ok := payload["data"].(map[string]any); ok {
		id, okID := scalarField(data, "id")
		updatedAt, okUpd := scalarField(data, "updated_at")
		if okID && okUpd {
			return sha256Hex(id + "-" + updatedAt)
		}
	}

	return sha256Hex(canonicalJSON(payload))
}

// canonicalJSON re-serializes a decoded payload. encoding/json writes map
// keys in sorted order at every nesting level, which makes the output a
// stable function of the payload's content.
func canonicalJSON(payload map[string]any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		// A payload that survived json.Unmarshal cannot fail to marshal;
		// fall back to the fmt rendering rather than panic.
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}

func scalarField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	switch v.(type) {
	case string, float64, bool, json.Number:
		return fmt.Sprint(v), true
	}
	return "", false
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
