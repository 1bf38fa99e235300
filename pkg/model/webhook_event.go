package model

import "time"

// WebhookEvent is the append-only idempotency record for one inbound
// delivery. Fingerprint carries a unique index; the raw payload is kept
// verbatim for replay and debugging and is never parsed again after intake.
type WebhookEvent struct {
	Fingerprint string    `json:"fingerprint" bson:"fingerprint"`
	ReceivedAt  time.Time `json:"received_at" bson:"received_at"`
	Raw         string    `json:"raw" bson:"raw"`
}

// WebhookAck is the wire format of POST /webhooks/stays.
type WebhookAck struct {
	OK        bool `json:"ok"`
	Duplicate bool `json:"duplicate"`
}
