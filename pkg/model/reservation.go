package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Reservation is the persisted projection of an upstream booking. The guest
// identity is stored only as GuestHash; raw names and phone numbers never
// reach the database.
type Reservation struct {
	ID         string    `json:"id" bson:"_id" validate:"required,min=1,max=64"`
	ListingID  string    `json:"listing_id" bson:"listing_id" validate:"required,min=1,max=64"`
	Checkin    string    `json:"checkin" bson:"checkin" validate:"required,datetime=2006-01-02"`
	Checkout   string    `json:"checkout" bson:"checkout" validate:"required,datetime=2006-01-02"`
	GrossTotal float64   `json:"total_bruto" bson:"gross_total" validate:"gte=0"`
	ExtraFees  float64   `json:"taxas" bson:"extra_fees" validate:"gte=0"`
	Channel    string    `json:"canal" bson:"channel" validate:"omitempty,max=64"`
	GuestHash  string    `json:"-" bson:"guest_hash"`
	CreatedAt  time.Time `json:"created_at,omitempty" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty" bson:"updated_at"`
}

// HashGuest anonymizes guest-identifying fields before anything touches the
// database or a log line. Only the first 16 hex chars are kept; the hash is
// an opaque label, not a lookup key.
func HashGuest(name, phone string) string {
	sum := sha256.Sum256([]byte(name + phone))
	return hex.EncodeToString(sum[:])[:16]
}

// GuestDisplay is the anonymized guest label used in API responses.
func (r *Reservation) GuestDisplay() string {
	h := r.GuestHash
	if len(h) > 8 {
		h = h[:8]
	}
	return "Hóspede " + h
}

// ReservaResponse mirrors the wire format of GET /reservas.
type ReservaResponse struct {
	ID         string  `json:"id"`
	ListingID  string  `json:"listing_id"`
	Checkin    string  `json:"checkin"`
	Checkout   string  `json:"checkout"`
	TotalBruto float64 `json:"total_bruto"`
	Taxas      float64 `json:"taxas"`
	Canal      string  `json:"canal"`
	Hospede    string  `json:"hospede"`
	Telefone   *string `json:"telefone"`
}
