package model

import "time"

// CalendarEntry marks one listing-day as reserved or free. The pair
// (listing_id, date) is unique; upserts are last-writer-wins.
type CalendarEntry struct {
	ListingID string    `json:"listing_id" bson:"listing_id" validate:"required,min=1,max=64"`
	Date      string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Reserved  bool      `json:"reserved" bson:"reserved"`
	Source    string    `json:"source" bson:"source" validate:"omitempty,max=64"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at"`
}

// Day statuses returned by GET /calendario.
const (
	DayStatusCheckin  = "checkin"
	DayStatusCheckout = "checkout"
	DayStatusOccupied = "ocupado"
)

type ReservaDoDia struct {
	ID         string  `json:"id"`
	Hospede    string  `json:"hospede"`
	Status     string  `json:"status"`
	TotalBruto float64 `json:"total_bruto"`
}

type DiaCalendario struct {
	Dia      int            `json:"dia"`
	Data     string         `json:"data"`
	Reservas []ReservaDoDia `json:"reservas"`
}

type Ocupacao struct {
	DiasOcupados int     `json:"dias_ocupados"`
	DiasTotais   int     `json:"dias_totais"`
	TaxaOcupacao float64 `json:"taxa_ocupacao"`
	DiasLivres   int     `json:"dias_livres"`
}

// CalendarioResponse mirrors the wire format of GET /calendario.
type CalendarioResponse struct {
	Mes      string          `json:"mes"`
	Dias     []DiaCalendario `json:"dias"`
	Ocupacao Ocupacao        `json:"ocupacao"`
}

// Unidade is one active listing, as returned by GET /unidades.
type Unidade struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}
