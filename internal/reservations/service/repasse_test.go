package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staysdash/pkg/model"
)

func singleReservation(gross, extras float64) []*model.Reservation {
	return []*model.Reservation{{
		ID:         "res-1",
		ListingID:  "apt-1",
		Checkin:    "2026-01-10",
		Checkout:   "2026-01-13",
		GrossTotal: gross,
		ExtraFees:  extras,
		GuestHash:  model.HashGuest("Maria Silva", "+5511999990000"),
	}}
}

func TestCalcularRepasseWithCleaning(t *testing.T) {
	// 500 − 75 (limpeza 15%) − 15 (taxa 3%) − 50 (comissão 10%) = 360
	resp := CalcularRepasse(singleReservation(500, 0), true, 3500)

	assert.Equal(t, 360.0, resp.RepasseEstimado)
	assert.True(t, resp.Detalhes.IncluiuLimpeza)
	assert.Equal(t, 75.0, resp.Detalhes.TotalLimpeza)
	assert.Equal(t, 15.0, resp.Detalhes.TotalTaxaAPI)
	assert.Equal(t, 50.0, resp.Detalhes.TotalComissaoAnfitriao)
	assert.Equal(t, 500.0, resp.Detalhes.TotalVendas)
	assert.Equal(t, 1, resp.Detalhes.NumeroReservas)
}

func TestCalcularRepasseWithoutCleaning(t *testing.T) {
	// 500 − 15 − 50 = 435
	resp := CalcularRepasse(singleReservation(500, 0), false, 3500)

	assert.Equal(t, 435.0, resp.RepasseEstimado)
	assert.False(t, resp.Detalhes.IncluiuLimpeza)
	assert.Equal(t, 0.0, resp.Detalhes.TotalLimpeza)
}

func TestCalcularRepasseExtraFeesSubtracted(t *testing.T) {
	resp := CalcularRepasse(singleReservation(500, 30), false, 3500)

	assert.Equal(t, 405.0, resp.RepasseEstimado)
	assert.Equal(t, 30.0, resp.Detalhes.TotalTaxasExtras)
}

func TestCalcularRepassePerReservationBreakdown(t *testing.T) {
	resp := CalcularRepasse(singleReservation(500, 0), true, 3500)

	require.Len(t, resp.Detalhes.Reservas, 1)
	linha := resp.Detalhes.Reservas[0]
	assert.Equal(t, "res-1", linha.ID)
	assert.Equal(t, 500.0, linha.ValorBruto)
	assert.Equal(t, 75.0, linha.TaxaLimpeza)
	assert.Equal(t, 15.0, linha.TaxaAPI)
	assert.Equal(t, 50.0, linha.ComissaoAnfitriao)
	assert.Equal(t, 360.0, linha.RepasseLiquido)
	assert.NotContains(t, linha.Hospede, "Maria", "guest names never leave the service")
	assert.Contains(t, linha.Hospede, "Hóspede ")
}

func TestCalcularRepasseEmptyMonth(t *testing.T) {
	resp := CalcularRepasse(nil, true, 3500)

	assert.Equal(t, 0.0, resp.RepasseEstimado)
	assert.Equal(t, 0, resp.Detalhes.NumeroReservas)
	assert.Equal(t, "início do período", resp.Status)
	assert.NotNil(t, resp.Detalhes.Reservas)
}

func TestMetaStatusTiers(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  string
	}{
		{"at meta", 3500, "meta batida"},
		{"above meta", 4200, "meta batida"},
		{"eighty percent", 2800, "próximo da meta"},
		{"between half and eighty", 2000, "em progresso"},
		{"exactly half", 1750, "em progresso"},
		{"below half", 1000, "início do período"},
		{"zero", 0, "início do período"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, metaStatus(tt.total, 3500))
		})
	}
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 360.0, roundCents(360.00000000001))
	assert.Equal(t, 123.46, roundCents(123.456))
	assert.Equal(t, -0.5, roundCents(-0.499999999))
}
