package service

import (
	"math"

	"staysdash/pkg/model"
)

// CalcularRepasse computes the host payout over a set of reservations:
// repasse = gross − cleaning(15%, optional) − platform fee(3%) −
// host commission(10%) − extra fees.
func CalcularRepasse(reservations []*model.Reservation, incluirLimpeza bool, meta float64) *model.RepasseResponse {
	var totalVendas, totalTaxas, totalLimpeza, totalTaxaAPI, totalComissao float64

	detalhes := make([]model.RepasseReserva, 0, len(reservations))

	for _, r := range reservations {
		limpeza := 0.0
		if incluirLimpeza {
			limpeza = r.GrossTotal * model.CleaningFeeRate
		}
		taxaAPI := r.GrossTotal * model.PlatformFeeRate
		comissao := r.GrossTotal * model.HostCommissionRate

		liquido := r.GrossTotal - limpeza - taxaAPI - comissao - r.ExtraFees

		totalVendas += r.GrossTotal
		totalTaxas += r.ExtraFees
		totalLimpeza += limpeza
		totalTaxaAPI += taxaAPI
		totalComissao += comissao

		detalhes = append(detalhes, model.RepasseReserva{
			ID:                r.ID,
			Hospede:           r.GuestDisplay(),
			Checkin:           r.Checkin,
			Checkout:          r.Checkout,
			ValorBruto:        r.GrossTotal,
			TaxaLimpeza:       roundCents(limpeza),
			TaxaAPI:           roundCents(taxaAPI),
			ComissaoAnfitriao: roundCents(comissao),
			TaxasExtras:       r.ExtraFees,
			RepasseLiquido:    roundCents(liquido),
		})
	}

	total := totalVendas - totalLimpeza - totalTaxaAPI - totalComissao - totalTaxas

	return &model.RepasseResponse{
		Meta:            meta,
		RepasseEstimado: roundCents(total),
		Status:          metaStatus(total, meta),
		Detalhes: model.RepasseDetalhes{
			TotalVendas:            roundCents(totalVendas),
			TotalLimpeza:           roundCents(totalLimpeza),
			TotalTaxaAPI:           roundCents(totalTaxaAPI),
			TotalComissaoAnfitriao: roundCents(totalComissao),
			TotalTaxasExtras:       roundCents(totalTaxas),
			IncluiuLimpeza:         incluirLimpeza,
			NumeroReservas:         len(reservations),
			Reservas:               detalhes,
		},
	}
}

func metaStatus(total, meta float64) string {
	switch {
	case total >= meta:
		return "meta batida"
	case total >= meta*0.8:
		return "próximo da meta"
	case total >= meta*0.5:
		return "em progresso"
	default:
		return "início do período"
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
