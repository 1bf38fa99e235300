package service

import "staysdash/pkg/model"

// buildCalendario projects the month's reservations onto a per-day view.
// A day's status relative to one reservation: the checkin day, the checkout
// day, or occupied for every day strictly in between. ISO date strings
// compare correctly with plain string ordering.
func buildCalendario(mes, first string, numDays int, reservations []*model.Reservation) *model.CalendarioResponse {
	dias := make([]model.DiaCalendario, 0, numDays)
	occupied := make(map[string]struct{})

	for day := 1; day <= numDays; day++ {
		date := dayOfMonth(first, day)
		var doDia []model.ReservaDoDia

		for _, r := range reservations {
			status := dayStatus(r, date)
			if status == "" {
				continue
			}
			doDia = append(doDia, model.ReservaDoDia{
				ID:         r.ID,
				Hospede:    r.GuestDisplay(),
				Status:     status,
				TotalBruto: r.GrossTotal,
			})
			if status != model.DayStatusCheckout {
				occupied[date] = struct{}{}
			}
		}

		dias = append(dias, model.DiaCalendario{
			Dia:      day,
			Data:     date,
			Reservas: doDia,
		})
	}

	return &model.CalendarioResponse{
		Mes:      mes,
		Dias:     dias,
		Ocupacao: calcularOcupacao(len(occupied), numDays),
	}
}

func dayStatus(r *model.Reservation, date string) string {
	switch {
	case r.Checkin == date:
		return model.DayStatusCheckin
	case r.Checkout == date:
		return model.DayStatusCheckout
	case r.Checkin < date && date < r.Checkout:
		return model.DayStatusOccupied
	}
	return ""
}

func calcularOcupacao(diasOcupados, diasTotais int) model.Ocupacao {
	taxa := 0.0
	if diasTotais > 0 {
		taxa = roundCents(float64(diasOcupados) / float64(diasTotais) * 100)
	}

	return model.Ocupacao{
		DiasOcupados: diasOcupados,
		DiasTotais:   diasTotais,
		TaxaOcupacao: taxa,
		DiasLivres:   diasTotais - diasOcupados,
	}
}
