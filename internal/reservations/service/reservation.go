package service

import (
	"context"
	"time"

	reservationerrors "staysdash/internal/reservations/errors"
	"staysdash/internal/reservations/repository"
	"staysdash/internal/stays"
	"staysdash/pkg/cache"
	"staysdash/pkg/config"
	apperrors "staysdash/pkg/errors"
	"staysdash/pkg/model"
)

const dateLayout = "2006-01-02"

// UpstreamClient is the service's view of the Stays API. Nil means no
// upstream is configured and reads come from the durable store only.
type UpstreamClient interface {
	ListReservations(ctx context.Context, from, to, listingID string) ([]stays.Reservation, error)
}

type ReservationService interface {
	ListReservas(ctx context.Context, from, to, listingID string) ([]model.ReservaResponse, error)
	Calendario(ctx context.Context, mes string) (*model.CalendarioResponse, error)
	Repasse(ctx context.Context, mes string, incluirLimpeza bool) (*model.RepasseResponse, error)
	Unidades(ctx context.Context) ([]model.Unidade, error)
}

type reservationService struct {
	repo     repository.ReservationRepository
	cache    *cache.ReadCache
	upstream UpstreamClient
	cfg      *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	readCache *cache.ReadCache,
	upstream UpstreamClient,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:     repo,
		cache:    readCache,
		upstream: upstream,
		cfg:      cfg,
	}
}

func (s *reservationService) ListReservas(ctx context.Context, from, to, listingID string) ([]model.ReservaResponse, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}

	key := cache.ReservasKey(from, to, listingID)
	if cached, ok := s.cache.Get(key); ok {
		if result, ok := cached.([]model.ReservaResponse); ok {
			return result, nil
		}
	}

	reservations, err := s.loadRange(ctx, from, to, listingID)
	if err != nil {
		return nil, err
	}

	result := make([]model.ReservaResponse, 0, len(reservations))
	for _, r := range reservations {
		result = append(result, model.ReservaResponse{
			ID:         r.ID,
			ListingID:  r.ListingID,
			Checkin:    r.Checkin,
			Checkout:   r.Checkout,
			TotalBruto: r.GrossTotal,
			Taxas:      r.ExtraFees,
			Canal:      r.Channel,
			Hospede:    r.GuestDisplay(),
			Telefone:   nil, // masked for privacy
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

func (s *reservationService) Calendario(ctx context.Context, mes string) (*model.CalendarioResponse, error) {
	first, last, numDays, err := monthBounds(mes)
	if err != nil {
		return nil, err
	}

	key := cache.CalendarioKey(mes)
	if cached, ok := s.cache.Get(key); ok {
		if result, ok := cached.(*model.CalendarioResponse); ok {
			return result, nil
		}
	}

	reservations, err := s.loadRange(ctx, first, last, "")
	if err != nil {
		return nil, err
	}

	result := buildCalendario(mes, first, numDays, reservations)
	s.cache.Set(key, result)
	return result, nil
}

func (s *reservationService) Repasse(ctx context.Context, mes string, incluirLimpeza bool) (*model.RepasseResponse, error) {
	first, last, _, err := monthBounds(mes)
	if err != nil {
		return nil, err
	}

	key := cache.RepasseKey(mes, incluirLimpeza)
	if cached, ok := s.cache.Get(key); ok {
		if result, ok := cached.(*model.RepasseResponse); ok {
			return result, nil
		}
	}

	reservations, err := s.loadRange(ctx, first, last, "")
	if err != nil {
		return nil, err
	}

	result := CalcularRepasse(reservations, incluirLimpeza, s.cfg.MetaRepasse)
	s.cache.Set(key, result)
	return result, nil
}

func (s *reservationService) Unidades(ctx context.Context) ([]model.Unidade, error) {
	key := cache.UnidadesKey()
	if cached, ok := s.cache.Get(key); ok {
		if result, ok := cached.([]model.Unidade); ok {
			return result, nil
		}
	}

	listings, err := s.repo.ListListings(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list active units", "error", err)
		return nil, apperrors.Internal("Failed to list active units", err)
	}

	result := make([]model.Unidade, 0, len(listings))
	for _, id := range listings {
		result = append(result, model.Unidade{
			ID:   id,
			Nome: "Unidade " + id,
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// loadRange reads reservations for a range, refreshing the durable store
// from upstream first when an upstream client is configured. Upstream
// failures degrade to last-known persisted data instead of failing the read.
func (s *reservationService) loadRange(ctx context.Context, from, to, listingID string) ([]*model.Reservation, error) {
	s.refreshFromUpstream(ctx, from, to, listingID)

	reservations, err := s.repo.FindByRange(ctx, from, to, listingID)
	if err != nil {
		s.cfg.Log.Error("Failed to query reservations", "from", from, "to", to, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}

	return reservations, nil
}

func (s *reservationService) refreshFromUpstream(ctx context.Context, from, to, listingID string) {
	if s.upstream == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.StaysTimeout)
	defer cancel()

	upstream, err := s.upstream.ListReservations(ctx, from, to, listingID)
	if err != nil {
		s.cfg.Log.Warn("Upstream refresh failed, serving persisted data", "error", err)
		return
	}

	for _, u := range upstream {
		reservation := &model.Reservation{
			ID:         u.ID,
			ListingID:  u.ListingID,
			Checkin:    u.Checkin,
			Checkout:   u.Checkout,
			GrossTotal: u.GrossTotal,
			ExtraFees:  u.ExtraFees,
			Channel:    u.Channel,
			GuestHash:  model.HashGuest(u.Guest, u.Phone),
		}
		if err := s.repo.Upsert(ctx, reservation); err != nil {
			s.cfg.Log.Warn("Failed to persist upstream reservation", "reservation_id", u.ID, "error", err)
		}
	}
}

// normalizeRange validates and zero-pads the from/to query parameters.
func normalizeRange(from, to string) (string, string, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return "", "", apperrors.Validation("Invalid 'from' date, use YYYY-MM-DD", map[string]any{"from": from})
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return "", "", apperrors.Validation("Invalid 'to' date, use YYYY-MM-DD", map[string]any{"to": to})
	}
	if end.Before(start) {
		return "", "", apperrors.Validation(reservationerrors.ErrInvalidDateRange.Error(), nil)
	}

	return start.Format(dateLayout), end.Format(dateLayout), nil
}

// monthBounds resolves YYYY-MM into its first and last day.
func monthBounds(mes string) (first, last string, numDays int, err error) {
	t, parseErr := time.Parse("2006-01", mes)
	if parseErr != nil {
		return "", "", 0, apperrors.Validation(reservationerrors.ErrInvalidMonth.Error(), map[string]any{"mes": mes})
	}

	firstDay := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	return firstDay.Format(dateLayout), lastDay.Format(dateLayout), lastDay.Day(), nil
}

func dayOfMonth(first string, day int) string {
	t, _ := time.Parse(dateLayout, first)
	return t.AddDate(0, 0, day-1).Format(dateLayout)
}
