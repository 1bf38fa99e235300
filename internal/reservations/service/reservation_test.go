package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staysdash/internal/stays"
	"staysdash/pkg/cache"
	"staysdash/pkg/config"
	apperrors "staysdash/pkg/errors"
	"staysdash/pkg/logger"
	"staysdash/pkg/model"
)

type stubRepository struct {
	reservations []*model.Reservation
	listings     []string
	findErr      error
	listErr      error
	findCalls    int
	upserted     []*model.Reservation
}

func (s *stubRepository) Upsert(_ context.Context, reservation *model.Reservation) error {
	s.upserted = append(s.upserted, reservation)
	return nil
}

func (s *stubRepository) UpsertCalendarEntry(_ context.Context, _ *model.CalendarEntry) error {
	return nil
}

func (s *stubRepository) FindByRange(_ context.Context, from, to, listingID string) ([]*model.Reservation, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}

	var out []*model.Reservation
	for _, r := range s.reservations {
		if r.Checkin > to || r.Checkout < from {
			continue
		}
		if listingID != "" && r.ListingID != listingID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *stubRepository) ListListings(_ context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listings, nil
}

type stubUpstream struct {
	reservations []stays.Reservation
	err          error
	calls        int
}

func (s *stubUpstream) ListReservations(_ context.Context, _, _, _ string) ([]stays.Reservation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.reservations, nil
}

func serviceConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		MetaRepasse:  3500,
		StaysTimeout: time.Second,
		Log:          logger.New(logger.Config{Level: "error", Format: "text", Output: io.Discard}),
	}
}

func fixtureReservation(id, listing, checkin, checkout string, gross float64) *model.Reservation {
	return &model.Reservation{
		ID:         id,
		ListingID:  listing,
		Checkin:    checkin,
		Checkout:   checkout,
		GrossTotal: gross,
		Channel:    "airbnb",
		GuestHash:  model.HashGuest("Maria Silva", "+5511999990000"),
	}
}

func TestListReservasMasksGuestIdentity(t *testing.T) {
	repo := &stubRepository{reservations: []*model.Reservation{
		fixtureReservation("res-1", "apt-1", "2026-01-10", "2026-01-13", 500),
	}}
	svc := NewReservationService(repo, cache.New(16, time.Minute), nil, serviceConfig(t))

	result, err := svc.ListReservas(context.Background(), "2026-01-01", "2026-01-31", "")
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, "res-1", result[0].ID)
	assert.Nil(t, result[0].Telefone)
	assert.NotContains(t, result[0].Hospede, "Maria")
	assert.Contains(t, result[0].Hospede, "Hóspede ")
}

func TestListReservasServedFromCache(t *testing.T) {
	repo := &stubRepository{reservations: []*model.Reservation{
		fixtureReservation("res-1", "apt-1", "2026-01-10", "2026-01-13", 500),
	}}
	svc := NewReservationService(repo, cache.New(16, time.Minute), nil, serviceConfig(t))

	_, err := svc.ListReservas(context.Background(), "2026-01-01", "2026-01-31", "")
	require.NoError(t, err)
	_, err = svc.ListReservas(context.Background(), "2026-01-01", "2026-01-31", "")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.findCalls, "second identical read must hit the cache")
}

func TestListReservasRecomputesAfterInvalidation(t *testing.T) {
	repo := &stubRepository{reservations: []*model.Reservation{
		fixtureReservation("res-1", "apt-1", "2026-01-10", "2026-01-13", 500),
	}}
	readCache := cache.New(16, time.Minute)
	svc := NewReservationService(repo, readCache, nil, serviceConfig(t))

	_, err := svc.ListReservas(context.Background(), "2026-01-01", "2026-01-31", "")
	require.NoError(t, err)

	readCache.InvalidateAll()

	_, err = svc.ListReservas(context.Background(), "2026-01-01", "2026-01-31", "")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.findCalls)
}

func TestListReservasDifferentParamsAreDistinctEntries(t *testing.T) {
	repo := &stubRepository{reservations: []*model.Reservation{
		fixtureReservation("res-1", "apt-1", "2026-01-10", "2026-01-13", 500),
	}}
	svc := NewReservationService(repo, cache.New(16, time.Minute), nil, serviceConfig(t))

	_, err := svc.ListReservas(context.Background(), "2026-01-01", "2026-01-31", "")
	require.NoError(t, err)
	_, err = svc.ListReservas(context.Background(), "2026-01-01", "2026-01-31", "apt-1")
	require.NoError(t, err)

	assert.Equal(t, 2, repo.findCalls)
}

func TestListReservasInvalidDates(t *testing.T) {
	svc := NewReservationService(&stubRepository{}, cache.New(16, time.Minute), nil, serviceConfig(t))

	tests := []struct {
		name     string
		from, to string
	}{
		{"bad from", "10-01-2026", "2026-01-31"},
		{"bad to", "2026-01-01", "31/01/2026"},
		{"inverted range", "2026-02-01", "2026-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListReservas(context.Background(), tt.from, tt.to, "")
			require.Error(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, apperrors.AsAppError(err).HTTPStatus)
		})
	}
}

func TestListReservasStorageFailure(t *testing.T) {
	repo := &stubRepository{findErr: errors.New("connection reset")}
	svc := NewReservationService(repo, cache.New(16, time.Minute), nil, serviceConfig(t))

	_, err := svc.ListReservas(context.Background(), "2026-01-01", "2026-01-31", "")
	require.Error(t, err)
	assert.GreaterOrEqual(t, apperrors.AsAppError(err).HTTPStatus, http.StatusInternalServerError)
}

func TestListReservasUpstreamRefresh(t *testing.T) {
	repo := &stubRepository{}
	upstream := &stubUpstream{reservations: []stays.Reservation{{
		ID:         "res-up",
		ListingID:  "apt-2",
		Checkin:    "2026-01-05",
		Checkout:   "2026-01-08",
		GrossTotal: 750,
		Guest:      "João Souza",
		Phone:      "+5511988880000",
	}}}
	svc := NewReservationService(repo, cache.New(16, time.Minute), upstream, serviceConfig(t))

	_, err := svc.ListReservas(context.Background(), "2026-01-01", "2026-01-31", "")
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.calls)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, "res-up", repo.upserted[0].ID)
	assert.Equal(t, model.HashGuest("João Souza", "+5511988880000"), repo.upserted[0].GuestHash,
		"raw guest identity must be hashed before persistence")
}

func TestListReservasUpstreamFailureDegradesToStore(t *testing.T) {
	repo := &stubRepository{reservations: []*model.Reservation{
		fixtureReservation("res-1", "apt-1", "2026-01-10", "2026-01-13", 500),
	}}
	upstream := &stubUpstream{err: errors.New("upstream 502")}
	svc := NewReservationService(repo, cache.New(16, time.Minute), upstream, serviceConfig(t))

	result, err := svc.ListReservas(context.Background(), "2026-01-01", "2026-01-31", "")
	require.NoError(t, err)
	assert.Len(t, result, 1, "persisted data still serves when upstream is down")
}

func TestCalendario(t *testing.T) {
	repo := &stubRepository{reservations: []*model.Reservation{
		fixtureReservation("res-1", "apt-1", "2026-01-10", "2026-01-13", 500),
	}}
	svc := NewReservationService(repo, cache.New(16, time.Minute), nil, serviceConfig(t))

	result, err := svc.Calendario(context.Background(), "2026-01")
	require.NoError(t, err)

	assert.Equal(t, "2026-01", result.Mes)
	require.Len(t, result.Dias, 31)

	byDate := make(map[string]model.DiaCalendario)
	for _, dia := range result.Dias {
		byDate[dia.Data] = dia
	}

	require.Len(t, byDate["2026-01-10"].Reservas, 1)
	assert.Equal(t, model.DayStatusCheckin, byDate["2026-01-10"].Reservas[0].Status)
	assert.Equal(t, model.DayStatusOccupied, byDate["2026-01-11"].Reservas[0].Status)
	assert.Equal(t, model.DayStatusOccupied, byDate["2026-01-12"].Reservas[0].Status)
	assert.Equal(t, model.DayStatusCheckout, byDate["2026-01-13"].Reservas[0].Status)
	assert.Empty(t, byDate["2026-01-14"].Reservas)

	// Checkin plus two occupied days; the checkout day is free again.
	assert.Equal(t, 3, result.Ocupacao.DiasOcupados)
	assert.Equal(t, 31, result.Ocupacao.DiasTotais)
	assert.Equal(t, 28, result.Ocupacao.DiasLivres)
}

func TestCalendarioInvalidMonth(t *testing.T) {
	svc := NewReservationService(&stubRepository{}, cache.New(16, time.Minute), nil, serviceConfig(t))

	for _, mes := range []string{"2026", "01-2026", "2026-13", "jan"} {
		_, err := svc.Calendario(context.Background(), mes)
		require.Error(t, err, mes)
		assert.Equal(t, http.StatusUnprocessableEntity, apperrors.AsAppError(err).HTTPStatus)
	}
}

func TestRepasseUsesConfiguredMeta(t *testing.T) {
	repo := &stubRepository{reservations: []*model.Reservation{
		fixtureReservation("res-1", "apt-1", "2026-01-10", "2026-01-13", 500),
	}}
	cfg := serviceConfig(t)
	cfg.MetaRepasse = 1000
	svc := NewReservationService(repo, cache.New(16, time.Minute), nil, cfg)

	result, err := svc.Repasse(context.Background(), "2026-01", true)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, result.Meta)
	assert.Equal(t, 360.0, result.RepasseEstimado)
}

func TestRepasseCachedPerFlag(t *testing.T) {
	repo := &stubRepository{reservations: []*model.Reservation{
		fixtureReservation("res-1", "apt-1", "2026-01-10", "2026-01-13", 500),
	}}
	svc := NewReservationService(repo, cache.New(16, time.Minute), nil, serviceConfig(t))

	with, err := svc.Repasse(context.Background(), "2026-01", true)
	require.NoError(t, err)
	without, err := svc.Repasse(context.Background(), "2026-01", false)
	require.NoError(t, err)

	assert.Equal(t, 360.0, with.RepasseEstimado)
	assert.Equal(t, 435.0, without.RepasseEstimado)
	assert.Equal(t, 2, repo.findCalls, "each flag value is its own cache entry")

	_, err = svc.Repasse(context.Background(), "2026-01", true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.findCalls)
}

func TestUnidades(t *testing.T) {
	repo := &stubRepository{listings: []string{"apt-1", "apt-2"}}
	svc := NewReservationService(repo, cache.New(16, time.Minute), nil, serviceConfig(t))

	result, err := svc.Unidades(context.Background())
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, model.Unidade{ID: "apt-1", Nome: "Unidade apt-1"}, result[0])
	assert.Equal(t, model.Unidade{ID: "apt-2", Nome: "Unidade apt-2"}, result[1])
}

func TestNormalizeRangeZeroPads(t *testing.T) {
	from, to, err := normalizeRange("2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", from)
	assert.Equal(t, "2026-01-31", to)
}

func TestMonthBounds(t *testing.T) {
	first, last, numDays, err := monthBounds("2026-02")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", first)
	assert.Equal(t, "2026-02-28", last)
	assert.Equal(t, 28, numDays)

	// Leap year.
	_, last, numDays, err = monthBounds("2028-02")
	require.NoError(t, err)
	assert.Equal(t, "2028-02-29", last)
	assert.Equal(t, 29, numDays)
}
