package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staysdash/pkg/config"
	"staysdash/pkg/logger"
	"staysdash/pkg/model"
)

type stubReservationService struct {
	repasseMes    string
	repasseFlag   bool
	repasseCalled bool
}

func (s *stubReservationService) ListReservas(_ context.Context, from, to, listingID string) ([]model.ReservaResponse, error) {
	return []model.ReservaResponse{{ID: "res-1", ListingID: listingID, Checkin: from, Checkout: to}}, nil
}

func (s *stubReservationService) Calendario(_ context.Context, mes string) (*model.CalendarioResponse, error) {
	return &model.CalendarioResponse{Mes: mes}, nil
}

func (s *stubReservationService) Repasse(_ context.Context, mes string, incluirLimpeza bool) (*model.RepasseResponse, error) {
	s.repasseCalled = true
	s.repasseMes = mes
	s.repasseFlag = incluirLimpeza
	return &model.RepasseResponse{Meta: 3500}, nil
}

func (s *stubReservationService) Unidades(_ context.Context) ([]model.Unidade, error) {
	return []model.Unidade{{ID: "apt-1", Nome: "Unidade apt-1"}}, nil
}

func newTestRouter(svc *stubReservationService, incluirLimpezaDefault bool) *httprouter.Router {
	cfg := &config.Config{
		IncluirLimpezaDefault: incluirLimpezaDefault,
		Log:                   logger.New(logger.Config{Level: "error", Format: "text", Output: io.Discard}),
	}
	router := httprouter.New()
	NewReservationHandler(svc, cfg).RegisterRoutes(router)
	return router
}

func doGet(router *httprouter.Router, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestReservasRequiresRange(t *testing.T) {
	router := newTestRouter(&stubReservationService{}, true)

	assert.Equal(t, http.StatusUnprocessableEntity, doGet(router, "/reservas").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, doGet(router, "/reservas?from=2026-01-01").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, doGet(router, "/reservas?to=2026-01-31").Code)
}

func TestReservasOK(t *testing.T) {
	router := newTestRouter(&stubReservationService{}, true)

	rec := doGet(router, "/reservas?from=2026-01-01&to=2026-01-31&listing_id=apt-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"res-1"`)
}

func TestCalendarioRequiresMes(t *testing.T) {
	router := newTestRouter(&stubReservationService{}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, doGet(router, "/calendario").Code)
}

func TestCalendarioOK(t *testing.T) {
	router := newTestRouter(&stubReservationService{}, true)

	rec := doGet(router, "/calendario?mes=2026-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"2026-01"`)
}

func TestRepasseFlagDefaultsFromConfig(t *testing.T) {
	svc := &stubReservationService{}
	router := newTestRouter(svc, true)

	rec := doGet(router, "/repasse?mes=2026-01")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, svc.repasseCalled)
	assert.Equal(t, "2026-01", svc.repasseMes)
	assert.True(t, svc.repasseFlag)
}

func TestRepasseFlagOverride(t *testing.T) {
	svc := &stubReservationService{}
	router := newTestRouter(svc, true)

	rec := doGet(router, "/repasse?mes=2026-01&incluir_limpeza=false")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.repasseFlag)
}

func TestRepasseInvalidFlag(t *testing.T) {
	router := newTestRouter(&stubReservationService{}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, doGet(router, "/repasse?mes=2026-01&incluir_limpeza=maybe").Code)
}

func TestUnidadesOK(t *testing.T) {
	router := newTestRouter(&stubReservationService{}, true)

	rec := doGet(router, "/unidades")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"apt-1"`)
}
