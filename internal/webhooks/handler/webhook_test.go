package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "staysdash/pkg/errors"
	"staysdash/pkg/logger"
)

type stubWebhookService struct {
	duplicate bool
	err       error
	received  []byte
}

func (s *stubWebhookService) ProcessEvent(_ context.Context, raw []byte) (bool, error) {
	s.received = raw
	return s.duplicate, s.err
}

func newTestRouter(svc *stubWebhookService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "error", Format: "text", Output: io.Discard})
	router := httprouter.New()
	NewWebhookHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestReceiveNewEvent(t *testing.T) {
	svc := &stubWebhookService{duplicate: false}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stays", strings.NewReader(`{"event_id":"evt-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"duplicate":false}`, rec.Body.String())
	assert.Equal(t, `{"event_id":"evt-1"}`, string(svc.received))
}

func TestReceiveDuplicateEvent(t *testing.T) {
	svc := &stubWebhookService{duplicate: true}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stays", strings.NewReader(`{"event_id":"evt-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"duplicate":true}`, rec.Body.String())
}

func TestReceiveMalformedBody(t *testing.T) {
	svc := &stubWebhookService{err: apperrors.Validation("Request body is not valid JSON", nil)}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stays", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReceiveStorageDown(t *testing.T) {
	svc := &stubWebhookService{err: apperrors.Unavailable("Event storage")}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stays", strings.NewReader(`{"event_id":"evt-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
