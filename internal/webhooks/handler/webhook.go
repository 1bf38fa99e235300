package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"staysdash/internal/webhooks/service"
	apperrors "staysdash/pkg/errors"
	httputil "staysdash/pkg/http"
	"staysdash/pkg/logger"
	"staysdash/pkg/model"
)

type WebhookHandler struct {
	service service.WebhookService
	log     *logger.Logger
}

func NewWebhookHandler(service service.WebhookService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log,
	}
}

func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, "Receive", apperrors.InvalidInput("Request body too large"))
			return
		}
		h.writeError(w, "Receive", apperrors.InvalidInput("Failed to read request body"))
		return
	}

	duplicate, err := h.service.ProcessEvent(r.Context(), raw)
	if err != nil {
		h.writeError(w, "Receive", err)
		return
	}

	if err := httputil.WriteSuccess(w, model.WebhookAck{OK: true, Duplicate: duplicate}); err != nil {
		h.log.Error("failed to write success response", "handler", "Receive", "error", err)
	}
}

func (h *WebhookHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *WebhookHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/webhooks/stays", h.Receive)
}
