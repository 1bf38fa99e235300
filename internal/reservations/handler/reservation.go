package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"staysdash/internal/reservations/service"
	"staysdash/pkg/config"
	apperrors "staysdash/pkg/errors"
	httputil "staysdash/pkg/http"
	"staysdash/pkg/logger"
)

type ReservationHandler struct {
	service service.ReservationService
	cfg     *config.Config
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, cfg *config.Config) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		cfg:     cfg,
		log:     cfg.Log,
	}
}

func (h *ReservationHandler) Reservas(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	from := query.Get("from")
	to := query.Get("to")
	listingID := query.Get("listing_id")

	if from == "" || to == "" {
		h.writeError(w, "Reservas", apperrors.Validation("Both 'from' and 'to' query parameters are required", nil))
		return
	}

	reservas, err := h.service.ListReservas(r.Context(), from, to, listingID)
	if err != nil {
		h.writeError(w, "Reservas", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservas); err != nil {
		h.log.Error("failed to write success response", "handler", "Reservas", "error", err)
	}
}

func (h *ReservationHandler) Calendario(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mes := r.URL.Query().Get("mes")
	if mes == "" {
		h.writeError(w, "Calendario", apperrors.Validation("'mes' query parameter is required", nil))
		return
	}

	calendario, err := h.service.Calendario(r.Context(), mes)
	if err != nil {
		h.writeError(w, "Calendario", err)
		return
	}

	if err := httputil.WriteSuccess(w, calendario); err != nil {
		h.log.Error("failed to write success response", "handler", "Calendario", "error", err)
	}
}

func (h *ReservationHandler) Repasse(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	mes := query.Get("mes")
	if mes == "" {
		h.writeError(w, "Repasse", apperrors.Validation("'mes' query parameter is required", nil))
		return
	}

	incluirLimpeza := h.cfg.IncluirLimpezaDefault
	if s := query.Get("incluir_limpeza"); s != "" {
		parsed, err := strconv.ParseBool(s)
		if err != nil {
			h.writeError(w, "Repasse", apperrors.Validation("Invalid 'incluir_limpeza' value, use true or false", map[string]any{"incluir_limpeza": s}))
			return
		}
		incluirLimpeza = parsed
	}

	repasse, err := h.service.Repasse(r.Context(), mes, incluirLimpeza)
	if err != nil {
		h.writeError(w, "Repasse", err)
		return
	}

	if err := httputil.WriteSuccess(w, repasse); err != nil {
		h.log.Error("failed to write success response", "handler", "Repasse", "error", err)
	}
}

func (h *ReservationHandler) Unidades(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	unidades, err := h.service.Unidades(r.Context())
	if err != nil {
		h.writeError(w, "Unidades", err)
		return
	}

	if err := httputil.WriteSuccess(w, unidades); err != nil {
		h.log.Error("failed to write success response", "handler", "Unidades", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/reservas", h.Reservas)
	router.GET("/calendario", h.Calendario)
	router.GET("/repasse", h.Repasse)
	router.GET("/unidades", h.Unidades)
}
