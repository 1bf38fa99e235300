package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	reservationrepo "staysdash/internal/reservations/repository"
	webhookerrors "staysdash/internal/webhooks/errors"
	"staysdash/internal/webhooks/repository"
	"staysdash/pkg/config"
	apperrors "staysdash/pkg/errors"
	"staysdash/pkg/kafka"
	"staysdash/pkg/model"
)

// CacheInvalidator is the coordinator's view of the read cache.
type CacheInvalidator interface {
	InvalidateAll()
}

// EventNotifier publishes accepted events for downstream consumers. May be
// nil when Kafka is not configured.
type EventNotifier interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type WebhookService interface {
	// ProcessEvent runs the idempotency gate over one raw delivery and, when
	// the event is new, persists it, updates the reservation and calendar
	// projections, and invalidates the read cache. The returned flag is true
	// for duplicate deliveries, which have no side effects.
	ProcessEvent(ctx context.Context, raw []byte) (duplicate bool, err error)
}

type webhookService struct {
	events   repository.EventRepository
	store    reservationrepo.ReservationRepository
	cache    CacheInvalidator
	notifier EventNotifier
	validate *validator.Validate
	cfg      *config.Config
}

func NewWebhookService(
	events repository.EventRepository,
	store reservationrepo.ReservationRepository,
	cache CacheInvalidator,
	notifier EventNotifier,
	cfg *config.Config,
) WebhookService {
	return &webhookService{
		events:   events,
		store:    store,
		cache:    cache,
		notifier: notifier,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *webhookService) ProcessEvent(ctx context.Context, raw []byte) (bool, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return false, apperrors.Validation("Request body is not valid JSON", map[string]any{
			"error": webhookerrors.ErrInvalidPayload.Error(),
		})
	}

	fingerprint := Fingerprint(payload)

	event := &model.WebhookEvent{
		Fingerprint: fingerprint,
		Raw:         string(raw),
	}

	if err := s.events.Insert(ctx, event); err != nil {
		if errors.Is(err, webhookerrors.ErrDuplicateEvent) {
			// Repeated delivery of an already-processed event. Success with
			// no side effects, so the sender stops retrying.
			s.cfg.Log.Info("Webhook event already processed", "fingerprint", fingerprint)
			return true, nil
		}
		s.cfg.Log.Error("Failed to record webhook event", "fingerprint", fingerprint, "error", err)
		return false, apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to record webhook event", 503)
	}

	if err := s.applyProjections(ctx, payload); err != nil {
		// The event record exists, but the projections do not reflect it.
		// Invalidate anyway so no read serves data we know is stale, then
		// surface the failure to the sender.
		s.cache.InvalidateAll()
		return false, err
	}

	s.cache.InvalidateAll()
	s.cfg.Log.Info("Webhook event accepted", "fingerprint", fingerprint)

	s.publishNotification(fingerprint, payload)

	return false, nil
}

// applyProjections updates the reservation and calendar records when the
// event payload carries a recognizable reservation. Payloads without one
// (unknown event types, partial notifications) are recorded only.
func (s *webhookService) applyProjections(ctx context.Context, payload map[string]any) error {
	reservation, ok := s.extractReservation(payload)
	if !ok {
		return nil
	}

	if err := s.store.Upsert(ctx, reservation); err != nil {
		s.cfg.Log.Error("Failed to upsert reservation from webhook", "reservation_id", reservation.ID, "error", err)
		return apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to persist reservation", 503)
	}

	source := reservation.Channel
	if source == "" {
		source = "webhook"
	}

	for _, date := range nightsOf(reservation.Checkin, reservation.Checkout) {
		entry := &model.CalendarEntry{
			ListingID: reservation.ListingID,
			Date:      date,
			Reserved:  true,
			Source:    source,
		}
		if err := s.store.UpsertCalendarEntry(ctx, entry); err != nil {
			s.cfg.Log.Error("Failed to upsert calendar day from webhook",
				"listing_id", reservation.ListingID,
				"date", date,
				"error", err,
			)
			return apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to persist calendar entry", 503)
		}
	}

	return nil
}

// extractReservation maps a payload's "data" object onto a Reservation. The
// schema is not trusted: anything that fails validation is treated as not a
// reservation and skipped, never rejected.
func (s *webhookService) extractReservation(payload map[string]any) (*model.Reservation, bool) {
	data, ok := payload["data"].(map[string]any)
	if !ok {
		return nil, false
	}

	reservation := &model.Reservation{
		ID:         stringField(data, "id"),
		ListingID:  stringField(data, "listing_id"),
		Checkin:    stringField(data, "checkin"),
		Checkout:   stringField(data, "checkout"),
		GrossTotal: floatField(data, "total_bruto"),
		ExtraFees:  floatField(data, "taxas"),
		Channel:    stringField(data, "canal"),
		GuestHash:  model.HashGuest(stringField(data, "hospede"), stringField(data, "telefone")),
	}

	if err := s.validate.Struct(reservation); err != nil {
		s.cfg.Log.Debug("Webhook payload carries no valid reservation", "error", err)
		return nil, false
	}

	return reservation, true
}

func (s *webhookService) publishNotification(fingerprint string, payload map[string]any) {
	if s.notifier == nil {
		return
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return
	}

	eventType := "stays.webhook"
	if t, ok := payload["type"].(string); ok && t != "" {
		eventType = t
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := kafka.NewMessage(fingerprint, value, eventType, "staysdash")
	if err := s.notifier.Publish(ctx, msg); err != nil {
		// Notification is best effort; the event is already durable.
		s.cfg.Log.Warn("Failed to publish webhook notification", "fingerprint", fingerprint, "error", err)
	}
}

// nightsOf lists every occupied date of a stay: checkin inclusive, checkout
// exclusive. Malformed or inverted ranges yield nothing.
func nightsOf(checkin, checkout string) []string {
	start, errIn := time.Parse("2006-01-02", checkin)
	end, errOut := time.Parse("2006-01-02", checkout)
	if errIn != nil || errOut != nil || !end.After(start) {
		return nil
	}

	var nights []string
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d.Format("2006-01-02"))
	}
	return nights
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}
