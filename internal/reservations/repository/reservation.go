package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	migrations "staysdash/internal/migrations/mongo"
	"staysdash/pkg/config"
	"staysdash/pkg/model"
)

type ReservationRepository interface {
	// Upsert inserts or overwrites the reservation keyed by its upstream id.
	// Last writer wins; created_at is preserved across updates.
	Upsert(ctx context.Context, reservation *model.Reservation) error

	// UpsertCalendarEntry inserts or overwrites one listing-day.
	UpsertCalendarEntry(ctx context.Context, entry *model.CalendarEntry) error

	// FindByRange returns reservations overlapping [from, to], ordered by
	// checkin. Dates are YYYY-MM-DD strings, which order lexicographically.
	FindByRange(ctx context.Context, from, to, listingID string) ([]*model.Reservation, error)

	// ListListings returns the distinct listing ids known to the store.
	ListListings(ctx context.Context) ([]string, error)
}

type mongoReservationRepository struct {
	cfg          *config.Config
	reservations *mongo.Collection
	calendars    *mongo.Collection
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:          cfg,
		reservations: db.Collection(migrations.ReservationsCollection),
		calendars:    db.Collection(migrations.CalendarsCollection),
	}
}

func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Upsert(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"_id": reservation.ID}
	update := bson.M{
		"$set": bson.M{
			"listing_id":  reservation.ListingID,
			"checkin":     reservation.Checkin,
			"checkout":    reservation.Checkout,
			"gross_total": reservation.GrossTotal,
			"extra_fees":  reservation.ExtraFees,
			"channel":     reservation.Channel,
			"guest_hash":  reservation.GuestHash,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	_, err := r.reservations.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert reservation %s: %w", reservation.ID, err)
	}

	reservation.UpdatedAt = now
	return nil
}

func (r *mongoReservationRepository) UpsertCalendarEntry(ctx context.Context, entry *model.CalendarEntry) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"listing_id": entry.ListingID, "date": entry.Date}
	update := bson.M{
		"$set": bson.M{
			"reserved": entry.Reserved,
			"source":   entry.Source,
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	_, err := r.calendars.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert calendar day %s/%s: %w", entry.ListingID, entry.Date, err)
	}

	return nil
}

func (r *mongoReservationRepository) FindByRange(ctx context.Context, from, to, listingID string) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"checkin":  bson.M{"$lte": to},
		"checkout": bson.M{"$gte": from},
	}
	if listingID != "" {
		filter["listing_id"] = listingID
	}

	opts := options.Find().SetSort(bson.D{{Key: "checkin", Value: 1}})

	cursor, err := r.reservations.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) ListListings(ctx context.Context) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	fromReservations, err := r.reservations.Distinct(ctx, "listing_id", bson.M{"listing_id": bson.M{"$ne": ""}})
	if err != nil {
		return nil, fmt.Errorf("failed to list reservation listings: %w", err)
	}

	fromCalendars, err := r.calendars.Distinct(ctx, "listing_id", bson.M{"listing_id": bson.M{"$ne": ""}})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar listings: %w", err)
	}

	seen := make(map[string]struct{})
	var listings []string
	for _, raw := range append(fromReservations, fromCalendars...) {
		id, ok := raw.(string)
		if !ok {
			continue
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			listings = append(listings, id)
		}
	}
	sort.Strings(listings)

	return listings, nil
}
