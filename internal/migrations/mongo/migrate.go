package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ReservationsCollection  = "reservations"
	CalendarsCollection     = "calendars"
	WebhookEventsCollection = "webhook_events"
)

var (
	reservationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}}},
		{Keys: bson.D{{Key: "checkin", Value: 1}}},
		{Keys: bson.D{{Key: "checkout", Value: 1}}},
	}

	// The compound unique index keeps at most one entry per listing-day.
	calendarsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "reserved", Value: 1}}},
	}

	// The unique fingerprint index is the idempotency mechanism itself:
	// concurrent inserts of the same fingerprint race inside Mongo, not in
	// application code, so exactly one wins across all process instances.
	webhookEventsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "fingerprint", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "received_at", Value: 1}}},
	}
)

// RunMigration ensures the collections and indexes exist. It runs at service
// startup and from cmd/migrate; both paths are idempotent.
func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	collections := map[string][]mongo.IndexModel{
		ReservationsCollection:  reservationsIndexes,
		CalendarsCollection:     calendarsIndexes,
		WebhookEventsCollection: webhookEventsIndexes,
	}

	for name, indexes := range collections {
		if err := ensureCollection(ctx, db, name); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	_, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	return err
}
