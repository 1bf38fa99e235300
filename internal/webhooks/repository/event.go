package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	migrations "staysdash/internal/migrations/mongo"
	webhookerrors "staysdash/internal/webhooks/errors"
	"staysdash/pkg/config"
	"staysdash/pkg/model"
)

type EventRepository interface {
	// Insert records an event exactly once. Returns ErrDuplicateEvent when
	// the fingerprint is already present; the insert and the duplicate check
	// are one atomic storage operation.
	Insert(ctx context.Context, event *model.WebhookEvent) error
}

type mongoEventRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEventRepository{
		cfg:        cfg,
		collection: db.Collection(migrations.WebhookEventsCollection),
	}
}

func (r *mongoEventRepository) Insert(ctx context.Context, event *model.WebhookEvent) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	event.ReceivedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		// The unique index on fingerprint turns a concurrent duplicate
		// delivery into a key violation here, never into a second record.
		if mongo.IsDuplicateKeyError(err) {
			return webhookerrors.ErrDuplicateEvent
		}
		return fmt.Errorf("failed to record webhook event: %w", err)
	}

	return nil
}
