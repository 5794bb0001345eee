package repository

import (
	"context"
	"time"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"
	"napo-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	auditCollection   = "audit_events"
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// MongoAuditRepository implements the AuditRepository interface
type MongoAuditRepository struct {
	collection *mongo.Collection
}

// NewMongoAuditRepository creates a new MongoDB audit repository
func NewMongoAuditRepository(ctx context.Context, db *mongo.Database, log logger.Logger) repository.AuditRepository {
	collection := db.Collection(auditCollection)

	// Compound index for the history of one record
	entityIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "entity", Value: 1},
			{Key: "entity_id", Value: 1},
			{Key: "at", Value: -1},
		},
	}

	// Index on at for time range scans
	atIndex := mongo.IndexModel{
		Keys: bson.M{"at": -1},
	}

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{entityIndex, atIndex}); err != nil {
		log.Warn("Failed to create audit indexes", "error", err)
	}

	return &MongoAuditRepository{
		collection: collection,
	}
}

// Record stores one audit event
func (r *MongoAuditRepository) Record(ctx context.Context, event *entity.AuditEvent) error {
	if event.ID == "" {
		event.ID = primitive.NewObjectID().Hex()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// ListByEntity returns the history of one record, newest first
func (r *MongoAuditRepository) ListByEntity(ctx context.Context, entityName string, entityID uint, limit int) ([]*entity.AuditEvent, error) {
	limit = clampAuditLimit(limit)

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"entity": entityName, "entity_id": entityID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]*entity.AuditEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Ping checks the audit store is reachable
func (r *MongoAuditRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}

func clampAuditLimit(limit int) int {
	if limit <= 0 {
		return defaultAuditLimit
	}
	if limit > maxAuditLimit {
		return maxAuditLimit
	}
	return limit
}

// NoopAuditRepository discards audit events when no audit store is configured
type NoopAuditRepository struct{}

// NewNoopAuditRepository creates an audit repository that stores nothing
func NewNoopAuditRepository() repository.AuditRepository {
	return NoopAuditRepository{}
}

func (NoopAuditRepository) Record(context.Context, *entity.AuditEvent) error { return nil }

func (NoopAuditRepository) ListByEntity(context.Context, string, uint, int) ([]*entity.AuditEvent, error) {
	return []*entity.AuditEvent{}, nil
}

func (NoopAuditRepository) Ping(context.Context) error { return nil }
