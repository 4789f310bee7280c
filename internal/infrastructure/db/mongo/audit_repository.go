package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cleanus/booking-api/internal/core/domain"
)

const (
	auditCollection = "booking_events"
	writeTimeout    = 5 * time.Second
)

// AuditRepository appends booking lifecycle events to MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// EnsureIndexes creates the per-user and per-booking lookup indexes.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetName("booking_id_1")},
	})
	return err
}

// Record persists a single booking event.
func (r *AuditRepository) Record(ctx context.Context, event *domain.BookingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, eventDocument(event))
	return err
}

func eventDocument(event *domain.BookingEvent) bson.M {
	return bson.M{
		"booking_id":   event.BookingID,
		"user_id":      event.UserID,
		"action":       string(event.Action),
		"service_date": event.ServiceDate.Format(domain.DateLayout),
		"total_cost":   event.TotalCost,
		"at":           event.At.UTC(),
		"recorded_at":  time.Now().UTC(),
	}
}
