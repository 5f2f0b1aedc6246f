package repo

import (
	"context"
	"time"

	"github.com/crucial707/blogfeed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditRepo persists audit log entries.
type AuditRepo struct {
	col *mongo.Collection
}

type auditDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ActorID      string             `bson:"actor_id"`
	Action       string             `bson:"action"`
	ResourceType string             `bson:"resource_type"`
	ResourceID   string             `bson:"resource_id"`
	Details      string             `bson:"details,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *mongo.Database) *AuditRepo {
	return &AuditRepo{col: db.Collection(AuditCollection)}
}

// Log records an audit entry.
func (r *AuditRepo) Log(ctx context.Context, e models.AuditEntry) error {
	doc := auditDoc{
		ActorID:      e.ActorID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Details:      e.Details,
		CreatedAt:    e.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, doc)
	return mapErr("insert audit entry", err)
}

// List returns recent audit entries, newest first.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapErr("list audit", err)
	}
	defer cur.Close(ctx)

	entries := make([]models.AuditEntry, 0)
	for cur.Next(ctx) {
		var d auditDoc
		if err := cur.Decode(&d); err != nil {
			return nil, mapErr("list audit", err)
		}
		entries = append(entries, models.AuditEntry{
			ID:           d.ID.Hex(),
			ActorID:      d.ActorID,
			Action:       d.Action,
			ResourceType: d.ResourceType,
			ResourceID:   d.ResourceID,
			Details:      d.Details,
			CreatedAt:    d.CreatedAt,
		})
	}
	return entries, mapErr("list audit", cur.Err())
}
