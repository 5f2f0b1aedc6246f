package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. Creating an index that
// already exists with the same keys and options is a no-op, so this runs on every start.
// usersCol, blogsCol and auditCol are collection names.
func EnsureIndexes(ctx context.Context, database *mongo.Database, usersCol, blogsCol, auditCol string) error {
	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_username")},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
	}
	if _, err := database.Collection(usersCol).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	blogs := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("tags")},
		{Keys: bson.D{{Key: "author", Value: 1}}, Options: options.Index().SetName("author")},
	}
	if _, err := database.Collection(blogsCol).Indexes().CreateMany(ctx, blogs); err != nil {
		return fmt.Errorf("blogs indexes: %w", err)
	}

	audit := mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("created_at_desc")}
	if _, err := database.Collection(auditCol).Indexes().CreateOne(ctx, audit); err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}
