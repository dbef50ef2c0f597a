package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates the unique keys the data model relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := map[string]string{
		CollectionUsers:       "email",
		CollectionRoles:       "name",
		CollectionPermissions: "name",
	}
	for collection, field := range unique {
		_, err := db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("platform/mongo: index %s.%s: %w", collection, field, err)
		}
	}
	_, err := db.Collection(CollectionSales).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("platform/mongo: index sales.createdAt: %w", err)
	}
	return nil
}
