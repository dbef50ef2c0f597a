package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	platformmongo "github.com/odyssey-erp/odyssey-admin/internal/platform/mongo"
)

// Repository provides MongoDB backed persistence.
type Repository struct {
	products *mongo.Collection
	now      func() time.Time
}

// NewRepository constructs a repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{products: db.Collection(platformmongo.CollectionProducts), now: time.Now}
}

// List returns every product, newest first.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	cursor, err := r.products.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	var recs []Record
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	return recs, nil
}

// Count returns the number of stored products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	n, err := r.products.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("products: count: %w", err)
	}
	return n, nil
}

// Get loads one product.
func (r *Repository) Get(ctx context.Context, id bson.ObjectID) (Record, error) {
	var rec Record
	if err := r.products.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrProductNotFound
		}
		return Record{}, fmt.Errorf("products: get: %w", err)
	}
	return rec, nil
}

// Insert stores a new product.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	rec.ID = bson.NewObjectID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if _, err := r.products.InsertOne(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("products: insert: %w", err)
	}
	return rec, nil
}

// Update overwrites the editable fields of a product.
func (r *Repository) Update(ctx context.Context, id bson.ObjectID, in Input) (Record, error) {
	var rec Record
	err := r.products.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: in.Name},
			{Key: "description", Value: in.Description},
			{Key: "price", Value: in.Price},
			{Key: "category", Value: in.Category},
			{Key: "stock", Value: in.Stock},
			{Key: "status", Value: in.Status},
			{Key: "updatedAt", Value: r.now().UTC()},
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrProductNotFound
		}
		return Record{}, fmt.Errorf("products: update: %w", err)
	}
	return rec, nil
}

// Delete removes a product.
func (r *Repository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.products.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
