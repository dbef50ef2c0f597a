package sales

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	platformmongo "github.com/odyssey-erp/odyssey-admin/internal/platform/mongo"
)

// Repository provides MongoDB backed persistence.
type Repository struct {
	sales *mongo.Collection
	now   func() time.Time
}

// NewRepository constructs a repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{sales: db.Collection(platformmongo.CollectionSales), now: time.Now}
}

func lookupOne(from, localField, as string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "localField", Value: localField},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: as},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + as},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// salesPipeline resolves product and seller references, newest first.
func salesPipeline(match bson.D) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline, lookupOne(platformmongo.CollectionProducts, "product", "product_doc")...)
	pipeline = append(pipeline, lookupOne(platformmongo.CollectionUsers, "soldBy", "seller_doc")...)
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.D{
		{Key: "seller_doc.password", Value: 0},
		{Key: "seller_doc.roles", Value: 0},
	}}})
	return append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}})
}

func (r *Repository) aggregate(ctx context.Context, match bson.D) ([]Sale, error) {
	cursor, err := r.sales.Aggregate(ctx, salesPipeline(match))
	if err != nil {
		return nil, err
	}
	var docs []resolvedDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Sale, len(docs))
	for i, doc := range docs {
		out[i] = doc.toSale()
	}
	return out, nil
}

// List returns every sale.
func (r *Repository) List(ctx context.Context) ([]Sale, error) {
	items, err := r.aggregate(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sales: list: %w", err)
	}
	return items, nil
}

// Get returns one sale.
func (r *Repository) Get(ctx context.Context, id bson.ObjectID) (Sale, error) {
	items, err := r.aggregate(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return Sale{}, fmt.Errorf("sales: get: %w", err)
	}
	if len(items) == 0 {
		return Sale{}, ErrSaleNotFound
	}
	return items[0], nil
}

// Insert stores a sale.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	rec.ID = bson.NewObjectID()
	rec.CreatedAt = r.now().UTC().Truncate(time.Millisecond)
	if _, err := r.sales.InsertOne(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("sales: insert: %w", err)
	}
	return rec, nil
}

// Delete removes a sale.
func (r *Repository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.sales.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("sales: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrSaleNotFound
	}
	return nil
}
