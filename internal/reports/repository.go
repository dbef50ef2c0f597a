package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	platformmongo "github.com/odyssey-erp/odyssey-admin/internal/platform/mongo"
)

// Repository runs report queries against MongoDB.
type Repository struct {
	users    *mongo.Collection
	products *mongo.Collection
}

// NewRepository constructs a repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		users:    db.Collection(platformmongo.CollectionUsers),
		products: db.Collection(platformmongo.CollectionProducts),
	}
}

// CountUsers counts every user.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	n, err := r.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("reports: count users: %w", err)
	}
	return n, nil
}

// CountProducts counts products, optionally restricted to one status.
func (r *Repository) CountProducts(ctx context.Context, status string) (int64, error) {
	filter := bson.D{}
	if status != "" {
		filter = bson.D{{Key: "status", Value: status}}
	}
	n, err := r.products.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("reports: count products: %w", err)
	}
	return n, nil
}

type userReportDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	Email     string        `bson:"email"`
	CreatedAt time.Time     `bson:"createdAt"`
	RoleDocs  []struct {
		Name string `bson:"name"`
	} `bson:"role_docs"`
}

// UserReport lists users newest first with their role names.
func (r *Repository) UserReport(ctx context.Context) ([]UserRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: platformmongo.CollectionRoles},
			{Key: "localField", Value: "roles"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "role_docs"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "email", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "role_docs.name", Value: 1},
		}}},
	}
	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("reports: user report: %w", err)
	}
	var docs []userReportDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reports: user report: %w", err)
	}
	rows := make([]UserRow, len(docs))
	for i, doc := range docs {
		names := make([]string, 0, len(doc.RoleDocs))
		for _, role := range doc.RoleDocs {
			names = append(names, role.Name)
		}
		rows[i] = UserRow{ID: doc.ID.Hex(), Email: doc.Email, Role: roleLabel(names), CreatedAt: doc.CreatedAt}
	}
	return rows, nil
}

type productReportDoc struct {
	ID         bson.ObjectID `bson:"_id"`
	Name       string        `bson:"name"`
	Category   string        `bson:"category"`
	Price      float64       `bson:"price"`
	Stock      int           `bson:"stock"`
	Status     string        `bson:"status"`
	CreatedAt  time.Time     `bson:"createdAt"`
	CreatorDoc *struct {
		Email string `bson:"email"`
	} `bson:"creator_doc"`
}

// ProductReport lists products newest first with the creator's email.
func (r *Repository) ProductReport(ctx context.Context) ([]ProductRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: platformmongo.CollectionUsers},
			{Key: "localField", Value: "createdBy"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "creator_doc"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$creator_doc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "creator_doc.password", Value: 0},
			{Key: "creator_doc.roles", Value: 0},
		}}},
	}
	cursor, err := r.products.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("reports: product report: %w", err)
	}
	var docs []productReportDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reports: product report: %w", err)
	}
	rows := make([]ProductRow, len(docs))
	for i, doc := range docs {
		creator := UnknownCreator
		if doc.CreatorDoc != nil && doc.CreatorDoc.Email != "" {
			creator = doc.CreatorDoc.Email
		}
		rows[i] = ProductRow{
			ID:        doc.ID.Hex(),
			Name:      doc.Name,
			Category:  doc.Category,
			Price:     doc.Price,
			Stock:     doc.Stock,
			Status:    doc.Status,
			CreatedBy: creator,
			CreatedAt: doc.CreatedAt,
		}
	}
	return rows, nil
}

func roleLabel(names []string) string {
	if len(names) == 0 {
		return NoRole
	}
	return strings.Join(names, ", ")
}
