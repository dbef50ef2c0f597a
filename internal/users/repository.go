package users

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
	users *mongo.Collection
	now   func() time.Time
}

// NewRepository constructs a repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{users: db.Collection(platformmongo.CollectionUsers), now: time.Now}
}

// List returns all users, newest first.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	cursor, err := r.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	var recs []Record
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	return recs, nil
}

// FindByID loads one user.
func (r *Repository) FindByID(ctx context.Context, id bson.ObjectID) (Record, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// FindByEmail loads the user owning email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (Record, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *Repository) findOne(ctx context.Context, filter bson.D) (Record, error) {
	var rec Record
	if err := r.users.FindOne(ctx, filter).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrUserNotFound
		}
		return Record{}, fmt.Errorf("users: find: %w", err)
	}
	return rec, nil
}

// Insert stores a new user.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	rec.ID = bson.NewObjectID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Roles == nil {
		rec.Roles = []bson.ObjectID{}
	}
	if _, err := r.users.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Record{}, ErrEmailTaken
		}
		return Record{}, fmt.Errorf("users: insert: %w", err)
	}
	return rec, nil
}

// Update applies changes and returns the stored result.
func (r *Repository) Update(ctx context.Context, id bson.ObjectID, changes Changes) (Record, error) {
	set := bson.D{
		{Key: "username", Value: changes.Username},
		{Key: "email", Value: changes.Email},
		{Key: "updatedAt", Value: r.now().UTC()},
	}
	if changes.PasswordHash != nil {
		set = append(set, bson.E{Key: "password", Value: *changes.PasswordHash})
	}
	if changes.Roles != nil {
		set = append(set, bson.E{Key: "roles", Value: *changes.Roles})
	}

	var rec Record
	err := r.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rec)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return Record{}, ErrUserNotFound
	case mongo.IsDuplicateKeyError(err):
		return Record{}, ErrEmailTaken
	case err != nil:
		return Record{}, fmt.Errorf("users: update: %w", err)
	}
	return rec, nil
}

// Delete removes a user.
func (r *Repository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.users.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpsertByEmail creates the user when the email is free and otherwise
// leaves the stored user untouched. It reports whether a user was created.
func (r *Repository) UpsertByEmail(ctx context.Context, rec Record) (bool, error) {
	now := r.now().UTC()
	res, err := r.users.UpdateOne(ctx,
		bson.D{{Key: "email", Value: rec.Email}},
		bson.D{{Key: "$setOnInsert", Value: bson.D{
			{Key: "username", Value: rec.Username},
			{Key: "password", Value: rec.Password},
			{Key: "roles", Value: rec.Roles},
			{Key: "createdAt", Value: now},
			{Key: "updatedAt", Value: now},
		}}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("users: upsert %s: %w", rec.Email, err)
	}
	return res.UpsertedCount > 0, nil
}
