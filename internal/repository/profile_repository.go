package repository

import (
	"context"
	"errors"
	"time"

	"projectmate-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProfileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("users"),
	}
}

// EnsureDefault creates the profile on first login if it does not exist yet,
// defaulting to an incomplete setup. Calling it again returns the stored
// profile unchanged, so the login path stays idempotent.
func (r *ProfileRepository) EnsureDefault(ctx context.Context, caller models.Caller) (*models.Profile, error) {
	now := time.Now().UTC()

	filter := bson.M{"_id": caller.UserID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"displayName":   caller.DisplayName,
			"photoURL":      caller.PhotoURL,
			"email":         caller.Email,
			"setupComplete": false,
			"createdAt":     now,
			"updatedAt":     now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var profile models.Profile
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&profile); err != nil {
		return nil, storeErr("ensure profile", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, storeErr("find profile", err)
	}
	return &profile, nil
}

// ApplyUpdate merges fields into the profile document. Only the given fields
// change; everything else keeps its stored value.
func (r *ProfileRepository) ApplyUpdate(ctx context.Context, userID string, fields map[string]any) (*models.Profile, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": set}, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, storeErr("update profile", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Profile, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeErr("list profiles", err)
	}
	defer cursor.Close(ctx)

	var profiles []*models.Profile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, storeErr("decode profiles", err)
	}
	return profiles, nil
}

func (r *ProfileRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "skills", Value: 1}}},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return storeErr("create profile indexes", err)
	}
	return nil
}
