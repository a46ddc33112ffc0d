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

type ApplicationRepository struct {
	collection *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{
		collection: db.Collection("applications"),
	}
}

// New inserts a pending application. The unique partial index on
// (applicantId, projectId) is the duplicate-submission guard: when two
// clients race, the store accepts exactly one insert and the loser gets
// ErrDuplicateApplication.
func (r *ApplicationRepository) New(ctx context.Context, app *models.Application) (*models.Application, error) {
	if app.ID.IsZero() {
		app.ID = bson.NewObjectID()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, app); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateApplication
		}
		return nil, storeErr("insert application", err)
	}
	return app, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	var app models.Application
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&app); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, storeErr("find application", err)
	}
	return &app, nil
}

// SetStatusIfPending flips a pending application to status. The filter pins
// status=pending so the flip is a single conditional write: if the document
// exists but is no longer pending, ErrInvalidTransition comes back and
// nothing changes.
func (r *ApplicationRepository) SetStatusIfPending(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	now := time.Now().UTC()
	filter := bson.M{"_id": objectID, "status": models.StatusPending}
	update := bson.M{"$set": bson.M{"status": status, "resolvedAt": now}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var app models.Application
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&app)
	if err == nil {
		return &app, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storeErr("update application status", err)
	}

	// Nothing matched: either the application is gone or it already left
	// pending. Distinguish for the caller.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, models.ErrInvalidTransition
}

func (r *ApplicationRepository) FindPendingByLeader(ctx context.Context, leaderID string) ([]*models.Application, error) {
	filter := bson.M{"leaderId": leaderID, "status": models.StatusPending}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr("list pending applications", err)
	}
	defer cursor.Close(ctx)

	var apps []*models.Application
	if err = cursor.All(ctx, &apps); err != nil {
		return nil, storeErr("decode applications", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) FindByApplicant(ctx context.Context, applicantID string) ([]*models.Application, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"applicantId": applicantID}, opts)
	if err != nil {
		return nil, storeErr("list applications by applicant", err)
	}
	defer cursor.Close(ctx)

	var apps []*models.Application
	if err = cursor.All(ctx, &apps); err != nil {
		return nil, storeErr("decode applications", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			// One live (pending or accepted) application per applicant and
			// project. Declined applications fall outside the partial filter,
			// so an applicant may reapply after being declined.
			Keys: bson.D{{Key: "applicantId", Value: 1}, {Key: "projectId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": bson.A{models.StatusPending, models.StatusAccepted}},
				}),
		},
		{Keys: bson.D{{Key: "leaderId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return storeErr("create application indexes", err)
	}
	return nil
}
