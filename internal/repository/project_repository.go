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

type ProjectRepository struct {
	collection *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{
		collection: db.Collection("projects"),
	}
}

func (r *ProjectRepository) New(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project.ID.IsZero() {
		project.ID = bson.NewObjectID()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, project); err != nil {
		return nil, storeErr("insert project", err)
	}
	return project, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	var project models.Project
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&project); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, storeErr("find project", err)
	}
	return &project, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context, query *models.ProjectListQuery) ([]*models.Project, error) {
	filter := bson.M{}
	if query.ProjectType != "" {
		filter["projectType"] = query.ProjectType
	}
	if query.Duration != "" {
		filter["duration"] = query.Duration
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((query.Page - 1) * query.PageSize)).
		SetLimit(int64(query.PageSize))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr("list projects", err)
	}
	defer cursor.Close(ctx)

	var projects []*models.Project
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, storeErr("decode projects", err)
	}
	return projects, nil
}

func (r *ProjectRepository) FindByAuthor(ctx context.Context, authorID string) ([]*models.Project, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"authorId": authorID}, opts)
	if err != nil {
		return nil, storeErr("list projects by author", err)
	}
	defer cursor.Close(ctx)

	var projects []*models.Project
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, storeErr("decode projects", err)
	}
	return projects, nil
}

// AddMember appends userID to the membership set. $addToSet makes concurrent
// accepts for the same project independent idempotent inserts, so no lock is
// needed beyond the store's atomic update.
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID string) error {
	objectID, err := bson.ObjectIDFromHex(projectID)
	if err != nil {
		return models.ErrNotFound
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$addToSet": bson.M{"members": userID}},
	)
	if err != nil {
		return storeErr("add project member", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "authorId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "projectType", Value: 1}, {Key: "duration", Value: 1}}},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return storeErr("create project indexes", err)
	}
	return nil
}
