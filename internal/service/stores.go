// Package service holds the core workflows: profile lifecycle, project
// posting, the application state machine, chat, and the inbox aggregation.
// Services consume narrow store interfaces; the mongo repositories satisfy
// them in production and the tests plug in in-memory fakes.
package service

import (
	"context"
	"time"

	"projectmate-service/internal/models"
)

type ProfileStore interface {
	EnsureDefault(ctx context.Context, caller models.Caller) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	ApplyUpdate(ctx context.Context, userID string, fields map[string]any) (*models.Profile, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Profile, error)
}

type ProjectStore interface {
	New(ctx context.Context, project *models.Project) (*models.Project, error)
	FindByID(ctx context.Context, id string) (*models.Project, error)
	FindAll(ctx context.Context, query *models.ProjectListQuery) ([]*models.Project, error)
	FindByAuthor(ctx context.Context, authorID string) ([]*models.Project, error)
	AddMember(ctx context.Context, projectID, userID string) error
}

type ApplicationStore interface {
	New(ctx context.Context, app *models.Application) (*models.Application, error)
	FindByID(ctx context.Context, id string) (*models.Application, error)
	SetStatusIfPending(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error)
	FindPendingByLeader(ctx context.Context, leaderID string) ([]*models.Application, error)
	FindByApplicant(ctx context.Context, applicantID string) ([]*models.Application, error)
}

type ConversationStore interface {
	Ensure(ctx context.Context, id string, participants []string, userID, displayName string) (*models.Conversation, error)
	Upsert(ctx context.Context, id string, participants []string, lastMessage, senderID, senderName string) (*models.Conversation, error)
	FindByID(ctx context.Context, id string) (*models.Conversation, error)
	FindByParticipant(ctx context.Context, userID string) ([]*models.Conversation, error)
	AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	FindMessages(ctx context.Context, conversationID string) ([]*models.Message, error)
}

type ReadMarkerStore interface {
	Get(ctx context.Context, conversationID, userID string) (time.Time, error)
	Set(ctx context.Context, conversationID, userID string, at time.Time) error
}
