package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"projectmate-service/internal/event"
	"projectmate-service/internal/live"
	"projectmate-service/internal/models"
)

type ProjectService struct {
	projects  ProjectStore
	publisher event.Publisher
	broker    *live.Broker
}

func NewProjectService(projects ProjectStore, publisher event.Publisher, broker *live.Broker) *ProjectService {
	return &ProjectService{
		projects:  projects,
		publisher: publisher,
		broker:    broker,
	}
}

// CreateProject posts a new project with the caller as its sole leader. The
// author's display fields are snapshotted onto the document and the author is
// the first member.
func (s *ProjectService) CreateProject(ctx context.Context, caller models.Caller, req *models.CreateProjectRequest) (*models.Project, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}
	if err := validateProjectRequest(req); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       strings.TrimSpace(req.Title),
		Tagline:     strings.TrimSpace(req.Tagline),
		Description: strings.TrimSpace(req.Description),
		ProjectType: req.ProjectType,
		TechStack:   req.TechStack,
		RolesNeeded: req.RolesNeeded,
		Duration:    req.Duration,
		AuthorID:    caller.UserID,
		AuthorName:  caller.DisplayName,
		AuthorPhoto: caller.PhotoURL,
		Members:     []string{caller.UserID},
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.projects.New(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if s.publisher != nil {
		ev := &models.Event{
			EventType: models.EventTypeProjectCreated,
			UserID:    caller.UserID,
			ProjectID: created.ID.Hex(),
			Timestamp: time.Now().UTC(),
		}
		if err := s.publisher.PublishEvent(ev); err != nil {
			log.Printf("Failed to publish %s event: %v", ev.EventType, err)
		}
	}
	if s.broker != nil {
		s.broker.Notify(live.Change{Kind: live.ChangeProjects}, caller.UserID)
	}

	return created, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if id == "" {
		return nil, models.ErrInvalidInput
	}
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) ListProjects(ctx context.Context, query *models.ProjectListQuery) ([]*models.Project, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}
	if query.ProjectType != "" && !models.ProjectType(query.ProjectType).Valid() {
		return nil, fmt.Errorf("%w: unknown project type %q", models.ErrInvalidInput, query.ProjectType)
	}
	return s.projects.FindAll(ctx, query)
}

func (s *ProjectService) ListByAuthor(ctx context.Context, caller models.Caller) ([]*models.Project, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}
	return s.projects.FindByAuthor(ctx, caller.UserID)
}

func validateProjectRequest(req *models.CreateProjectRequest) error {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	case strings.TrimSpace(req.Tagline) == "":
		return fmt.Errorf("%w: tagline is required", models.ErrInvalidInput)
	case strings.TrimSpace(req.Description) == "":
		return fmt.Errorf("%w: description is required", models.ErrInvalidInput)
	case !req.ProjectType.Valid():
		return fmt.Errorf("%w: unknown project type %q", models.ErrInvalidInput, req.ProjectType)
	case !models.ValidDuration(req.Duration):
		return fmt.Errorf("%w: unknown duration %q", models.ErrInvalidInput, req.Duration)
	case len(req.RolesNeeded) == 0:
		return fmt.Errorf("%w: at least one role is required", models.ErrInvalidInput)
	case len(req.TechStack) == 0:
		return fmt.Errorf("%w: at least one technology is required", models.ErrInvalidInput)
	}
	return nil
}
