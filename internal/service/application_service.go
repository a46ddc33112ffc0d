package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"projectmate-service/internal/event"
	"projectmate-service/internal/live"
	"projectmate-service/internal/matching"
	"projectmate-service/internal/models"
)

// ApplicationService owns the application state machine:
// submit -> pending -> accepted | declined. Both terminal states are final;
// the only idempotent re-entry is accepting an already-accepted application,
// which is a no-op because the membership append is a set union.
type ApplicationService struct {
	applications ApplicationStore
	projects     ProjectStore
	profiles     ProfileStore
	publisher    event.Publisher
	broker       *live.Broker
}

func NewApplicationService(
	applications ApplicationStore,
	projects ProjectStore,
	profiles ProfileStore,
	publisher event.Publisher,
	broker *live.Broker,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		projects:     projects,
		profiles:     profiles,
		publisher:    publisher,
		broker:       broker,
	}
}

// Submit creates a pending application from the caller to the project. All
// validation happens before the single insert, so a rejected submission
// leaves no partial state. The applicant display fields and the project's
// leader/title are snapshotted at this moment and never re-resolved.
func (s *ApplicationService) Submit(ctx context.Context, caller models.Caller, projectID, message string) (*models.Application, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message must not be empty", models.ErrInvalidInput)
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project for application: %w", err)
	}
	if project.AuthorID == caller.UserID {
		return nil, fmt.Errorf("%w: cannot apply to your own project", models.ErrInvalidInput)
	}

	skillMatch := 0
	var matchedTech []string
	if profile, err := s.profiles.FindByUserID(ctx, caller.UserID); err == nil {
		skillMatch = matching.Score(profile.Skills, project.TechStack)
		matchedTech = matching.Matched(profile.Skills, project.TechStack)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("load applicant profile: %w", err)
	}

	app := &models.Application{
		ProjectID:      projectID,
		ProjectTitle:   project.Title,
		LeaderID:       project.AuthorID,
		ApplicantID:    caller.UserID,
		ApplicantName:  caller.DisplayName,
		ApplicantEmail: caller.Email,
		ApplicantPhoto: caller.PhotoURL,
		Message:        message,
		SkillMatch:     skillMatch,
		MatchedTech:    matchedTech,
		Status:         models.StatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	// The store enforces uniqueness on (applicant, project) for live
	// applications, so the guard holds even when two clients race.
	created, err := s.applications.New(ctx, app)
	if err != nil {
		return nil, err
	}

	s.publish(models.EventTypeApplicationSubmitted, created)
	s.notify(created)

	return created, nil
}

// Accept resolves a pending application in the applicant's favor and records
// them as a member of the project. Only the leader snapshotted on the
// application may call it. Re-accepting an already-accepted application is a
// no-op.
func (s *ApplicationService) Accept(ctx context.Context, caller models.Caller, applicationID string) (*models.Application, error) {
	app, err := s.authorize(ctx, caller, applicationID)
	if err != nil {
		return nil, err
	}

	if app.Status == models.StatusAccepted {
		// Re-accept is a no-op for the status, but the membership append
		// still runs: if a previous accept flipped the status and then failed
		// before recording the member, the retry repairs it. AddMember is a
		// set union, so the applicant never appears twice.
		if err := s.ensureMember(ctx, app); err != nil {
			return nil, err
		}
		return app, nil
	}
	if app.Status.Terminal() {
		return nil, models.ErrInvalidTransition
	}

	updated, err := s.applications.SetStatusIfPending(ctx, applicationID, models.StatusAccepted)
	if err != nil {
		// Lost a race with another resolution of the same application. If it
		// resolved to accepted we are still the idempotent case.
		if errors.Is(err, models.ErrInvalidTransition) {
			if current, findErr := s.applications.FindByID(ctx, applicationID); findErr == nil && current.Status == models.StatusAccepted {
				if memberErr := s.ensureMember(ctx, current); memberErr != nil {
					return nil, memberErr
				}
				return current, nil
			}
		}
		return nil, err
	}

	if err := s.ensureMember(ctx, updated); err != nil {
		return nil, err
	}

	s.publish(models.EventTypeApplicationAccepted, updated)
	s.notify(updated)

	return updated, nil
}

// Decline resolves a pending application against the applicant. No membership
// side effect.
func (s *ApplicationService) Decline(ctx context.Context, caller models.Caller, applicationID string) (*models.Application, error) {
	app, err := s.authorize(ctx, caller, applicationID)
	if err != nil {
		return nil, err
	}

	if app.Status.Terminal() {
		return nil, models.ErrInvalidTransition
	}

	updated, err := s.applications.SetStatusIfPending(ctx, applicationID, models.StatusDeclined)
	if err != nil {
		return nil, err
	}

	s.publish(models.EventTypeApplicationDeclined, updated)
	s.notify(updated)

	return updated, nil
}

// ListForLeader returns the caller's pending inbox, newest first, each entry
// carrying the skill-match score computed at submission time.
func (s *ApplicationService) ListForLeader(ctx context.Context, caller models.Caller) ([]*models.Application, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}
	return s.applications.FindPendingByLeader(ctx, caller.UserID)
}

func (s *ApplicationService) ListForApplicant(ctx context.Context, caller models.Caller) ([]*models.Application, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}
	return s.applications.FindByApplicant(ctx, caller.UserID)
}

// authorize loads the application and checks that the caller is the leader it
// was submitted to. Authorization binds exactly one leader per application,
// so two leaders never race on the same one.
func (s *ApplicationService) authorize(ctx context.Context, caller models.Caller, applicationID string) (*models.Application, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}

	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.LeaderID != caller.UserID {
		return nil, models.ErrNotAuthorized
	}
	return app, nil
}

func (s *ApplicationService) ensureMember(ctx context.Context, app *models.Application) error {
	if err := s.projects.AddMember(ctx, app.ProjectID, app.ApplicantID); err != nil {
		return fmt.Errorf("record project membership: %w", err)
	}
	return nil
}

func (s *ApplicationService) publish(eventType models.EventType, app *models.Application) {
	if s.publisher == nil {
		return
	}
	ev := &models.Event{
		EventType: eventType,
		UserID:    app.ApplicantID,
		ProjectID: app.ProjectID,
		EntityID:  app.ID.Hex(),
		Timestamp: time.Now().UTC(),
		Payload:   map[string]any{"leaderId": app.LeaderID, "status": app.Status},
	}
	if err := s.publisher.PublishEvent(ev); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}

func (s *ApplicationService) notify(app *models.Application) {
	if s.broker == nil {
		return
	}
	s.broker.Notify(live.Change{Kind: live.ChangeApplications}, app.LeaderID, app.ApplicantID)
}
