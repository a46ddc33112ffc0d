package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"projectmate-service/internal/event"
	"projectmate-service/internal/models"
)

type ProfileService struct {
	profiles  ProfileStore
	publisher event.Publisher
}

func NewProfileService(profiles ProfileStore, publisher event.Publisher) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		publisher: publisher,
	}
}

// EnsureProfile is the first-login path: it creates a default, incomplete
// profile for the caller if none exists and returns the stored one otherwise.
func (s *ProfileService) EnsureProfile(ctx context.Context, caller models.Caller) (*models.Profile, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}
	return s.profiles.EnsureDefault(ctx, caller)
}

// UpdateProfile merges the given fields into the caller's own profile.
// setupComplete flips to true once the mandatory onboarding fields (bio,
// roles, skills) are all filled; it never flips back.
func (s *ProfileService) UpdateProfile(ctx context.Context, caller models.Caller, dto *models.ProfileDTO) (*models.Profile, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}

	existing, err := s.profiles.FindByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("load profile for update: %w", err)
	}

	fields := map[string]any{}
	if dto.DisplayName != nil {
		fields["displayName"] = *dto.DisplayName
		existing.DisplayName = *dto.DisplayName
	}
	if dto.PhotoURL != nil {
		fields["photoURL"] = *dto.PhotoURL
	}
	if dto.Branch != nil {
		fields["branch"] = *dto.Branch
	}
	if dto.Year != nil {
		fields["year"] = *dto.Year
	}
	if dto.Bio != nil {
		fields["bio"] = *dto.Bio
		existing.Bio = *dto.Bio
	}
	if dto.Roles != nil {
		fields["roles"] = dto.Roles
		existing.Roles = dto.Roles
	}
	if dto.Skills != nil {
		fields["skills"] = dto.Skills
		existing.Skills = dto.Skills
	}
	if dto.Socials != nil {
		fields["socials"] = dto.Socials
	}

	if len(fields) == 0 {
		return existing, nil
	}

	if !existing.SetupComplete && existing.OnboardingComplete() {
		fields["setupComplete"] = true
	}

	updated, err := s.profiles.ApplyUpdate(ctx, caller.UserID, fields)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.publish(&models.Event{
		EventType: models.EventTypeProfileUpdated,
		UserID:    caller.UserID,
		Timestamp: time.Now().UTC(),
	})

	return updated, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, models.ErrInvalidInput
	}
	return s.profiles.FindByUserID(ctx, userID)
}

func (s *ProfileService) ListProfiles(ctx context.Context, page, limit int) ([]*models.Profile, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.profiles.FindAll(ctx, page, limit)
}

func (s *ProfileService) publish(ev *models.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ev); err != nil {
		log.Printf("Failed to publish %s event: %v", ev.EventType, err)
	}
}
