package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"projectmate-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// In-memory stores mirroring the mongo repositories' contracts, including the
// uniqueness guard and the conditional status flip, so the workflow tests can
// exercise the services without a database.

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileStore) EnsureDefault(_ context.Context, caller models.Caller) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.profiles[caller.UserID]; ok {
		cp := *existing
		return &cp, nil
	}
	now := time.Now().UTC()
	p := &models.Profile{
		UserID:      caller.UserID,
		DisplayName: caller.DisplayName,
		Email:       caller.Email,
		PhotoURL:    caller.PhotoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.profiles[caller.UserID] = p
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) FindByUserID(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, models.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) ApplyUpdate(_ context.Context, userID string, fields map[string]any) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, models.ErrNotFound)
	}
	for key, value := range fields {
		switch key {
		case "displayName":
			p.DisplayName = value.(string)
		case "photoURL":
			p.PhotoURL = value.(string)
		case "branch":
			p.Branch = value.(string)
		case "year":
			p.Year = value.(string)
		case "bio":
			p.Bio = value.(string)
		case "roles":
			p.Roles = value.([]string)
		case "skills":
			p.Skills = value.([]string)
		case "socials":
			p.Socials = value.(*models.Socials)
		case "setupComplete":
			p.SetupComplete = value.(bool)
		}
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) FindAll(_ context.Context, page, limit int) ([]*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*models.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[string]*models.Project
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]*models.Project)}
}

func (f *fakeProjectStore) New(_ context.Context, project *models.Project) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *project
	cp.ID = bson.NewObjectID()
	f.projects[cp.ID.Hex()] = &cp
	out := cp
	return &out, nil
}

func (f *fakeProjectStore) FindByID(_ context.Context, id string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, models.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectStore) FindAll(_ context.Context, query *models.ProjectListQuery) ([]*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Project
	for _, p := range f.projects {
		if query.ProjectType != "" && string(p.ProjectType) != query.ProjectType {
			continue
		}
		if query.Duration != "" && p.Duration != query.Duration {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProjectStore) FindByAuthor(_ context.Context, authorID string) ([]*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Project
	for _, p := range f.projects {
		if p.AuthorID == authorID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProjectStore) AddMember(_ context.Context, projectID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[projectID]
	if !ok {
		return fmt.Errorf("project %s: %w", projectID, models.ErrNotFound)
	}
	for _, m := range p.Members {
		if m == userID {
			return nil
		}
	}
	p.Members = append(p.Members, userID)
	return nil
}

type fakeApplicationStore struct {
	mu   sync.Mutex
	apps map[string]*models.Application
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{apps: make(map[string]*models.Application)}
}

// New enforces the same uniqueness guard as the partial index: at most one
// live (pending or accepted) application per (applicant, project) pair.
func (f *fakeApplicationStore) New(_ context.Context, app *models.Application) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.apps {
		if existing.ApplicantID == app.ApplicantID && existing.ProjectID == app.ProjectID && existing.Status != models.StatusDeclined {
			return nil, fmt.Errorf("application for project %s: %w", app.ProjectID, models.ErrDuplicateApplication)
		}
	}
	cp := *app
	cp.ID = bson.NewObjectID()
	f.apps[cp.ID.Hex()] = &cp
	out := cp
	return &out, nil
}

func (f *fakeApplicationStore) FindByID(_ context.Context, id string) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, models.ErrNotFound)
	}
	cp := *app
	return &cp, nil
}

func (f *fakeApplicationStore) SetStatusIfPending(_ context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, models.ErrNotFound)
	}
	if app.Status != models.StatusPending {
		return nil, models.ErrInvalidTransition
	}
	now := time.Now().UTC()
	app.Status = status
	app.ResolvedAt = &now
	cp := *app
	return &cp, nil
}

func (f *fakeApplicationStore) FindPendingByLeader(_ context.Context, leaderID string) ([]*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Application
	for _, app := range f.apps {
		if app.LeaderID == leaderID && app.Status == models.StatusPending {
			cp := *app
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeApplicationStore) FindByApplicant(_ context.Context, applicantID string) ([]*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Application
	for _, app := range f.apps {
		if app.ApplicantID == applicantID {
			cp := *app
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeConversationStore struct {
	mu       sync.Mutex
	convs    map[string]*models.Conversation
	messages map[string][]*models.Message
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		convs:    make(map[string]*models.Conversation),
		messages: make(map[string][]*models.Message),
	}
}

func (f *fakeConversationStore) Ensure(_ context.Context, id string, participants []string, userID, displayName string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.convs[id]
	if !ok {
		conv = &models.Conversation{
			ID:           id,
			Participants: participants,
			Names:        make(map[string]string),
			LastUpdated:  time.Now().UTC(),
		}
		f.convs[id] = conv
	}
	if displayName != "" {
		conv.Names[userID] = displayName
	}
	cp := *conv
	return &cp, nil
}

func (f *fakeConversationStore) Upsert(_ context.Context, id string, participants []string, lastMessage, senderID, senderName string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.convs[id]
	if !ok {
		conv = &models.Conversation{
			ID:           id,
			Participants: participants,
			Names:        make(map[string]string),
		}
		f.convs[id] = conv
	}
	conv.LastUpdated = time.Now().UTC()
	if senderName != "" {
		conv.Names[senderID] = senderName
	}
	conv.LastMessage = lastMessage
	conv.LastSenderID = senderID
	cp := *conv
	return &cp, nil
}

func (f *fakeConversationStore) FindByID(_ context.Context, id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.convs[id]
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", id, models.ErrNotFound)
	}
	cp := *conv
	return &cp, nil
}

func (f *fakeConversationStore) FindByParticipant(_ context.Context, userID string) ([]*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Conversation
	for _, conv := range f.convs {
		for _, p := range conv.Participants {
			if p == userID {
				cp := *conv
				out = append(out, &cp)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUpdated.After(out[j].LastUpdated) })
	return out, nil
}

func (f *fakeConversationStore) AppendMessage(_ context.Context, msg *models.Message) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *msg
	cp.ID = bson.NewObjectID()
	f.messages[cp.ConversationID] = append(f.messages[cp.ConversationID], &cp)
	out := cp
	return &out, nil
}

func (f *fakeConversationStore) FindMessages(_ context.Context, conversationID string) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.messages[conversationID]
	out := make([]*models.Message, 0, len(msgs))
	for _, m := range msgs {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeReadMarkerStore struct {
	mu      sync.Mutex
	markers map[string]time.Time
}

func newFakeReadMarkerStore() *fakeReadMarkerStore {
	return &fakeReadMarkerStore{markers: make(map[string]time.Time)}
}

func (f *fakeReadMarkerStore) Get(_ context.Context, conversationID, userID string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markers[conversationID+"|"+userID], nil
}

func (f *fakeReadMarkerStore) Set(_ context.Context, conversationID, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markers[conversationID+"|"+userID] = at
	return nil
}
