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

// fallbackName labels a conversation when the other participant has not
// cached a display name yet.
const fallbackName = "Student"

type ChatService struct {
	conversations ConversationStore
	readMarkers   ReadMarkerStore
	publisher     event.Publisher
	broker        *live.Broker
}

func NewChatService(conversations ConversationStore, readMarkers ReadMarkerStore, publisher event.Publisher, broker *live.Broker) *ChatService {
	return &ChatService{
		conversations: conversations,
		readMarkers:   readMarkers,
		publisher:     publisher,
		broker:        broker,
	}
}

// GetOrCreateConversation resolves the single direct conversation between the
// caller and another user. The id is derived from the two user ids alone, so
// both sides address the same thread without a lookup. Opening a thread is a
// read: the summary fields move only when a message is sent.
func (s *ChatService) GetOrCreateConversation(ctx context.Context, caller models.Caller, otherUserID string) (*models.Conversation, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}
	if otherUserID == "" || otherUserID == caller.UserID {
		return nil, fmt.Errorf("%w: conversation needs two distinct users", models.ErrInvalidInput)
	}

	id := models.ConversationID(caller.UserID, otherUserID)
	participants := models.ConversationParticipants(caller.UserID, otherUserID)

	return s.conversations.Ensure(ctx, id, participants, caller.UserID, caller.DisplayName)
}

// SendMessage appends a message and refreshes the thread summary. The
// sender's read marker advances to the send time so their own message never
// shows as unread to them.
func (s *ChatService) SendMessage(ctx context.Context, caller models.Caller, conversationID, text string) (*models.Message, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text must not be empty", models.ErrInvalidInput)
	}

	conv, err := s.participantConversation(ctx, caller, conversationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.conversations.Upsert(ctx, conv.ID, conv.Participants, text, caller.UserID, caller.DisplayName); err != nil {
		return nil, fmt.Errorf("update conversation summary: %w", err)
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		Text:           text,
		SenderID:       caller.UserID,
		SenderName:     caller.DisplayName,
		CreatedAt:      time.Now().UTC(),
	}
	created, err := s.conversations.AppendMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	if err := s.readMarkers.Set(ctx, conv.ID, caller.UserID, created.CreatedAt); err != nil {
		log.Printf("Failed to advance read marker for %s: %v", caller.UserID, err)
	}

	if s.publisher != nil {
		ev := &models.Event{
			EventType: models.EventTypeMessageSent,
			UserID:    caller.UserID,
			EntityID:  conv.ID,
			Timestamp: time.Now().UTC(),
		}
		if err := s.publisher.PublishEvent(ev); err != nil {
			log.Printf("Failed to publish %s event: %v", ev.EventType, err)
		}
	}
	if s.broker != nil {
		s.broker.Notify(live.Change{Kind: live.ChangeConversations}, conv.Participants...)
	}

	return created, nil
}

// ListMessages returns the thread ascending by server timestamp; only
// participants may read it.
func (s *ChatService) ListMessages(ctx context.Context, caller models.Caller, conversationID string) ([]*models.Message, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}
	if _, err := s.participantConversation(ctx, caller, conversationID); err != nil {
		return nil, err
	}
	return s.conversations.FindMessages(ctx, conversationID)
}

// ListConversations returns the caller's threads newest first, labelled with
// the other participant's cached name and the caller's unread state.
func (s *ChatService) ListConversations(ctx context.Context, caller models.Caller) ([]models.ConversationView, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}

	convs, err := s.conversations.FindByParticipant(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	views := make([]models.ConversationView, 0, len(convs))
	for _, conv := range convs {
		views = append(views, s.annotate(ctx, caller.UserID, conv))
	}
	return views, nil
}

// MarkRead advances the caller's read marker to now.
func (s *ChatService) MarkRead(ctx context.Context, caller models.Caller, conversationID string) error {
	if !caller.Authenticated() {
		return models.ErrNotAuthenticated
	}
	if _, err := s.participantConversation(ctx, caller, conversationID); err != nil {
		return err
	}
	return s.readMarkers.Set(ctx, conversationID, caller.UserID, time.Now().UTC())
}

func (s *ChatService) participantConversation(ctx context.Context, caller models.Caller, conversationID string) (*models.Conversation, error) {
	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(caller.UserID) {
		return nil, models.ErrNotAuthorized
	}
	return conv, nil
}

// annotate resolves the other participant's display name from the per-thread
// cache and computes the unread flag: a thread is unread when someone else
// wrote after the caller's last-read marker.
func (s *ChatService) annotate(ctx context.Context, userID string, conv *models.Conversation) models.ConversationView {
	otherID := conv.OtherParticipant(userID)

	otherName := fallbackName
	if name, ok := conv.Names[otherID]; ok && name != "" {
		otherName = name
	}

	unread := false
	if conv.LastSenderID != "" && conv.LastSenderID != userID {
		lastRead, err := s.readMarkers.Get(ctx, conv.ID, userID)
		if err != nil {
			log.Printf("Failed to read marker for %s: %v", userID, err)
		}
		unread = conv.LastUpdated.After(lastRead)
	}

	return models.ConversationView{
		Conversation: *conv,
		OtherUserID:  otherID,
		OtherName:    otherName,
		Unread:       unread,
	}
}
