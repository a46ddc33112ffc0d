package service

import (
	"context"
	"errors"
	"testing"

	"projectmate-service/internal/event"
	"projectmate-service/internal/live"
	"projectmate-service/internal/models"
)

type chatFixture struct {
	conversations *fakeConversationStore
	readMarkers   *fakeReadMarkerStore
	service       *ChatService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		conversations: newFakeConversationStore(),
		readMarkers:   newFakeReadMarkerStore(),
	}
	f.service = NewChatService(f.conversations, f.readMarkers, event.NewMockPublisher(), live.NewBroker())
	return f
}

func TestGetOrCreateConversation(t *testing.T) {
	f := newChatFixture()

	fromAlice, err := f.service.GetOrCreateConversation(context.Background(), alice, bob.UserID)
	if err != nil {
		t.Fatalf("GetOrCreateConversation returned error: %v", err)
	}
	fromBob, err := f.service.GetOrCreateConversation(context.Background(), bob, alice.UserID)
	if err != nil {
		t.Fatalf("GetOrCreateConversation returned error: %v", err)
	}

	if fromAlice.ID != fromBob.ID {
		t.Errorf("conversation ids differ by direction: %s vs %s", fromAlice.ID, fromBob.ID)
	}
	if !fromAlice.HasParticipant(alice.UserID) || !fromAlice.HasParticipant(bob.UserID) {
		t.Errorf("participants = %v, want both users", fromAlice.Participants)
	}
}

func TestGetOrCreateConversationValidation(t *testing.T) {
	f := newChatFixture()

	if _, err := f.service.GetOrCreateConversation(context.Background(), models.Caller{}, bob.UserID); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Errorf("unauthenticated error = %v, want ErrNotAuthenticated", err)
	}
	if _, err := f.service.GetOrCreateConversation(context.Background(), alice, alice.UserID); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("self conversation error = %v, want ErrInvalidInput", err)
	}
	if _, err := f.service.GetOrCreateConversation(context.Background(), alice, ""); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("empty other user error = %v, want ErrInvalidInput", err)
	}
}

func TestSendMessageOrdering(t *testing.T) {
	f := newChatFixture()
	conv, err := f.service.GetOrCreateConversation(context.Background(), alice, bob.UserID)
	if err != nil {
		t.Fatalf("GetOrCreateConversation returned error: %v", err)
	}

	texts := []string{"hey", "are you free this week?", "yes, let's talk"}
	senders := []models.Caller{alice, alice, bob}
	for i, text := range texts {
		if _, err := f.service.SendMessage(context.Background(), senders[i], conv.ID, text); err != nil {
			t.Fatalf("SendMessage(%q) returned error: %v", text, err)
		}
	}

	msgs, err := f.service.ListMessages(context.Background(), bob, conv.ID)
	if err != nil {
		t.Fatalf("ListMessages returned error: %v", err)
	}
	if len(msgs) != len(texts) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(texts))
	}
	for i, msg := range msgs {
		if msg.Text != texts[i] {
			t.Errorf("message %d = %q, want %q", i, msg.Text, texts[i])
		}
		if i > 0 && msg.CreatedAt.Before(msgs[i-1].CreatedAt) {
			t.Errorf("message %d timestamp precedes message %d", i, i-1)
		}
	}
}

func TestSendMessageAuthorization(t *testing.T) {
	f := newChatFixture()
	conv, err := f.service.GetOrCreateConversation(context.Background(), alice, bob.UserID)
	if err != nil {
		t.Fatalf("GetOrCreateConversation returned error: %v", err)
	}

	if _, err := f.service.SendMessage(context.Background(), carol, conv.ID, "hi"); !errors.Is(err, models.ErrNotAuthorized) {
		t.Errorf("outsider SendMessage error = %v, want ErrNotAuthorized", err)
	}
	if _, err := f.service.ListMessages(context.Background(), carol, conv.ID); !errors.Is(err, models.ErrNotAuthorized) {
		t.Errorf("outsider ListMessages error = %v, want ErrNotAuthorized", err)
	}
	if _, err := f.service.SendMessage(context.Background(), alice, conv.ID, "  "); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("blank text error = %v, want ErrInvalidInput", err)
	}
	if _, err := f.service.SendMessage(context.Background(), alice, "missing", "hi"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown conversation error = %v, want ErrNotFound", err)
	}
}

func findConversation(t *testing.T, views []models.ConversationView, id string) models.ConversationView {
	t.Helper()
	for _, v := range views {
		if v.ID == id {
			return v
		}
	}
	t.Fatalf("conversation %s not in list", id)
	return models.ConversationView{}
}

func TestUnreadLifecycle(t *testing.T) {
	f := newChatFixture()
	conv, err := f.service.GetOrCreateConversation(context.Background(), bob, alice.UserID)
	if err != nil {
		t.Fatalf("GetOrCreateConversation returned error: %v", err)
	}

	if _, err := f.service.SendMessage(context.Background(), bob, conv.ID, "ping"); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	// The receiver sees the thread as unread, the sender does not.
	aliceViews, err := f.service.ListConversations(context.Background(), alice)
	if err != nil {
		t.Fatalf("ListConversations returned error: %v", err)
	}
	if v := findConversation(t, aliceViews, conv.ID); !v.Unread {
		t.Error("receiver's conversation not marked unread after new message")
	}

	bobViews, err := f.service.ListConversations(context.Background(), bob)
	if err != nil {
		t.Fatalf("ListConversations returned error: %v", err)
	}
	if v := findConversation(t, bobViews, conv.ID); v.Unread {
		t.Error("sender's own message marked unread")
	}

	// Reading clears the flag until the next incoming message.
	if err := f.service.MarkRead(context.Background(), alice, conv.ID); err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	aliceViews, _ = f.service.ListConversations(context.Background(), alice)
	if v := findConversation(t, aliceViews, conv.ID); v.Unread {
		t.Error("conversation still unread after MarkRead")
	}

	if _, err := f.service.SendMessage(context.Background(), bob, conv.ID, "ping again"); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	aliceViews, _ = f.service.ListConversations(context.Background(), alice)
	if v := findConversation(t, aliceViews, conv.ID); !v.Unread {
		t.Error("conversation not unread after a fresh incoming message")
	}
}

func TestReopeningThreadKeepsReadState(t *testing.T) {
	f := newChatFixture()
	conv, err := f.service.GetOrCreateConversation(context.Background(), bob, alice.UserID)
	if err != nil {
		t.Fatalf("GetOrCreateConversation returned error: %v", err)
	}
	if _, err := f.service.SendMessage(context.Background(), bob, conv.ID, "ping"); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if err := f.service.MarkRead(context.Background(), alice, conv.ID); err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}

	views, err := f.service.ListConversations(context.Background(), alice)
	if err != nil {
		t.Fatalf("ListConversations returned error: %v", err)
	}
	read := findConversation(t, views, conv.ID)
	if read.Unread {
		t.Fatal("conversation unread after MarkRead")
	}

	// Opening the thread again is a read, not a write: it must not move
	// lastUpdated, reorder the list, or make the thread unread again for
	// the participant who already read it.
	reopened, err := f.service.GetOrCreateConversation(context.Background(), bob, alice.UserID)
	if err != nil {
		t.Fatalf("second GetOrCreateConversation returned error: %v", err)
	}
	if !reopened.LastUpdated.Equal(read.LastUpdated) {
		t.Errorf("reopening moved lastUpdated from %v to %v", read.LastUpdated, reopened.LastUpdated)
	}

	views, err = f.service.ListConversations(context.Background(), alice)
	if err != nil {
		t.Fatalf("ListConversations returned error: %v", err)
	}
	if v := findConversation(t, views, conv.ID); v.Unread {
		t.Error("reopening the thread without a new message made it unread for the other participant")
	}
}

func TestGetOrCreateConversationUnderscoreIDs(t *testing.T) {
	f := newChatFixture()
	first := models.Caller{UserID: "user_a", DisplayName: "A"}
	second := models.Caller{UserID: "team_b_lead", DisplayName: "B"}

	conv, err := f.service.GetOrCreateConversation(context.Background(), first, second.UserID)
	if err != nil {
		t.Fatalf("GetOrCreateConversation returned error: %v", err)
	}
	if len(conv.Participants) != 2 {
		t.Fatalf("participants = %v, want exactly the two user ids", conv.Participants)
	}
	if !conv.HasParticipant(first.UserID) || !conv.HasParticipant(second.UserID) {
		t.Errorf("participants = %v, want %s and %s", conv.Participants, first.UserID, second.UserID)
	}
	if conv.OtherParticipant(first.UserID) != second.UserID {
		t.Errorf("OtherParticipant = %s, want %s", conv.OtherParticipant(first.UserID), second.UserID)
	}
}

func TestConversationNameFallback(t *testing.T) {
	f := newChatFixture()
	conv, err := f.service.GetOrCreateConversation(context.Background(), alice, bob.UserID)
	if err != nil {
		t.Fatalf("GetOrCreateConversation returned error: %v", err)
	}

	// Bob has never written, so his name is not cached yet.
	views, err := f.service.ListConversations(context.Background(), alice)
	if err != nil {
		t.Fatalf("ListConversations returned error: %v", err)
	}
	if v := findConversation(t, views, conv.ID); v.OtherName != fallbackName {
		t.Errorf("OtherName = %q, want fallback %q", v.OtherName, fallbackName)
	}

	if _, err := f.service.SendMessage(context.Background(), bob, conv.ID, "hello"); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	views, _ = f.service.ListConversations(context.Background(), alice)
	if v := findConversation(t, views, conv.ID); v.OtherName != bob.DisplayName {
		t.Errorf("OtherName = %q, want cached %q", v.OtherName, bob.DisplayName)
	}
}
