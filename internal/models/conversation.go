package models

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ConversationID derives the document id for the direct conversation between
// two users: the ids sorted and joined with "_". Either participant can
// reconstruct it without a lookup, and both orders yield the same id. The id
// is opaque once built; the participants field, not the id, is what gets
// parsed back into user ids.
func ConversationID(a, b string) string {
	return strings.Join(ConversationParticipants(a, b), "_")
}

// ConversationParticipants returns the two user ids in their canonical
// (sorted) order.
func ConversationParticipants(a, b string) []string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids
}

// Conversation is the thread document for an unordered pair of users. Names
// caches each participant's display name under their user id so the inbox can
// label the thread without fetching the other profile.
type Conversation struct {
	ID           string            `json:"id" bson:"_id"`
	Participants []string          `json:"participants" bson:"participants"`
	LastMessage  string            `json:"lastMessage,omitempty" bson:"lastMessage,omitempty"`
	LastSenderID string            `json:"lastSenderId,omitempty" bson:"lastSenderId,omitempty"`
	LastUpdated  time.Time         `json:"lastUpdated" bson:"lastUpdated"`
	Names        map[string]string `json:"names,omitempty" bson:"names,omitempty"`
}

// OtherParticipant returns the participant that is not userID, or "" when
// userID is not part of the conversation.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

type Message struct {
	ID             bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID string        `json:"conversationId" bson:"conversationId"`
	Text           string        `json:"text" bson:"text"`
	SenderID       string        `json:"senderId" bson:"senderId"`
	SenderName     string        `json:"senderName,omitempty" bson:"senderName,omitempty"`
	CreatedAt      time.Time     `json:"createdAt" bson:"createdAt"`
}
