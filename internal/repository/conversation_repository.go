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

type ConversationRepository struct {
	chats    *mongo.Collection
	messages *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{
		chats:    db.Collection("chats"),
		messages: db.Collection("messages"),
	}
}

// Ensure creates the conversation document on first contact and returns the
// stored one otherwise. Opening a thread is a read: lastUpdated is stamped
// only on insert, so reopening never reorders the list or flips unread state
// for the other side. The caller's display name is cached under their user id
// either way.
func (r *ConversationRepository) Ensure(ctx context.Context, id string, participants []string, userID, displayName string) (*models.Conversation, error) {
	update := bson.M{
		"$setOnInsert": bson.M{
			"participants": participants,
			"lastUpdated":  time.Now().UTC(),
		},
		"$set": bson.M{"names." + userID: displayName},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var conv models.Conversation
	if err := r.chats.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&conv); err != nil {
		return nil, storeErr("ensure conversation", err)
	}
	return &conv, nil
}

// Upsert refreshes the thread summary for a new message: lastMessage,
// lastSenderId and lastUpdated, plus the sender's display name cache. Only
// the message path calls this; everything else reads.
func (r *ConversationRepository) Upsert(ctx context.Context, id string, participants []string, lastMessage, senderID, senderName string) (*models.Conversation, error) {
	update := bson.M{
		"$setOnInsert": bson.M{"participants": participants},
		"$set": bson.M{
			"lastMessage":       lastMessage,
			"lastSenderId":      senderID,
			"lastUpdated":       time.Now().UTC(),
			"names." + senderID: senderName,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var conv models.Conversation
	if err := r.chats.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&conv); err != nil {
		return nil, storeErr("upsert conversation", err)
	}
	return &conv, nil
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&conv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, storeErr("find conversation", err)
	}
	return &conv, nil
}

func (r *ConversationRepository) FindByParticipant(ctx context.Context, userID string) ([]*models.Conversation, error) {
	opts := options.Find().SetSort(bson.M{"lastUpdated": -1})

	cursor, err := r.chats.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, storeErr("list conversations", err)
	}
	defer cursor.Close(ctx)

	var convs []*models.Conversation
	if err = cursor.All(ctx, &convs); err != nil {
		return nil, storeErr("decode conversations", err)
	}
	return convs, nil
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	if _, err := r.messages.InsertOne(ctx, msg); err != nil {
		return nil, storeErr("insert message", err)
	}
	return msg, nil
}

// FindMessages returns the conversation's messages ascending by the
// server-assigned timestamp; local insertion order is not trusted.
func (r *ConversationRepository) FindMessages(ctx context.Context, conversationID string) ([]*models.Message, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})

	cursor, err := r.messages.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, storeErr("list messages", err)
	}
	defer cursor.Close(ctx)

	var msgs []*models.Message
	if err = cursor.All(ctx, &msgs); err != nil {
		return nil, storeErr("decode messages", err)
	}
	return msgs, nil
}

func (r *ConversationRepository) CreateIndexes(ctx context.Context) error {
	chatIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "lastUpdated", Value: -1}}},
	}
	if _, err := r.chats.Indexes().CreateMany(ctx, chatIndexes); err != nil {
		return storeErr("create chat indexes", err)
	}

	messageIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: 1}}},
	}
	if _, err := r.messages.Indexes().CreateMany(ctx, messageIndexes); err != nil {
		return storeErr("create message indexes", err)
	}
	return nil
}
