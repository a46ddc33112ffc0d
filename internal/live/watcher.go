package live

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Watcher tails the change streams of the applications and chats collections
// and republishes every write onto the broker, so writes performed by other
// service instances still reach local subscribers.
type Watcher struct {
	applications *mongo.Collection
	chats        *mongo.Collection
	broker       *Broker
}

func NewWatcher(db *mongo.Database, broker *Broker) *Watcher {
	return &Watcher{
		applications: db.Collection("applications"),
		chats:        db.Collection("chats"),
		broker:       broker,
	}
}

// Start launches one goroutine per watched collection. The goroutines exit
// when ctx is cancelled; on stream errors they back off and reopen.
func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx, w.applications, ChangeApplications, applicationTopics)
	go w.watch(ctx, w.chats, ChangeConversations, conversationTopics)
}

type changeDoc struct {
	OperationType string `bson:"operationType"`
	FullDocument  bson.M `bson:"fullDocument"`
}

func (w *Watcher) watch(ctx context.Context, coll *mongo.Collection, kind ChangeKind, topics func(bson.M) []string) {
	for {
		if ctx.Err() != nil {
			return
		}

		opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
		stream, err := coll.Watch(ctx, mongo.Pipeline{}, opts)
		if err != nil {
			log.Printf("Failed to open change stream on %s: %v", coll.Name(), err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
				continue
			}
		}

		for stream.Next(ctx) {
			var change changeDoc
			if err := stream.Decode(&change); err != nil {
				log.Printf("Failed to decode change on %s: %v", coll.Name(), err)
				continue
			}
			if change.FullDocument == nil {
				continue
			}
			w.broker.Notify(Change{Kind: kind}, topics(change.FullDocument)...)
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Printf("Change stream on %s ended: %v", coll.Name(), err)
		}
		stream.Close(context.Background())
	}
}

// applicationTopics routes an application change to both sides of it.
func applicationTopics(doc bson.M) []string {
	var topics []string
	if v, ok := doc["leaderId"].(string); ok {
		topics = append(topics, v)
	}
	if v, ok := doc["applicantId"].(string); ok {
		topics = append(topics, v)
	}
	return topics
}

func conversationTopics(doc bson.M) []string {
	raw, ok := doc["participants"].(bson.A)
	if !ok {
		return nil
	}
	var topics []string
	for _, p := range raw {
		if v, ok := p.(string); ok {
			topics = append(topics, v)
		}
	}
	return topics
}
