package service

import (
	"context"
	"log"
	"time"

	"projectmate-service/internal/live"
	"projectmate-service/internal/models"
)

// InboxService derives the notification badge and inbox screens from the live
// stores: pending applications addressed to the user as leader, plus their
// conversations. Nothing is cached between recomputations; every change
// notification triggers a fresh read.
type InboxService struct {
	applications ApplicationStore
	chat         *ChatService
	broker       *live.Broker
}

func NewInboxService(applications ApplicationStore, chat *ChatService, broker *live.Broker) *InboxService {
	return &InboxService{
		applications: applications,
		chat:         chat,
		broker:       broker,
	}
}

// Snapshot computes the caller's inbox view. HasUnread is true when the
// caller has any pending application to decide on, or any conversation with a
// message they have not read yet.
func (s *InboxService) Snapshot(ctx context.Context, caller models.Caller) (*models.InboxView, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}

	pending, err := s.applications.FindPendingByLeader(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	conversations, err := s.chat.ListConversations(ctx, caller)
	if err != nil {
		return nil, err
	}

	hasUnread := len(pending) > 0
	for _, conv := range conversations {
		if conv.Unread {
			hasUnread = true
			break
		}
	}

	return &models.InboxView{
		PendingCount:  len(pending),
		PendingList:   pending,
		Conversations: conversations,
		HasUnread:     hasUnread,
		ComputedAt:    time.Now().UTC(),
	}, nil
}

// Subscribe emits a fresh snapshot whenever a change notification for the
// caller arrives, starting with the current state. Cancelling ctx releases
// the subscription and closes the channel.
func (s *InboxService) Subscribe(ctx context.Context, caller models.Caller) (<-chan *models.InboxView, error) {
	if !caller.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}

	changes := s.broker.Subscribe(ctx, caller.UserID)
	out := make(chan *models.InboxView, 1)

	go func() {
		defer close(out)

		emit := func() {
			view, err := s.Snapshot(ctx, caller)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("Failed to recompute inbox for %s: %v", caller.UserID, err)
				}
				return
			}
			select {
			case out <- view:
			case <-ctx.Done():
			}
		}

		emit()
		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return
				}
				emit()
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
