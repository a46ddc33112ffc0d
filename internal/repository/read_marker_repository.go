package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReadMarkerRepository keeps per-participant last-read timestamps in Redis,
// one hash per conversation keyed by user id. A conversation counts as unread
// when its lastUpdated is newer than the reader's marker.
type ReadMarkerRepository struct {
	client *redis.Client
}

func NewReadMarkerRepository(client *redis.Client) *ReadMarkerRepository {
	return &ReadMarkerRepository{client: client}
}

func readMarkerKey(conversationID string) string {
	return "lastread:" + conversationID
}

func (r *ReadMarkerRepository) Get(ctx context.Context, conversationID, userID string) (time.Time, error) {
	val, err := r.client.HGet(ctx, readMarkerKey(conversationID), userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, storeErr("get read marker", err)
	}

	millis, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, nil
	}
	return time.UnixMilli(millis).UTC(), nil
}

func (r *ReadMarkerRepository) Set(ctx context.Context, conversationID, userID string, at time.Time) error {
	err := r.client.HSet(ctx, readMarkerKey(conversationID), userID, strconv.FormatInt(at.UnixMilli(), 10)).Err()
	if err != nil {
		return storeErr("set read marker", err)
	}
	return nil
}
