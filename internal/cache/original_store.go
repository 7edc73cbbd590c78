package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefix for cached pre-edit content
const prefixOriginal = "post:original:"

// OriginalContent is a post's content from before the first edit of the
// current grace-period chain
type OriginalContent struct {
	Content       string `json:"content"`
	CookedContent string `json:"cooked_content"`
}

// OriginalStore remembers a post's pre-edit content across a chain of
// amend-in-place edits, so a run of rapid amends still reports the pre-chain
// baseline in history. Entries self-expire; a miss means the grace period has
// lapsed and the post's current content is the baseline.
type OriginalStore interface {
	Get(ctx context.Context, postID uint64, lastVersionAt time.Time) (*OriginalContent, bool, error)
	Set(ctx context.Context, postID uint64, lastVersionAt time.Time, original OriginalContent) error
}

type redisOriginalStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOriginalStore creates a Redis-backed OriginalStore. The TTL covers the
// grace period plus a safety margin so the baseline outlives the window it
// serves.
func NewOriginalStore(client *redis.Client, gracePeriod, margin time.Duration) OriginalStore {
	return &redisOriginalStore{
		client: client,
		ttl:    gracePeriod + margin,
	}
}

func originalKey(postID uint64, lastVersionAt time.Time) string {
	return fmt.Sprintf("%s%d:%d", prefixOriginal, postID, lastVersionAt.Unix())
}

func (s *redisOriginalStore) Get(ctx context.Context, postID uint64, lastVersionAt time.Time) (*OriginalContent, bool, error) {
	data, err := s.client.Get(ctx, originalKey(postID, lastVersionAt)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached original: %w", err)
	}

	var original OriginalContent
	if err := json.Unmarshal(data, &original); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached original: %w", err)
	}
	return &original, true, nil
}

func (s *redisOriginalStore) Set(ctx context.Context, postID uint64, lastVersionAt time.Time, original OriginalContent) error {
	data, err := json.Marshal(original)
	if err != nil {
		return fmt.Errorf("failed to encode original content: %w", err)
	}
	if err := s.client.Set(ctx, originalKey(postID, lastVersionAt), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache original content: %w", err)
	}
	return nil
}
