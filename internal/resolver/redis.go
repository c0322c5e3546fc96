package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the meeting and user ID mapping tables in Redis. Mappings
// are written when meetings are created and users join, and expire after the
// configured TTL so stale entries do not accumulate.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a mapping store on an existing Redis client.
// prefix namespaces the mapping keys; ttl of zero means no expiry.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "webhook-bridge:mapping"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStore) meetingKey(internalID string) string {
	return s.prefix + ":meeting:" + internalID
}

func (s *RedisStore) userKey(internalID string) string {
	return s.prefix + ":user:" + internalID
}

// ExternalMeetingID implements MeetingResolver.
func (s *RedisStore) ExternalMeetingID(ctx context.Context, internalID string) (string, error) {
	return s.lookup(ctx, s.meetingKey(internalID))
}

// ExternalUserID implements UserResolver.
func (s *RedisStore) ExternalUserID(ctx context.Context, internalID string) (string, error) {
	return s.lookup(ctx, s.userKey(internalID))
}

func (s *RedisStore) lookup(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", ErrUnavailable, key, err)
	}
	return val, nil
}

// RecordMeeting stores the internal-to-external meeting ID mapping.
func (s *RedisStore) RecordMeeting(ctx context.Context, internalID, externalID string) error {
	if err := s.client.Set(ctx, s.meetingKey(internalID), externalID, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set meeting mapping: %v", ErrUnavailable, err)
	}
	return nil
}

// RecordUser stores the internal-to-external user ID mapping.
func (s *RedisStore) RecordUser(ctx context.Context, internalID, externalID string) error {
	if err := s.client.Set(ctx, s.userKey(internalID), externalID, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set user mapping: %v", ErrUnavailable, err)
	}
	return nil
}

// RemoveMeeting drops the mapping for a meeting that has ended.
func (s *RedisStore) RemoveMeeting(ctx context.Context, internalID string) error {
	if err := s.client.Del(ctx, s.meetingKey(internalID)).Err(); err != nil {
		return fmt.Errorf("%w: del meeting mapping: %v", ErrUnavailable, err)
	}
	return nil
}

// RemoveUser drops the mapping for a user that has left.
func (s *RedisStore) RemoveUser(ctx context.Context, internalID string) error {
	if err := s.client.Del(ctx, s.userKey(internalID)).Err(); err != nil {
		return fmt.Errorf("%w: del user mapping: %v", ErrUnavailable, err)
	}
	return nil
}
