package skilltest

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix    = "skilltest:session:"
	redisMarkerPrefix = "skilltest:issued:"

	markerIssued   = "issued"
	markerConsumed = "consumed"

	// how long a marker outlives its session
	markerRetention = 24 * time.Hour
)

// RedisStore keeps sessions server-side; the client only holds the random session id.
// A marker key per issued id records whether the session was submitted.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	markerTTL time.Duration
}

// NewRedisStore connects to addr and checks the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, grace time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStoreWithClient(client, grace), nil
}

func NewRedisStoreWithClient(client *redis.Client, grace time.Duration) *RedisStore {
	ttl := TimeLimitSeconds*time.Second + grace
	return &RedisStore{client: client, ttl: ttl, markerTTL: ttl + markerRetention}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Issue(ctx context.Context, sess *Session) (string, error) {
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKeyPrefix+sess.ID, payload, s.ttl)
		pipe.Set(ctx, redisMarkerPrefix+sess.ID, markerIssued, s.markerTTL)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store test session: %w", err)
	}
	return sess.ID, nil
}

func (s *RedisStore) Open(ctx context.Context, token string) (*Session, error) {
	if !validSessionID(token) {
		return nil, ErrInvalidSession
	}
	raw, err := s.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, s.classifyMissing(ctx, token)
	}
	if err != nil {
		return nil, fmt.Errorf("load test session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, ErrInvalidSession
	}
	return &sess, nil
}

// classifyMissing explains a session key that is gone.
func (s *RedisStore) classifyMissing(ctx context.Context, id string) error {
	marker, err := s.client.Get(ctx, redisMarkerPrefix+id).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return ErrInvalidSession
	case err != nil:
		return fmt.Errorf("load test session marker: %w", err)
	case marker == markerConsumed:
		return ErrSessionConsumed
	}
	return ErrSessionExpired
}

// Consume deletes the key and flips the marker; only one caller can observe the delete.
func (s *RedisStore) Consume(ctx context.Context, sess *Session) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, redisKeyPrefix+sess.ID)
		pipe.Set(ctx, redisMarkerPrefix+sess.ID, markerConsumed, s.markerTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("consume test session: %w", err)
	}
	if del.Val() == 0 {
		return ErrSessionConsumed
	}
	return nil
}

func validSessionID(token string) bool {
	if len(token) != 32 {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}
