package themis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const policyKeyPrefix = "minos:policy:"

// RedisStore is a Redis-backed Store sharing its keyspace layout with the
// rest of the minos keys.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr string, db int, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func policyKey(name string) string {
	return policyKeyPrefix + name
}

func (s *RedisStore) Get(ctx context.Context, name string) (*QueuePermission, error) {
	val, err := s.client.Get(ctx, policyKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get policy %q: %w", name, err)
	}
	return UnmarshalPolicy([]byte(val))
}

func (s *RedisStore) Put(ctx context.Context, name string, p *QueuePermission) error {
	data, err := MarshalPolicy(p)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, policyKey(name), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store policy %q: %w", name, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, policyKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), policyKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan policies: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	n, err := s.client.Del(ctx, policyKey(name)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete policy %q: %w", name, err)
	}
	if n == 0 {
		return ErrPolicyNotFound
	}
	return nil
}
