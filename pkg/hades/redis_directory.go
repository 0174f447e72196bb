package hades

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tartarus-sandbox/minos/pkg/domain"
)

const queueKeyPrefix = "minos:queue:"

// RedisDirectory is a Redis-backed implementation of Directory and
// Registrar, one JSON record per queue.
type RedisDirectory struct {
	client *redis.Client
}

// NewRedisDirectory connects to Redis and verifies the connection.
func NewRedisDirectory(addr string, db int, password string) (*RedisDirectory, error) {
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

	return &RedisDirectory{client: client}, nil
}

func queueKey(path domain.QueuePath) string {
	return queueKeyPrefix + path.Fold()
}

// Register adds a queue record, rejecting duplicate paths.
func (d *RedisDirectory) Register(ctx context.Context, info domain.QueueInfo) error {
	if info.Path == "" || info.FormatName == "" || info.Path.IsWildcard() {
		return ErrInvalidRegistration
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal queue record: %w", err)
	}

	ok, err := d.client.SetNX(ctx, queueKey(info.Path), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to register queue: %w", err)
	}
	if !ok {
		return ErrDuplicateQueue
	}
	return nil
}

// Deregister removes a queue record.
func (d *RedisDirectory) Deregister(ctx context.Context, path domain.QueuePath) error {
	n, err := d.client.Del(ctx, queueKey(path)).Result()
	if err != nil {
		return fmt.Errorf("failed to deregister queue: %w", err)
	}
	if n == 0 {
		return ErrQueueNotFound
	}
	return nil
}

// List returns every record ordered by path.
func (d *RedisDirectory) List(ctx context.Context) ([]domain.QueueInfo, error) {
	var infos []domain.QueueInfo
	iter := d.client.Scan(ctx, 0, queueKeyPrefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		key := iter.Val()
		val, err := d.client.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // Key removed during iteration
			}
			return nil, fmt.Errorf("failed to get queue key %s: %w", key, err)
		}

		var info domain.QueueInfo
		if err := json.Unmarshal([]byte(val), &info); err != nil {
			continue // Skip corrupt entries
		}
		infos = append(infos, info)
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan queues: %w", err)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Path.Fold() < infos[j].Path.Fold() })
	return infos, nil
}

// Resolve maps a path to its format name.
func (d *RedisDirectory) Resolve(ctx context.Context, path domain.QueuePath) (domain.FormatName, error) {
	val, err := d.client.Get(ctx, queueKey(path)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrQueueNotFound
		}
		return "", fmt.Errorf("failed to resolve queue: %w", err)
	}

	var info domain.QueueInfo
	if err := json.Unmarshal([]byte(val), &info); err != nil {
		return "", fmt.Errorf("failed to unmarshal queue record: %w", err)
	}
	return info.FormatName, nil
}

// Enumerate returns the format names of every matching queue.
func (d *RedisDirectory) Enumerate(ctx context.Context, c domain.Criteria) ([]domain.FormatName, error) {
	infos, err := d.List(ctx)
	if err != nil {
		return nil, err
	}

	var names []domain.FormatName
	for _, info := range infos {
		if c.Matches(info) {
			names = append(names, info.FormatName)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Fold() < names[j].Fold() })
	return names, nil
}
