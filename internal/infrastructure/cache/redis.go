package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/slidecast-team/slidecast/pkg/config"
)

// NewRedisClient creates a Redis client and verifies the connection
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Println("✅ Redis connected successfully")
	return client, nil
}

// JobLease guards the one-in-flight-job-per-pack rule across instances.
// The database check catches most duplicates; the lease closes the race
// window between check and insert.
type JobLease struct {
	client *redis.Client
	ttl    time.Duration
}

// NewJobLease creates a lease manager with the given TTL
func NewJobLease(client *redis.Client, ttl time.Duration) *JobLease {
	return &JobLease{client: client, ttl: ttl}
}

func leaseKey(packID uuid.UUID) string {
	return "job_lease:" + packID.String()
}

// Acquire takes the lease for a pack. Returns false when another job
// already holds it.
func (l *JobLease) Acquire(ctx context.Context, packID uuid.UUID) (bool, error) {
	ok, err := l.client.SetNX(ctx, leaseKey(packID), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire job lease: %w", err)
	}
	return ok, nil
}

// Release frees the lease after the job reaches a terminal state.
func (l *JobLease) Release(ctx context.Context, packID uuid.UUID) error {
	if err := l.client.Del(ctx, leaseKey(packID)).Err(); err != nil {
		return fmt.Errorf("failed to release job lease: %w", err)
	}
	return nil
}
