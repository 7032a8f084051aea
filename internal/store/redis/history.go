package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/armada/internal/domain"
)

const (
	// DefaultRunTTL bounds how long an individual run report is kept.
	DefaultRunTTL = 30 * 24 * time.Hour
	// MaxRuns bounds the run index length.
	MaxRuns = 50
)

// Store persists deployment run history in Redis. It is optional
// infrastructure: deploys still write their JSON report file when Redis is
// not configured.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// SaveRun stores the report and pushes its ID onto the run index, trimming
// the index to MaxRuns.
func (s *Store) SaveRun(ctx context.Context, report *domain.RunReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	if err := s.client.Set(ctx, RunKey(report.ID), data, DefaultRunTTL).Err(); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}
	if err := s.client.LPush(ctx, RunIndexKey(), report.ID).Err(); err != nil {
		return fmt.Errorf("failed to index run report: %w", err)
	}
	if err := s.client.LTrim(ctx, RunIndexKey(), 0, MaxRuns-1).Err(); err != nil {
		return fmt.Errorf("failed to trim run index: %w", err)
	}
	return nil
}

// RecentRuns returns up to n run reports, newest first. Reports whose TTL
// expired are skipped.
func (s *Store) RecentRuns(ctx context.Context, n int) ([]domain.RunReport, error) {
	if n <= 0 || n > MaxRuns {
		n = MaxRuns
	}

	ids, err := s.client.LRange(ctx, RunIndexKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run index: %w", err)
	}

	runs := make([]domain.RunReport, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, RunKey(id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get run %s: %w", id, err)
		}
		var report domain.RunReport
		if err := json.Unmarshal(data, &report); err != nil {
			continue
		}
		runs = append(runs, report)
	}
	return runs, nil
}
