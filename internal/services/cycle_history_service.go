package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/messageflow/backend/internal/models"
	"go.uber.org/zap"
)

const (
	cycleHistoryKey         = "messageflow:cycles"
	defaultCycleHistorySize = 100
)

// CycleHistoryStore is the part of the Redis client the cycle history needs
type CycleHistoryStore interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

type cycleHistoryService struct {
	store  CycleHistoryStore
	size   int
	logger *zap.Logger
}

// NewCycleHistoryService creates a cycle history keeping the newest size records in a Redis list
func NewCycleHistoryService(store CycleHistoryStore, size int, logger *zap.Logger) *cycleHistoryService {
	if size <= 0 {
		size = defaultCycleHistorySize
	}
	return &cycleHistoryService{
		store:  store,
		size:   size,
		logger: logger,
	}
}

// Record prepends record to the history and drops the oldest entries past the size limit
func (s *cycleHistoryService) Record(ctx context.Context, record models.CycleRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal cycle record: %w", err)
	}

	if err := s.store.LPush(ctx, cycleHistoryKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to push cycle record: %w", err)
	}
	if err := s.store.LTrim(ctx, cycleHistoryKey, 0, int64(s.size-1)).Err(); err != nil {
		return fmt.Errorf("failed to trim cycle history: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first
func (s *cycleHistoryService) Recent(ctx context.Context, limit int) ([]models.CycleRecord, error) {
	if limit <= 0 || limit > s.size {
		limit = s.size
	}

	raw, err := s.store.LRange(ctx, cycleHistoryKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cycle history: %w", err)
	}

	records := make([]models.CycleRecord, 0, len(raw))
	for _, item := range raw {
		var record models.CycleRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			s.logger.Warn("skipping malformed cycle record", zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
