package deduplication

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service drops records whose cleaned fields repeat an earlier record.
type Service struct {
	config Config
	logger *slog.Logger
}

// NewService creates a deduplication service. An empty field list falls
// back to DefaultConfig's fields.
func NewService(config Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if len(config.Fields) == 0 {
		config.Fields = DefaultConfig().Fields
	}
	return &Service{config: config, logger: logger}
}

// Deduplicate keeps the first occurrence of every distinct record, in input
// order.
func (s *Service) Deduplicate(ctx context.Context, records []Record) (*Result, error) {
	startTime := time.Now()

	if len(records) == 0 {
		return &Result{Records: []Record{}, Duplicates: map[int]int{}}, nil
	}

	if err := s.generateHashes(ctx, records); err != nil {
		return nil, err
	}

	firstSeen := make(map[string]int, len(records))
	unique := make([]Record, 0, len(records))
	duplicates := make(map[int]int)

	for _, record := range records {
		if first, ok := firstSeen[record.Hash]; ok {
			duplicates[record.RowIndex] = first
			s.logger.Debug("duplicate found",
				slog.String("hash", record.Hash),
				slog.Int("row_index", record.RowIndex),
				slog.Int("first_row_index", first))
			continue
		}
		firstSeen[record.Hash] = record.RowIndex
		unique = append(unique, record)
	}

	result := &Result{
		OriginalCount:    len(records),
		KeptCount:        len(unique),
		RemovedCount:     len(records) - len(unique),
		Records:          unique,
		Duplicates:       duplicates,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	}

	s.logger.Debug("deduplication completed",
		slog.Int("original_count", result.OriginalCount),
		slog.Int("kept_count", result.KeptCount),
		slog.Int("removed_count", result.RemovedCount),
		slog.Int64("processing_time_ms", result.ProcessingTimeMs))

	return result, nil
}

func (s *Service) generateHashes(ctx context.Context, records []Record) error {
	for i := range records {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		hash, err := generateHash(records[i], s.config)
		if err != nil {
			return fmt.Errorf("failed to hash record %d: %w", records[i].RowIndex, err)
		}
		records[i].Hash = hash
	}
	return nil
}

// GetConfig returns the current configuration
func (s *Service) GetConfig() Config {
	return s.config
}
