package deduplication

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(values ...any) []Record {
	out := make([]Record, len(values))
	for i, v := range values {
		out[i] = Record{RowIndex: i, Data: map[string]any{"text": v}}
	}
	return out
}

func TestService_Deduplicate_ExactMatch(t *testing.T) {
	service := NewService(DefaultConfig(), nil)

	result, err := service.Deduplicate(context.Background(),
		records("hello world", "hello world", "goodbye", "hello world"))
	require.NoError(t, err)

	assert.Equal(t, 4, result.OriginalCount)
	assert.Equal(t, 2, result.KeptCount)
	assert.Equal(t, 2, result.RemovedCount)
	assert.Equal(t, map[int]int{1: 0, 3: 0}, result.Duplicates)

	kept := make([]int, 0, len(result.Records))
	for _, r := range result.Records {
		kept = append(kept, r.RowIndex)
	}
	assert.Equal(t, []int{0, 2}, kept)
}

func TestService_Deduplicate_Normalization(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		values  []any
		removed int
	}{
		{
			name:    "case insensitive",
			config:  DefaultConfig(),
			values:  []any{"Hello", "hello", "HELLO"},
			removed: 2,
		},
		{
			name:    "case sensitive",
			config:  Config{Fields: []string{"text"}, CaseSensitive: true, TrimWhitespace: true},
			values:  []any{"Hello", "hello"},
			removed: 0,
		},
		{
			name:    "trims whitespace",
			config:  DefaultConfig(),
			values:  []any{"  hello ", "hello"},
			removed: 1,
		},
		{
			name:    "keeps whitespace",
			config:  Config{Fields: []string{"text"}},
			values:  []any{"  hello ", "hello"},
			removed: 0,
		},
		{
			name:    "non-string values",
			config:  DefaultConfig(),
			values:  []any{float64(1), float64(1), "1"},
			removed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewService(tt.config, nil).Deduplicate(context.Background(), records(tt.values...))
			require.NoError(t, err)
			assert.Equal(t, tt.removed, result.RemovedCount)
		})
	}
}

func TestService_Deduplicate_MultipleFields(t *testing.T) {
	service := NewService(Config{Fields: []string{"title", "body"}}, nil)

	input := []Record{
		{RowIndex: 0, Data: map[string]any{"title": "a", "body": "x", "id": 1}},
		{RowIndex: 1, Data: map[string]any{"title": "a", "body": "y", "id": 2}},
		{RowIndex: 2, Data: map[string]any{"title": "a", "body": "x", "id": 3}},
		{RowIndex: 3, Data: map[string]any{"title": "a", "id": 4}},
	}

	result, err := service.Deduplicate(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 3, result.KeptCount)
	assert.Equal(t, map[int]int{2: 0}, result.Duplicates)
}

func TestService_Deduplicate_Empty(t *testing.T) {
	result, err := NewService(Config{}, nil).Deduplicate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.OriginalCount)
	assert.Empty(t, result.Records)
}

func TestService_Deduplicate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(DefaultConfig(), nil).Deduplicate(ctx, records("a", "a"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewService_DefaultFields(t *testing.T) {
	service := NewService(Config{CaseSensitive: true}, nil)
	assert.Equal(t, []string{"text"}, service.GetConfig().Fields)
	assert.True(t, service.GetConfig().CaseSensitive)
}
