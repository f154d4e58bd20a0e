package deduplication

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Record is one row of cleaned output considered for deduplication.
type Record struct {
	RowIndex int
	Data     map[string]any
	Hash     string
}

// Result summarises a deduplication run.
type Result struct {
	OriginalCount int
	KeptCount     int
	RemovedCount  int
	Records       []Record
	// Duplicates maps a removed row index to the row index it duplicated.
	Duplicates       map[int]int
	ProcessingTimeMs int64
}

// Config controls which fields identify a record and how they compare.
type Config struct {
	Fields         []string
	CaseSensitive  bool
	TrimWhitespace bool
}

// DefaultConfig compares the "text" field ignoring case and surrounding space.
func DefaultConfig() Config {
	return Config{
		Fields:         []string{"text"},
		CaseSensitive:  false,
		TrimWhitespace: true,
	}
}

// generateHash creates a SHA256 hash from the configured fields of a record.
// Missing fields hash as absent, so a row without the field never matches
// a row where it is present but empty.
func generateHash(record Record, config Config) (string, error) {
	hashData := make(map[string]any, len(config.Fields))
	for _, field := range config.Fields {
		if val, exists := record.Data[field]; exists {
			hashData[field] = normalizeValue(val, config)
		}
	}

	// encoding/json sorts map keys, which keeps the digest stable.
	jsonData, err := json.Marshal(hashData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal hash data: %w", err)
	}

	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:]), nil
}

func normalizeValue(val any, config Config) any {
	s, ok := val.(string)
	if !ok {
		return val
	}
	if config.TrimWhitespace {
		s = strings.TrimSpace(s)
	}
	if !config.CaseSensitive {
		s = strings.ToLower(s)
	}
	return s
}
