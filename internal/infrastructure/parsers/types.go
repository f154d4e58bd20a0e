package parsers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// Record represents a single data record as a map
type Record map[string]any

// Text returns the value of column as a string. Numbers and booleans from
// JSON sources are rendered with fmt; nested values are not text.
func (r Record) Text(column string) (string, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64, bool, int, int64:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}

// ParseResult contains parsing statistics
type ParseResult struct {
	Records     []Record
	TotalRows   int
	SkippedRows int
	Columns     []string
	Format      string

	// MalformedRows lists 1-based rows that could not be decoded. They are
	// also counted in SkippedRows.
	MalformedRows []int
}

// HasColumn reports whether column appeared in the input.
func (r *ParseResult) HasColumn(column string) bool {
	for _, c := range r.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Texts returns the text value of column for every record, in order.
// Records where the column is missing or not text yield an empty string.
func (r *ParseResult) Texts(column string) ([]string, error) {
	if !r.HasColumn(column) {
		return nil, fmt.Errorf("column %q not found, available: %v", column, r.Columns)
	}
	texts := make([]string, len(r.Records))
	for i, rec := range r.Records {
		texts[i], _ = rec.Text(column)
	}
	return texts, nil
}

// SetColumn replaces column in every record with values[i].
func (r *ParseResult) SetColumn(column string, values []string) error {
	if len(values) != len(r.Records) {
		return fmt.Errorf("got %d values for %d records", len(values), len(r.Records))
	}
	for i, rec := range r.Records {
		rec[column] = values[i]
	}
	return nil
}

// FileParser is the interface all parsers must implement
type FileParser interface {
	// Parse reads and parses the file from the given path
	Parse(ctx context.Context, filePath string) (*ParseResult, error)

	// ParseStream reads and parses from an io.Reader
	ParseStream(ctx context.Context, reader io.Reader) (*ParseResult, error)

	// SupportedFormats returns the file extensions this parser supports
	SupportedFormats() []string
}

// ParserConfig holds configuration for all parsers
type ParserConfig struct {
	// SkipEmptyRows determines if empty rows should be skipped
	SkipEmptyRows bool

	// TrimHeaders trims column names. Cell values are never touched; cleaning
	// them is the caller's job.
	TrimHeaders bool

	// TextColumn names the single column produced by the plain text parser
	TextColumn string

	// Sheet names the worksheet read from workbooks; empty means the first
	Sheet string

	// MaxFileSize is the maximum file size in bytes (0 = unlimited)
	MaxFileSize int64
}

// DefaultParserConfig returns sensible defaults
func DefaultParserConfig() *ParserConfig {
	return &ParserConfig{
		SkipEmptyRows: true,
		TrimHeaders:   true,
		TextColumn:    "text",
		MaxFileSize:   500 * 1024 * 1024, // 500 MB
	}
}

// openChecked opens filePath after enforcing the size limit.
func openChecked(filePath string, maxSize int64) (*os.File, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	if maxSize > 0 {
		stat, err := file.Stat()
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		if stat.Size() > maxSize {
			file.Close()
			return nil, fmt.Errorf("file size %d exceeds maximum %d", stat.Size(), maxSize)
		}
	}
	return file, nil
}

func sortedKeys(r Record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
