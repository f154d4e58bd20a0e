package parsers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses JSON files holding one object or an array of objects
type JSONParser struct {
	config *ParserConfig
}

// NewJSONParser creates a new JSON parser
func NewJSONParser(config *ParserConfig) *JSONParser {
	if config == nil {
		config = DefaultParserConfig()
	}
	return &JSONParser{
		config: config,
	}
}

// Parse reads and parses a JSON file from disk
func (p *JSONParser) Parse(ctx context.Context, filePath string) (*ParseResult, error) {
	file, err := openChecked(filePath, p.config.MaxFileSize)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.ParseStream(ctx, file)
}

// ParseStream reads and parses JSON data from an io.Reader
func (p *JSONParser) ParseStream(ctx context.Context, r io.Reader) (*ParseResult, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		var single Record
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("expected an object or an array of objects: %w", err)
		}
		records = []Record{single}
	}

	kept := make([]Record, 0, len(records))
	columns := make([]string, 0)
	seen := make(map[string]bool)
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.config.SkipEmptyRows && len(record) == 0 {
			continue
		}
		for _, key := range sortedKeys(record) {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
		kept = append(kept, record)
	}

	return &ParseResult{
		Records:     kept,
		TotalRows:   len(records),
		SkippedRows: len(records) - len(kept),
		Columns:     columns,
		Format:      "JSON",
	}, nil
}

// SupportedFormats returns the file extensions this parser supports
func (p *JSONParser) SupportedFormats() []string {
	return []string{".json"}
}
