package parsers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSONLParser reads newline-delimited JSON objects. Lines are not length
// limited, so one record may carry an arbitrarily long text.
type JSONLParser struct {
	config *ParserConfig
}

// NewJSONLParser creates a new JSONL parser
func NewJSONLParser(config *ParserConfig) *JSONLParser {
	if config == nil {
		config = DefaultParserConfig()
	}
	return &JSONLParser{config: config}
}

// Parse reads a JSONL file from disk
func (p *JSONLParser) Parse(ctx context.Context, filePath string) (*ParseResult, error) {
	file, err := openChecked(filePath, p.config.MaxFileSize)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.ParseStream(ctx, file)
}

// ParseStream decodes one object per line. Blank lines are skipped; lines
// that are not a JSON object are skipped and reported in MalformedRows.
// Numbers keep their source text so ids survive a round trip.
func (p *JSONLParser) ParseStream(ctx context.Context, r io.Reader) (*ParseResult, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	result := &ParseResult{
		Records: []Record{},
		Format:  "JSONL",
	}
	seen := make(map[string]struct{})

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("error reading JSONL stream at row %d: %w", result.TotalRows+1, readErr)
		}
		if len(line) == 0 && readErr != nil {
			break
		}

		result.TotalRows++
		p.addLine(result, seen, bytes.TrimSpace(line))

		if readErr != nil {
			break
		}
	}

	return result, nil
}

func (p *JSONLParser) addLine(result *ParseResult, seen map[string]struct{}, line []byte) {
	if len(line) == 0 {
		result.SkippedRows++
		return
	}

	record, err := decodeObject(line)
	if err != nil {
		result.SkippedRows++
		result.MalformedRows = append(result.MalformedRows, result.TotalRows)
		return
	}
	if p.config.SkipEmptyRows && len(record) == 0 {
		result.SkippedRows++
		return
	}

	for _, key := range sortedKeys(record) {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			result.Columns = append(result.Columns, key)
		}
	}
	result.Records = append(result.Records, record)
}

// decodeObject decodes exactly one JSON object from line.
func decodeObject(line []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var record Record
	if err := dec.Decode(&record); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("null is not an object")
	}
	if dec.More() {
		return nil, errors.New("trailing data after object")
	}
	return record, nil
}

// SupportedFormats returns the file extensions this parser supports
func (p *JSONLParser) SupportedFormats() []string {
	return []string{".jsonl", ".ndjson", ".jsonnl"}
}
