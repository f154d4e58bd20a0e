package parsers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// TextParser reads plain text, one record per line, into a single column.
type TextParser struct {
	config *ParserConfig
}

// NewTextParser creates a new plain text parser
func NewTextParser(config *ParserConfig) *TextParser {
	if config == nil {
		config = DefaultParserConfig()
	}
	return &TextParser{
		config: config,
	}
}

// Parse reads and parses a text file from disk
func (p *TextParser) Parse(ctx context.Context, filePath string) (*ParseResult, error) {
	file, err := openChecked(filePath, p.config.MaxFileSize)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.ParseStream(ctx, file)
}

// ParseStream reads lines from r. Line endings are stripped; everything else
// on the line is kept verbatim.
func (p *TextParser) ParseStream(ctx context.Context, r io.Reader) (*ParseResult, error) {
	column := p.config.TextColumn
	if column == "" {
		column = "text"
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	records := make([]Record, 0)
	totalRows := 0
	skippedRows := 0

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := strings.TrimSuffix(scanner.Text(), "\r")
		totalRows++

		if p.config.SkipEmptyRows && strings.TrimSpace(line) == "" {
			skippedRows++
			continue
		}
		records = append(records, Record{column: line})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading text stream: %w", err)
	}

	return &ParseResult{
		Records:     records,
		TotalRows:   totalRows,
		SkippedRows: skippedRows,
		Columns:     []string{column},
		Format:      "TXT",
	}, nil
}

// SupportedFormats returns the file extensions this parser supports
func (p *TextParser) SupportedFormats() []string {
	return []string{".txt", ".text"}
}
