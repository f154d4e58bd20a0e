package parsers

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelParser parses Excel files (.xlsx, .xls)
type ExcelParser struct {
	config *ParserConfig
}

// NewExcelParser creates a new Excel parser
func NewExcelParser(config *ParserConfig) *ExcelParser {
	if config == nil {
		config = DefaultParserConfig()
	}
	return &ExcelParser{
		config: config,
	}
}

// Parse reads and parses an Excel file from disk
func (p *ExcelParser) Parse(ctx context.Context, filePath string) (*ParseResult, error) {
	file, err := openChecked(filePath, p.config.MaxFileSize)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.ParseStream(ctx, file)
}

// ParseStream reads a workbook from r. Cells are read as displayed strings.
func (p *ExcelParser) ParseStream(ctx context.Context, r io.Reader) (*ParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel workbook: %w", err)
	}
	defer f.Close()

	sheet, err := p.sheetName(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	result := &ParseResult{
		Records: []Record{},
		Columns: []string{},
		Format:  "XLSX",
	}

	first := true
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d of sheet %s: %w", result.TotalRows+1, sheet, err)
		}

		if first {
			first = false
			if p.config.TrimHeaders {
				row = trimHeader(row)
			}
			result.Columns = row
			continue
		}

		result.TotalRows++
		if p.config.SkipEmptyRows && isEmptyRow(row) {
			result.SkippedRows++
			continue
		}
		result.Records = append(result.Records, rowToRecord(result.Columns, row))
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate sheet %s: %w", sheet, err)
	}

	return result, nil
}

func (p *ExcelParser) sheetName(f *excelize.File) (string, error) {
	if p.config.Sheet == "" {
		name := f.GetSheetName(0)
		if name == "" {
			return "", fmt.Errorf("no sheets found in Excel file")
		}
		return name, nil
	}

	idx, err := f.GetSheetIndex(p.config.Sheet)
	if err != nil || idx < 0 {
		return "", fmt.Errorf("sheet %q not found, available: %v", p.config.Sheet, f.GetSheetList())
	}
	return p.config.Sheet, nil
}

// SupportedFormats returns the file extensions this parser supports
func (p *ExcelParser) SupportedFormats() []string {
	return []string{".xlsx", ".xls"}
}
