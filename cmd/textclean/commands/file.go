package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaning"
	"github.com/aalekhpatel07/text-cleaner/internal/core/services/deduplication"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/parsers"
	"github.com/aalekhpatel07/text-cleaner/internal/output"
)

func newFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Clean columns of a CSV, JSON, JSONL, XLSX or text file",
		Long: `Parse a tabular file, clean the chosen columns of every record
and write the records back out.

Plain text files have a single column named "text", one record per
non-empty line.

Examples:
  textclean file comments.csv -c body -p redact
  textclean file export.xlsx -c title -c summary -t trim --format yaml -o clean.yaml
  textclean file notes.txt -p ascii --format text
  textclean file tweets.jsonl -c text -p redact --dedupe --format jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: runFile,
	}

	flags := cmd.Flags()
	flags.StringSliceP("column", "c", nil, "column(s) to clean (default: text)")
	flags.StringArrayP("transform", "t", nil, "transformation to apply, in order (can be repeated)")
	flags.StringP("preset", "p", "", "preset to apply in catalog order")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml, text")
	flags.Bool("keep-empty", false, "keep empty rows")
	flags.String("sheet", "", "worksheet to read from workbooks (default: first sheet)")
	flags.Bool("dedupe", false, "drop records whose cleaned columns repeat an earlier record")
	flags.Bool("case-sensitive", false, "compare case when deduplicating")
	flags.String("max-size", "", "per-text size limit, e.g. 4MB (default from CLEANER_MAX_TEXT_BYTES)")

	return cmd
}

func runFile(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := args[0]
	columns, _ := cmd.Flags().GetStringSlice("column")
	if len(columns) == 0 {
		columns = []string{parsers.DefaultParserConfig().TextColumn}
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	if format == output.FormatText && len(columns) != 1 {
		return fmt.Errorf("text output needs exactly one column, got %d", len(columns))
	}

	parserCfg := parsers.DefaultParserConfig()
	keepEmpty, _ := cmd.Flags().GetBool("keep-empty")
	parserCfg.SkipEmptyRows = !keepEmpty
	parserCfg.Sheet, _ = cmd.Flags().GetString("sheet")
	factory := parsers.NewParserFactory(parserCfg)
	if !factory.IsSupported(filepath.Ext(path)) {
		return fmt.Errorf("unsupported file type %q, supported: %s",
			filepath.Ext(path), strings.Join(factory.SupportedFormats(), ", "))
	}

	start := time.Now()
	result, err := factory.ParseFile(ctx, path)
	if err != nil {
		log.Error("failed to parse file", "path", path, "error", err)
		return err
	}
	log.Debug("file parsed",
		"path", path,
		"format", result.Format,
		"records", len(result.Records),
		"skipped", result.SkippedRows,
		"columns", result.Columns)
	if n := len(result.MalformedRows); n > 0 {
		log.Warn("skipped malformed rows", "path", path, "count", n, "rows", result.MalformedRows)
	}

	if err := applyMaxSize(cmd, cfg); err != nil {
		return err
	}
	svc, err := newCleaningService(cfg, log, "cli")
	if err != nil {
		return err
	}

	preset, _ := cmd.Flags().GetString("preset")
	transforms := transformFlag(cmd)
	var pipeline []string
	for _, column := range columns {
		texts, err := result.Texts(column)
		if err != nil {
			return err
		}
		res, err := svc.CleanBatch(ctx, cleaning.BatchRequest{
			Texts:           texts,
			Transformations: transforms,
			Preset:          preset,
		})
		if err != nil {
			logError("column %s: %v", column, err)
			return err
		}
		if err := result.SetColumn(column, res.Texts); err != nil {
			return err
		}
		pipeline = res.Transformations
	}

	cleaned := len(result.Records)
	if dedupe, _ := cmd.Flags().GetBool("dedupe"); dedupe {
		caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
		if err := dedupeRecords(ctx, result, columns, caseSensitive, log); err != nil {
			return err
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			log.Error("failed to create output file", "path", outPath, "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	writer, err := output.NewWriter(out, format)
	if err != nil {
		return err
	}
	for _, rec := range result.Records {
		var item any = map[string]any(rec)
		if format == output.FormatText {
			item, _ = rec.Text(columns[0])
		}
		if err := writer.Write(item); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	applied := strings.Join(pipeline, " -> ")
	if applied == "" {
		applied = "no transformations"
	}
	logInfo("cleaned %s in %s of %s with %s (%s)",
		pluralTexts(cleaned*len(columns)),
		pluralColumns(len(columns)),
		filepath.Base(path),
		applied,
		time.Since(start).Round(time.Millisecond))
	return nil
}

func dedupeRecords(ctx context.Context, result *parsers.ParseResult, columns []string, caseSensitive bool, log *slog.Logger) error {
	records := make([]deduplication.Record, len(result.Records))
	for i, rec := range result.Records {
		records[i] = deduplication.Record{RowIndex: i, Data: rec}
	}

	deduper := deduplication.NewService(deduplication.Config{
		Fields:         columns,
		CaseSensitive:  caseSensitive,
		TrimWhitespace: true,
	}, log)
	res, err := deduper.Deduplicate(ctx, records)
	if err != nil {
		return err
	}

	kept := make([]parsers.Record, len(res.Records))
	for i, rec := range res.Records {
		kept[i] = rec.Data
	}
	result.Records = kept
	if res.RemovedCount > 0 {
		logInfo("removed %s", pluralDuplicates(res.RemovedCount))
	}
	return nil
}

func pluralDuplicates(n int) string {
	if n == 1 {
		return "1 duplicate"
	}
	return humanize.Comma(int64(n)) + " duplicates"
}

func pluralColumns(n int) string {
	if n == 1 {
		return "1 column"
	}
	return humanize.Comma(int64(n)) + " columns"
}
