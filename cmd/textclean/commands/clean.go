package commands

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaning"
	"github.com/aalekhpatel07/text-cleaner/internal/output"
	"github.com/aalekhpatel07/text-cleaner/internal/pkg/config"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [text...]",
		Short: "Clean text from arguments, a file or stdin",
		Long: `Clean each argument as a separate text. Without arguments the
whole of --input (or stdin) is cleaned as one text.

Examples:
  textclean clean "  hello  "
  textclean clean -p ascii -i notes.txt
  cat mail.txt | textclean clean -t remove_all_emails -t trim --stats`,
		RunE: runClean,
	}

	flags := cmd.Flags()
	flags.StringArrayP("transform", "t", nil, "transformation to apply, in order (can be repeated)")
	flags.StringP("preset", "p", "", "preset to apply in catalog order (default from CLEANER_DEFAULT_PRESET)")
	flags.StringP("input", "i", "", "read the text from this file instead of stdin")
	flags.String("format", "text", "output format: text, json, jsonl, yaml")
	flags.Bool("stats", false, "print size and timing to stderr")
	flags.String("max-size", "", "per-text size limit, e.g. 4MB (default from CLEANER_MAX_TEXT_BYTES)")

	return cmd
}

// applyMaxSize overrides the configured per-text limit from --max-size.
func applyMaxSize(cmd *cobra.Command, cfg *config.Config) error {
	raw, _ := cmd.Flags().GetString("max-size")
	if raw == "" {
		return nil
	}
	n, err := humanize.ParseBytes(raw)
	if err != nil {
		return fmt.Errorf("invalid max-size %q: %w", raw, err)
	}
	if n == 0 || n > math.MaxInt32 {
		return fmt.Errorf("max-size must be between 1B and %s", humanize.Bytes(math.MaxInt32))
	}
	cfg.Cleaner.MaxTextBytes = int(n)
	return nil
}

// transformFlag returns the -t values, or nil when the flag was not given so
// the preset applies.
func transformFlag(cmd *cobra.Command) []string {
	if !cmd.Flags().Changed("transform") {
		return nil
	}
	names, _ := cmd.Flags().GetStringArray("transform")
	return names
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	texts := args
	if len(texts) == 0 {
		text, err := readInput(cmd)
		if err != nil {
			return err
		}
		texts = []string{text}
	}

	if err := applyMaxSize(cmd, cfg); err != nil {
		return err
	}
	svc, err := newCleaningService(cfg, log, "cli")
	if err != nil {
		return err
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	writer, err := output.NewWriter(cmd.OutOrStdout(), format)
	if err != nil {
		return err
	}

	preset, _ := cmd.Flags().GetString("preset")
	transforms := transformFlag(cmd)

	start := time.Now()
	var inBytes, outBytes int
	for _, text := range texts {
		res, err := svc.Clean(ctx, cleaning.Request{
			Text:            text,
			Transformations: transforms,
			Preset:          preset,
		})
		if err != nil {
			logError("%v", err)
			return err
		}
		inBytes += len(text)
		outBytes += len(res.Text)

		var item any = res
		if format == output.FormatText {
			item = res.Text
		}
		if err := writer.Write(item); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		logInfo("cleaned %s in %s: %s -> %s",
			pluralTexts(len(texts)),
			time.Since(start).Round(time.Microsecond),
			humanize.Bytes(uint64(inBytes)),
			humanize.Bytes(uint64(outBytes)))
	}
	return nil
}

func readInput(cmd *cobra.Command) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if path, _ := cmd.Flags().GetString("input"); path != "" {
		f, err := os.Open(path) //#nosec G304 -- CLI tool reads a user-specified file
		if err != nil {
			return "", fmt.Errorf("failed to open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func pluralTexts(n int) string {
	if n == 1 {
		return "1 text"
	}
	return humanize.Comma(int64(n)) + " texts"
}
