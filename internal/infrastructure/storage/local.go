package storage

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrArtifactNotFound is returned when a job artifact does not exist.
var ErrArtifactNotFound = errors.New("artifact not found")

// Artifact kinds
const (
	KindInput  = "input"
	KindOutput = "output"
)

// LocalStorage keeps job inputs and outputs as JSONL files on the local
// filesystem, one directory per job.
type LocalStorage struct {
	basePath string
	logger   *slog.Logger
}

// Config for local storage
type LocalStorageConfig struct {
	BasePath string // Base directory for job artifacts (e.g., "./data/jobs")
}

// Record is one line of a job artifact.
type Record struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ArtifactMetadata describes a stored artifact.
type ArtifactMetadata struct {
	JobID     string
	Kind      string
	Path      string
	Records   int
	Size      int64
	Hash      string
	CreatedAt time.Time
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(cfg *LocalStorageConfig, logger *slog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &LocalStorage{
		basePath: cfg.BasePath,
		logger:   logger,
	}, nil
}

func (s *LocalStorage) path(jobID, kind string) string {
	return filepath.Join(s.basePath, filepath.Base(jobID), kind+".jsonl")
}

// Save writes texts as the kind artifact of jobID, replacing any earlier one.
func (s *LocalStorage) Save(ctx context.Context, jobID, kind string, texts []string) (*ArtifactMetadata, error) {
	dest := s.path(jobID, kind)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, fmt.Errorf("failed to create job directory: %w", err)
	}

	// Write to a temp file first so readers never see a partial artifact.
	tmp, err := os.CreateTemp(filepath.Dir(dest), kind+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	hash := sha256.New()
	counter := &countingWriter{w: io.MultiWriter(tmp, hash)}
	buffered := bufio.NewWriter(counter)
	enc := json.NewEncoder(buffered)
	enc.SetEscapeHTML(false)

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			tmp.Close()
			return nil, err
		}
		if err := enc.Encode(Record{Index: i, Text: text}); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	if err := buffered.Flush(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return nil, fmt.Errorf("failed to store artifact: %w", err)
	}

	meta := &ArtifactMetadata{
		JobID:     jobID,
		Kind:      kind,
		Path:      dest,
		Records:   len(texts),
		Size:      counter.n,
		Hash:      hex.EncodeToString(hash.Sum(nil)),
		CreatedAt: time.Now(),
	}

	s.logger.Info("artifact saved",
		slog.String("job_id", jobID),
		slog.String("kind", kind),
		slog.Int("records", meta.Records),
		slog.Int64("size", meta.Size))

	return meta, nil
}

// Load reads the kind artifact of jobID back in index order.
func (s *LocalStorage) Load(ctx context.Context, jobID, kind string) ([]string, error) {
	f, err := os.Open(s.path(jobID, kind))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrArtifactNotFound, jobID, kind)
		}
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	var texts []string
	dec := json.NewDecoder(bufio.NewReader(f))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var rec Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("corrupt artifact %s/%s: %w", jobID, kind, err)
		}
		if rec.Index != len(texts) {
			return nil, fmt.Errorf("corrupt artifact %s/%s: record %d out of order", jobID, kind, rec.Index)
		}
		texts = append(texts, rec.Text)
	}
	return texts, nil
}

// Delete removes every artifact of jobID.
func (s *LocalStorage) Delete(ctx context.Context, jobID string) error {
	dir := filepath.Join(s.basePath, filepath.Base(jobID))
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete job directory: %w", err)
	}

	s.logger.Info("job artifacts deleted", slog.String("job_id", jobID))
	return nil
}

// CleanupOldFiles removes job directories older than the specified duration
func (s *LocalStorage) CleanupOldFiles(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoffTime := time.Now().Add(-olderThan)

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read storage directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dirPath := filepath.Join(s.basePath, entry.Name())
		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("failed to get file info",
				slog.String("path", dirPath),
				slog.Any("error", err))
			continue
		}

		if info.ModTime().Before(cutoffTime) {
			if err := os.RemoveAll(dirPath); err != nil {
				s.logger.Warn("failed to remove directory",
					slog.String("path", dirPath),
					slog.Any("error", err))
				continue
			}
			removed++
		}
	}

	s.logger.Info("cleanup completed",
		slog.Duration("older_than", olderThan),
		slog.Int("removed", removed))

	return removed, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
