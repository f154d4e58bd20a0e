package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aalekhpatel07/text-cleaner/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) (*LocalStorage, string) {
	tempDir := t.TempDir()

	storage, err := NewLocalStorage(&LocalStorageConfig{
		BasePath: tempDir,
	}, logger.NewNop())
	require.NoError(t, err)

	return storage, tempDir
}

func TestLocalStorage_SaveLoad(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	ctx := context.Background()

	texts := []string{"  hello  ", "line\nbreak", "<b>&</b>", ""}
	meta, err := storage.Save(ctx, "job-1", KindInput, texts)
	require.NoError(t, err)
	assert.Equal(t, 4, meta.Records)
	assert.Equal(t, filepath.Join(tempDir, "job-1", "input.jsonl"), meta.Path)
	assert.Len(t, meta.Hash, 64)

	info, err := os.Stat(meta.Path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), meta.Size)

	loaded, err := storage.Load(ctx, "job-1", KindInput)
	require.NoError(t, err)
	assert.Equal(t, texts, loaded)
}

func TestLocalStorage_LoadMissing(t *testing.T) {
	storage, _ := setupTestStorage(t)

	_, err := storage.Load(context.Background(), "nope", KindOutput)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestLocalStorage_LoadCorrupt(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "job-2"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "job-2", "output.jsonl"),
		[]byte(`{"index":1,"text":"x"}`+"\n"), 0644))

	_, err := storage.Load(context.Background(), "job-2", KindOutput)
	assert.ErrorContains(t, err, "out of order")
}

func TestLocalStorage_Delete(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	ctx := context.Background()

	_, err := storage.Save(ctx, "job-3", KindOutput, []string{"a"})
	require.NoError(t, err)
	require.NoError(t, storage.Delete(ctx, "job-3"))

	_, err = os.Stat(filepath.Join(tempDir, "job-3"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_CleanupOldFiles(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	ctx := context.Background()

	_, err := storage.Save(ctx, "old", KindInput, []string{"a"})
	require.NoError(t, err)
	_, err = storage.Save(ctx, "new", KindInput, []string{"b"})
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(tempDir, "old"), past, past))

	removed, err := storage.CleanupOldFiles(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(filepath.Join(tempDir, "new"))
	assert.NoError(t, err)
}
