package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupPathFormat(t *testing.T) {
	at := time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC)
	got := BackupPath("/docs/report.docx", at)
	assert.Equal(t, "/docs/report_backup_20260305_093000.docx", got)
}

func TestBackupCopiesWithoutMutatingOriginal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	store := NewStore()
	backupPath, err := store.Backup(ctx, path)
	require.NoError(t, err)

	original, _ := os.ReadFile(path)
	backup, _ := os.ReadFile(backupPath)
	assert.Equal(t, original, backup)
	assert.Contains(t, backupPath, "_backup_")
}

func TestRestoreOverwritesTarget(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	store := NewStore()
	backupPath, err := store.Backup(ctx, path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("mutated"), 0644))
	require.NoError(t, store.Restore(ctx, backupPath, path))

	data, _ := os.ReadFile(path)
	assert.Equal(t, "original", string(data))
}

func TestRestoreIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	store := NewStore()
	backupPath, err := store.Backup(ctx, path)
	require.NoError(t, err)

	require.NoError(t, store.Restore(ctx, backupPath, path))
	first, _ := os.ReadFile(path)
	require.NoError(t, store.Restore(ctx, backupPath, path))
	second, _ := os.ReadFile(path)
	assert.Equal(t, first, second)
}

func TestChecksumMatchesAfterRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(path, []byte("original content"), 0644))

	store := NewStore()
	backupPath, err := store.Backup(ctx, path)
	require.NoError(t, err)

	before, err := store.Checksum(ctx, backupPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0644))
	require.NoError(t, store.Restore(ctx, backupPath, path))

	after, err := store.Checksum(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBackupMissingSourceFails(t *testing.T) {
	store := NewStore()
	_, err := store.Backup(context.Background(), filepath.Join(t.TempDir(), "missing.docx"))
	require.Error(t, err)
}

func TestPruneBackupsKeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	store := NewStore()
	var backups []string
	for i := 0; i < 5; i++ {
		at := time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
		bp := BackupPath(path, at)
		require.NoError(t, os.WriteFile(bp, []byte("x"), 0644))
		backups = append(backups, bp)
	}

	require.NoError(t, store.PruneBackups(ctx, path, 2))

	for i, bp := range backups {
		_, err := os.Stat(bp)
		if i < 3 {
			assert.True(t, os.IsNotExist(err), "expected %s to be pruned", bp)
		} else {
			assert.NoError(t, err, "expected %s to remain", bp)
		}
	}
}
