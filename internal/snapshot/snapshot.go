// Package snapshot implements the Snapshot Store: backup, restore,
// and checksum of a document file on disk. No mutation of the
// original ever happens on backup; restore replaces the target
// atomically from the caller's perspective when the filesystem
// supports it.
package snapshot

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/antigravity-dev/autoword-go/internal/errs"
	"github.com/antigravity-dev/autoword-go/internal/logging"
)

// Store backs up, restores, and checksums document files.
type Store struct{}

// NewStore returns a Store. It carries no state of its own; every
// method operates purely on the paths it is given.
func NewStore() *Store { return &Store{} }

// Backup copies path to a sibling file containing the original stem,
// the literal "_backup_", and a YYYYMMDD_HHMMSS timestamp. The
// original is never modified.
func (s *Store) Backup(ctx context.Context, path string) (string, error) {
	log := logging.Get(logging.CategorySnapshot)

	src, err := os.Open(path)
	if err != nil {
		return "", errs.Wrap(errs.DocumentError, fmt.Sprintf("could not open %s for backup", path), err)
	}
	defer src.Close()

	backupPath := BackupPath(path, time.Now())
	dst, err := os.Create(backupPath)
	if err != nil {
		return "", errs.Wrap(errs.DocumentError, fmt.Sprintf("could not create backup file %s", backupPath), err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(backupPath)
		return "", errs.Wrap(errs.DocumentError, "backup copy failed", err)
	}
	if err := dst.Close(); err != nil {
		return "", errs.Wrap(errs.DocumentError, "backup file close failed", err)
	}

	log.Info("backed up %s -> %s", path, backupPath)
	return backupPath, nil
}

// BackupPath computes the deterministic backup path for path at the
// given instant, without touching the filesystem.
func BackupPath(path string, at time.Time) string {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(dir, fmt.Sprintf("%s_backup_%s%s", stem, at.Format("20060102_150405"), ext))
}

// Restore overwrites targetPath with backupPath's bytes. It writes
// into a temp file in targetPath's directory and renames over the
// target (atomic on the same filesystem); if the rename fails across
// devices, it falls back to a truncate-and-copy in place.
func (s *Store) Restore(ctx context.Context, backupPath, targetPath string) error {
	log := logging.Get(logging.CategorySnapshot)

	data, err := os.ReadFile(backupPath)
	if err != nil {
		return errs.Wrap(errs.DocumentError, fmt.Sprintf("could not read backup %s", backupPath), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(targetPath), ".restore-*")
	if err != nil {
		return errs.Wrap(errs.DocumentError, "could not create restore temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errs.Wrap(errs.DocumentError, "restore write failed", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errs.Wrap(errs.DocumentError, "restore temp file close failed", err)
	}

	if err := os.Rename(tmpPath, targetPath); err != nil {
		os.Remove(tmpPath)
		if werr := os.WriteFile(targetPath, data, 0644); werr != nil {
			return errs.Wrap(errs.DocumentError, fmt.Sprintf("restore fallback write to %s failed", targetPath), werr)
		}
	}

	log.Info("restored %s from %s", targetPath, backupPath)
	return nil
}

// Checksum returns the hex-encoded MD5 digest of path's contents.
// This is a content fingerprint for rollback verification, not a
// security boundary.
func (s *Store) Checksum(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errs.Wrap(errs.DocumentError, fmt.Sprintf("could not open %s for checksum", path), err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errs.Wrap(errs.DocumentError, "checksum read failed", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// PruneBackups keeps the keep most recent "<stem>_backup_*<ext>"
// siblings of path and removes the rest.
func (s *Store) PruneBackups(ctx context.Context, path string, keep int) error {
	if keep <= 0 {
		return nil
	}
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	prefix := stem + "_backup_"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return errs.Wrap(errs.DocumentError, fmt.Sprintf("could not list %s for pruning", dir), err)
	}

	var backups []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ext) {
			backups = append(backups, e.Name())
		}
	}
	if len(backups) <= keep {
		return nil
	}

	// The embedded timestamp sorts lexicographically, so a plain
	// string sort gives chronological order without re-parsing it.
	sort.Strings(backups)
	toRemove := backups[:len(backups)-keep]
	for _, name := range toRemove {
		os.Remove(filepath.Join(dir, name))
	}
	return nil
}
