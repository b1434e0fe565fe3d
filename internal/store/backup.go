package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

const (
	backupDirName = "backups"
	backupSuffix  = ".json.gz"
	backupStamp   = "20060102-150405.000"
)

// rotateBackup gzips the current data file into the backups directory
// and prunes the oldest generations beyond keep. A missing data file
// (first save) and keep <= 0 are both no-ops.
func rotateBackup(path string, keep int) error {
	if keep <= 0 {
		return nil
	}
	src, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open current file: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(filepath.Dir(path), backupDirName)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	stem := backupStem(path)
	name := stem + "-" + time.Now().UTC().Format(backupStamp) + backupSuffix
	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		dst.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	if err := gz.Close(); err != nil {
		dst.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	return pruneBackups(dir, stem, keep)
}

// pruneBackups removes the oldest generations beyond keep. The stamp in
// the name sorts lexicographically, so name order is age order.
func pruneBackups(dir, stem string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, stem+"-") || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		names = append(names, name)
	}
	if len(names) <= keep {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("prune backup: %w", err)
		}
	}
	return nil
}

// backupStem is the data file name without its extension, used to
// prefix every generation.
func backupStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
