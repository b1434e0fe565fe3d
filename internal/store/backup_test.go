package store

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
)

func listBackups(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(dir, backupDirName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("list backups = %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func gunzipFile(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open backup = %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader = %v", err)
	}
	defer gz.Close()
	data, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("read backup = %v", err)
	}
	return string(data)
}

// TestRotateBackupPrunes verifies each rotation snapshots the current
// file and old generations fall off beyond the keep count.
func TestRotateBackupPrunes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echolingo.json")

	for _, content := range []string{"one", "two", "three"} {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := rotateBackup(path, 2); err != nil {
			t.Fatalf("rotateBackup(%q) = %v", content, err)
		}
		// Distinct stamps per generation.
		time.Sleep(2 * time.Millisecond)
	}

	names := listBackups(t, dir)
	if len(names) != 2 {
		t.Fatalf("backups = %v, want 2 generations", names)
	}

	oldest := gunzipFile(t, filepath.Join(dir, backupDirName, names[0]))
	newest := gunzipFile(t, filepath.Join(dir, backupDirName, names[1]))
	if oldest != "two" || newest != "three" {
		t.Errorf("backup contents = %q, %q; want two, three", oldest, newest)
	}
}

// TestRotateBackupNoops verifies disabled rotation and a missing data
// file both leave the directory untouched.
func TestRotateBackupNoops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echolingo.json")

	if err := rotateBackup(path, 2); err != nil {
		t.Fatalf("rotateBackup on missing file = %v", err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := rotateBackup(path, 0); err != nil {
		t.Fatalf("rotateBackup disabled = %v", err)
	}

	if names := listBackups(t, dir); names != nil {
		t.Errorf("backups = %v, want none", names)
	}
}

// TestPruneBackupsIgnoresForeignFiles verifies pruning only touches this
// data file's own generations.
func TestPruneBackupsIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	bdir := filepath.Join(dir, backupDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		t.Fatal(err)
	}

	own := []string{
		"echolingo-20260101-000000.000.json.gz",
		"echolingo-20260102-000000.000.json.gz",
		"echolingo-20260103-000000.000.json.gz",
	}
	foreign := []string{"notes.txt", "other-20260101-000000.000.json.gz"}
	for _, name := range append(append([]string{}, own...), foreign...) {
		if err := os.WriteFile(filepath.Join(bdir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	if err := pruneBackups(bdir, "echolingo", 1); err != nil {
		t.Fatalf("pruneBackups = %v", err)
	}

	want := []string{"echolingo-20260103-000000.000.json.gz", "notes.txt", "other-20260101-000000.000.json.gz"}
	if got := listBackups(t, dir); len(got) != len(want) {
		t.Fatalf("remaining = %v, want %v", got, want)
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("remaining[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	}
}

// TestSaveRotatesBackups verifies the save path snapshots the previous
// file before replacing it.
func TestSaveRotatesBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echolingo.json")
	s, err := Open(Config{Path: path, BackupKeep: 2})
	if err != nil {
		t.Fatalf("Open = %v", err)
	}
	defer s.Close()

	for i := 0; i < 3; i++ {
		if err := s.Save(); err != nil {
			t.Fatalf("Save %d = %v", i, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	// First save had nothing to snapshot, the next two did.
	if names := listBackups(t, dir); len(names) != 2 {
		t.Errorf("backups after three saves = %v, want 2", names)
	}
}
