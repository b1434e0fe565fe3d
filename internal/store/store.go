// Package store persists every user's data in one JSON envelope file.
// It owns the mutex guarding the in-memory envelope, writes atomically,
// keeps gzipped generations of earlier saves, debounces autosaves, and
// watches the file for external edits.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

const (
	// currentVersion is the envelope format this build reads and writes.
	currentVersion = 1

	// DefaultBackupKeep is how many gzipped generations rotation keeps.
	DefaultBackupKeep = 10

	// DefaultSaveDelay is the autosave debounce window.
	DefaultSaveDelay = 2 * time.Second

	fileMode = 0o600
	dirMode  = 0o755
)

// Store errors
var (
	// ErrNotFound indicates a lookup for a user the envelope does not hold.
	ErrNotFound = errors.New("user not found")
)

// User is one account inside the envelope. Data is sanitized on every
// load, so it is always a valid record in memory.
type User struct {
	Name      string        `json:"name"`
	Password  string        `json:"password"`
	Admin     bool          `json:"admin"`
	CreatedAt time.Time     `json:"createdAt"`
	Data      *vocab.Record `json:"data"`
}

// Envelope is the complete on-disk document.
type Envelope struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	Users     []*User   `json:"users"`
}

// fileEnvelope is the load-time shape: user data stays raw so the
// sanitizer, not the decoder, decides what it means.
type fileEnvelope struct {
	Version   int        `json:"version"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Users     []fileUser `json:"users"`
}

type fileUser struct {
	Name      string          `json:"name"`
	Password  string          `json:"password"`
	Admin     bool            `json:"admin"`
	CreatedAt time.Time       `json:"createdAt"`
	Data      json.RawMessage `json:"data"`
}

// Config assembles a Store.
type Config struct {
	// Path is the envelope file. Its directory is created when missing.
	Path string

	// BackupKeep caps rotation; zero means DefaultBackupKeep, negative
	// disables backups.
	BackupKeep int

	// SaveDelay is the autosave debounce; zero means DefaultSaveDelay.
	SaveDelay time.Duration
}

// Store holds the envelope in memory and serializes every access to it.
type Store struct {
	mu   sync.Mutex
	path string
	keep int
	env  *Envelope

	saver *saver

	// lastSave lets the watcher tell this process's own writes from
	// external ones.
	lastSave atomic.Int64
}

// Open reads the envelope at cfg.Path, sanitizing every user record. A
// missing file yields an empty store; an unreadable or too-new one is
// moved aside and replaced by an empty store, never lost.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("store: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirMode); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	keep := cfg.BackupKeep
	switch {
	case keep == 0:
		keep = DefaultBackupKeep
	case keep < 0:
		keep = 0
	}
	delay := cfg.SaveDelay
	if delay <= 0 {
		delay = DefaultSaveDelay
	}

	env, err := readEnvelope(cfg.Path)
	if err != nil {
		return nil, err
	}

	normalizeUsers(env)
	s := &Store{
		path: cfg.Path,
		keep: keep,
		env:  env,
	}
	s.saver = newSaver(delay, s.Save)
	return s, nil
}

// readEnvelope loads and decodes the file. Anything that cannot be
// decoded is set aside so a later version or a human can recover it.
func readEnvelope(path string) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Envelope{Version: currentVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var fe fileEnvelope
	if err := json.Unmarshal(data, &fe); err != nil {
		log.Warn("data file is not valid JSON, starting fresh", "path", path, "error", err)
		setAside(path)
		return &Envelope{Version: currentVersion}, nil
	}
	if fe.Version > currentVersion {
		log.Warn("data file is newer than this build understands, starting fresh",
			"path", path, "version", fe.Version)
		setAside(path)
		return &Envelope{Version: currentVersion}, nil
	}

	env := &Envelope{
		Version:   currentVersion,
		UpdatedAt: fe.UpdatedAt,
	}
	for _, fu := range fe.Users {
		var raw any
		if len(fu.Data) > 0 {
			// A decode failure leaves raw nil and the sanitizer
			// produces a seeded record.
			_ = json.Unmarshal(fu.Data, &raw)
		}
		env.Users = append(env.Users, &User{
			Name:      fu.Name,
			Password:  fu.Password,
			Admin:     fu.Admin,
			CreatedAt: fu.CreatedAt,
			Data:      vocab.Sanitize(raw),
		})
	}
	return env, nil
}

// normalizeUsers drops unusable user entries and restores the
// invariants a hand-edited file may have broken: non-empty unique names
// and at least one admin when any user exists.
func normalizeUsers(env *Envelope) {
	seen := make(map[string]bool)
	users := env.Users[:0]
	for _, u := range env.Users {
		name := strings.TrimSpace(u.Name)
		if name == "" || seen[name] {
			log.Warn("dropping unusable user entry", "name", u.Name)
			continue
		}
		seen[name] = true
		u.Name = name
		users = append(users, u)
	}
	env.Users = users

	if len(env.Users) > 0 && !anyAdmin(env.Users) {
		env.Users[0].Admin = true
		log.Warn("no admin in data file, promoting first user", "name", env.Users[0].Name)
	}
}

func anyAdmin(users []*User) bool {
	for _, u := range users {
		if u.Admin {
			return true
		}
	}
	return false
}

// setAside renames an unreadable file out of the way, best effort.
func setAside(path string) {
	stamp := time.Now().UTC().Format("20060102-150405")
	if err := os.Rename(path, path+".invalid-"+stamp); err != nil {
		log.Error("could not set aside unreadable data file", "path", path, "error", err)
	}
}

// Path returns the envelope file location.
func (s *Store) Path() string { return s.path }

// Locker exposes the envelope mutex so collaborators that mutate user
// records asynchronously can serialize with edits and save marshals.
// Code holding it must not call other Store methods.
func (s *Store) Locker() sync.Locker { return &s.mu }

// View runs fn with the envelope under the store lock. fn must not
// retain the envelope or call back into the store.
func (s *Store) View(fn func(*Envelope)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.env)
}

// Update runs fn like View, then schedules a debounced save.
func (s *Store) Update(fn func(*Envelope)) {
	s.mu.Lock()
	fn(s.env)
	s.mu.Unlock()
	s.saver.Touch()
}

// Users returns a snapshot of the user list.
func (s *Store) Users() []*User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*User(nil), s.env.Users...)
}

// Find returns the named user or ErrNotFound.
func (s *Store) Find(name string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.env.Users {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// RequestSave schedules a debounced save. Safe to call from any
// goroutine, including under the store lock.
func (s *Store) RequestSave() { s.saver.Touch() }

// Save writes the envelope now: rotate a backup of the previous file,
// then marshal and rename into place atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	s.env.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(s.env, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}

	if err := rotateBackup(s.path, s.keep); err != nil {
		// A failed backup never blocks the save itself.
		log.Warn("backup rotation failed", "error", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".echolingo-*.json")
	if err != nil {
		return fmt.Errorf("stage data file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("stage data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stage data file: %w", err)
	}
	if err := os.Chmod(tmpName, fileMode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stage data file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace data file: %w", err)
	}

	s.lastSave.Store(time.Now().UnixNano())
	log.Debug("data file saved", "path", s.path, "bytes", len(data))
	return nil
}

// Reload re-reads the envelope from disk, replacing the in-memory one.
// Callers must re-resolve any *User they hold afterwards.
func (s *Store) Reload() error {
	env, err := readEnvelope(s.path)
	if err != nil {
		return err
	}
	normalizeUsers(env)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.env = env
	return nil
}

// Close flushes any pending autosave.
func (s *Store) Close() error {
	return s.saver.Close()
}
