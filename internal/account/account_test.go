package account

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyaochen/echolingo-lab/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	st, err := store.Open(store.Config{
		Path:       filepath.Join(t.TempDir(), "echolingo.json"),
		BackupKeep: -1,
		SaveDelay:  time.Hour,
	})
	if err != nil {
		t.Fatalf("open store = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewManager(st)
}

// TestCreateFirstUserIsAdmin verifies the first user is promoted no
// matter what was asked, and arrives with a seeded record.
func TestCreateFirstUserIsAdmin(t *testing.T) {
	m := newTestManager(t)

	u, err := m.Create("hya", "pw", false)
	if err != nil {
		t.Fatalf("Create = %v", err)
	}
	if !u.Admin {
		t.Error("first user not admin")
	}
	if len(u.Data.Vocabulary) == 0 || len(u.Data.Sentences) == 0 {
		t.Errorf("seeded record = %d vocabulary, %d sentences; want both non-empty",
			len(u.Data.Vocabulary), len(u.Data.Sentences))
	}

	second, err := m.Create("mei", "pw", false)
	if err != nil {
		t.Fatalf("Create second = %v", err)
	}
	if second.Admin {
		t.Error("second user admin without asking")
	}
}

// TestCreateRejections verifies blank and duplicate names.
func TestCreateRejections(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Create("hya", "pw", false); err != nil {
		t.Fatalf("Create = %v", err)
	}

	tests := []struct {
		name     string
		userName string
		wantErr  error
	}{
		{"empty", "", ErrEmptyName},
		{"blank", "   ", ErrEmptyName},
		{"duplicate", "hya", ErrUserExists},
		{"duplicate after trim", "  hya  ", ErrUserExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Create(tt.userName, "pw", false); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create(%q) = %v, want %v", tt.userName, err, tt.wantErr)
			}
		})
	}
}

// TestAuthenticate verifies the three auth outcomes.
func TestAuthenticate(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Create("hya", "secret", false); err != nil {
		t.Fatalf("Create = %v", err)
	}

	u, err := m.Authenticate("hya", "secret")
	if err != nil {
		t.Fatalf("Authenticate = %v", err)
	}
	if u.Name != "hya" {
		t.Errorf("authenticated user = %q, want hya", u.Name)
	}

	if _, err := m.Authenticate("nobody", "secret"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("unknown user = %v, want ErrUnknownUser", err)
	}
	if _, err := m.Authenticate("hya", "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("wrong password = %v, want ErrWrongPassword", err)
	}
}

// TestRemoveKeepsAnAdmin verifies removal rules around the last admin.
func TestRemoveKeepsAnAdmin(t *testing.T) {
	m := newTestManager(t)
	for _, u := range []struct {
		name  string
		admin bool
	}{{"ayu", false}, {"ben", true}, {"cho", false}} {
		if _, err := m.Create(u.name, "pw", u.admin); err != nil {
			t.Fatalf("Create(%s) = %v", u.name, err)
		}
	}

	// ayu was forced admin as first user; ben is the second admin.
	if err := m.Remove("ayu"); err != nil {
		t.Fatalf("Remove(ayu) with another admin = %v", err)
	}
	if err := m.Remove("ben"); !errors.Is(err, ErrLastAdmin) {
		t.Errorf("Remove(last admin) = %v, want ErrLastAdmin", err)
	}
	if err := m.Remove("nobody"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("Remove(unknown) = %v, want ErrUnknownUser", err)
	}
	if err := m.Remove("cho"); err != nil {
		t.Fatalf("Remove(cho) = %v", err)
	}

	left := m.List()
	if len(left) != 1 || left[0].Name != "ben" {
		names := make([]string, len(left))
		for i, u := range left {
			names[i] = u.Name
		}
		t.Errorf("remaining users = %v, want [ben]", names)
	}
}

// TestGet verifies lookup and its sentinel.
func TestGet(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Create("hya", "pw", false); err != nil {
		t.Fatalf("Create = %v", err)
	}

	if u, err := m.Get("hya"); err != nil || u.Name != "hya" {
		t.Errorf("Get(hya) = %v, %v; want the user", u, err)
	}
	if _, err := m.Get("nobody"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("Get(nobody) = %v, want ErrUnknownUser", err)
	}
}
