// Package account enforces the multi-user rules over the store: who may
// log in, who may be created, and which removals are allowed. Passwords
// are stored and compared in clear text; the data file is as private as
// the account is.
package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyaochen/echolingo-lab/internal/store"
	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

// Account errors
var (
	// ErrUnknownUser indicates a name the store does not hold.
	ErrUnknownUser = errors.New("unknown user")

	// ErrWrongPassword indicates a failed password comparison.
	ErrWrongPassword = errors.New("wrong password")

	// ErrUserExists indicates a create with an already-taken name.
	ErrUserExists = errors.New("user already exists")

	// ErrLastAdmin indicates a removal that would leave no admin.
	ErrLastAdmin = errors.New("cannot remove the last admin")

	// ErrEmptyName indicates a create with a blank name.
	ErrEmptyName = errors.New("user name is empty")
)

// Manager applies the account rules to the users in one store.
type Manager struct {
	store *store.Store
}

// NewManager returns a manager over the given store.
func NewManager(st *store.Store) *Manager {
	return &Manager{store: st}
}

// Authenticate returns the user when the name exists and the password
// matches.
func (m *Manager) Authenticate(name, password string) (*store.User, error) {
	var u *store.User
	m.store.View(func(env *store.Envelope) {
		for _, candidate := range env.Users {
			if candidate.Name == name {
				u = candidate
				break
			}
		}
	})
	if u == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, name)
	}
	if u.Password != password {
		return nil, ErrWrongPassword
	}
	return u, nil
}

// Create adds a user with a freshly seeded record. The very first user
// becomes an admin regardless of the flag, so the file never starts
// without one.
func (m *Manager) Create(name, password string, admin bool) (*store.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	var (
		u   *store.User
		err error
	)
	m.store.Update(func(env *store.Envelope) {
		for _, existing := range env.Users {
			if existing.Name == name {
				err = fmt.Errorf("%w: %s", ErrUserExists, name)
				return
			}
		}
		u = &store.User{
			Name:      name,
			Password:  password,
			Admin:     admin || len(env.Users) == 0,
			CreatedAt: time.Now().UTC(),
			Data:      vocab.Sanitize(nil),
		}
		env.Users = append(env.Users, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Remove deletes a user. Removing the only remaining admin is refused,
// so the file always keeps someone who can manage it.
func (m *Manager) Remove(name string) error {
	var err error
	m.store.Update(func(env *store.Envelope) {
		idx := -1
		for i, u := range env.Users {
			if u.Name == name {
				idx = i
				break
			}
		}
		if idx == -1 {
			err = fmt.Errorf("%w: %s", ErrUnknownUser, name)
			return
		}
		if env.Users[idx].Admin && !hasOtherAdmin(env.Users, idx) {
			err = ErrLastAdmin
			return
		}
		env.Users = append(env.Users[:idx], env.Users[idx+1:]...)
	})
	return err
}

// List returns the users in storage order.
func (m *Manager) List() []*store.User {
	return m.store.Users()
}

// Get returns the named user or ErrUnknownUser.
func (m *Manager) Get(name string) (*store.User, error) {
	u, err := m.store.Find(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, name)
	}
	return u, nil
}

func hasOtherAdmin(users []*store.User, skip int) bool {
	for i, u := range users {
		if i != skip && u.Admin {
			return true
		}
	}
	return false
}
