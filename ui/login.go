package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hyaochen/echolingo-lab/internal/account"
	"github.com/hyaochen/echolingo-lab/internal/store"
)

type loginState int

const (
	loginStatePick loginState = iota
	loginStateCreate
)

type userRow struct {
	name  string
	admin bool
}

type (
	authResultMsg struct {
		user *store.User
		err  error
	}

	userCreatedMsg struct {
		user *store.User
		err  error
	}
)

type loginModel struct {
	common *commonModel

	state  loginState
	users  []userRow
	cursor int

	password textinput.Model
	newName  textinput.Model
	newPass  textinput.Model
	// Focused field on the create form: 0 name, 1 password.
	focus int

	errText string
}

func newLoginModel(common *commonModel) loginModel {
	pw := textinput.New()
	pw.Placeholder = "password"
	pw.Prompt = "❯ "
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.CharLimit = 64
	pw.Focus()

	name := textinput.New()
	name.Placeholder = "name"
	name.Prompt = "❯ "
	name.CharLimit = 32

	np := textinput.New()
	np.Placeholder = "password"
	np.Prompt = "❯ "
	np.EchoMode = textinput.EchoPassword
	np.EchoCharacter = '•'
	np.CharLimit = 64

	m := loginModel{common: common, password: pw, newName: name, newPass: np}
	m.reloadUsers()

	// A fresh data file goes straight to account creation.
	if len(m.users) == 0 {
		m.toCreate()
	} else if common.cfg.User != "" {
		for i, u := range m.users {
			if u.name == common.cfg.User {
				m.cursor = i
			}
		}
	}
	return m
}

func (m *loginModel) reloadUsers() {
	m.users = nil
	for _, u := range m.common.accounts.List() {
		m.users = append(m.users, userRow{name: u.Name, admin: u.Admin})
	}
	if m.cursor >= len(m.users) {
		m.cursor = 0
	}
}

func (m *loginModel) toCreate() {
	m.state = loginStateCreate
	m.errText = ""
	m.focus = 0
	m.newName.SetValue("")
	m.newPass.SetValue("")
	m.newName.Focus()
	m.newPass.Blur()
}

func (m *loginModel) toPick() {
	m.state = loginStatePick
	m.errText = ""
	m.password.SetValue("")
	m.password.Focus()
}

func (m loginModel) init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == loginStateCreate {
			return m.updateCreate(msg)
		}

		switch msg.String() {
		case "esc":
			return m, quitApp

		case "up", "shift+tab":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "tab":
			if m.cursor < len(m.users)-1 {
				m.cursor++
			}
			return m, nil

		case "ctrl+n":
			m.toCreate()
			return m, nil

		case "enter":
			if len(m.users) == 0 {
				m.toCreate()
				return m, nil
			}
			m.errText = ""
			return m, authenticate(m.common, m.users[m.cursor].name, m.password.Value())
		}

	case authResultMsg:
		if msg.err != nil {
			m.errText = friendlyAuthError(msg.err)
			m.password.SetValue("")
			return m, nil
		}
		return m, func() tea.Msg { return loggedInMsg{user: msg.user} }

	case userCreatedMsg:
		if msg.err != nil {
			m.errText = friendlyAuthError(msg.err)
			return m, nil
		}
		return m, func() tea.Msg { return loggedInMsg{user: msg.user} }
	}

	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m loginModel) updateCreate(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if len(m.users) == 0 {
			return m, quitApp
		}
		m.toPick()
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.focus = 1 - m.focus
		if m.focus == 0 {
			m.newName.Focus()
			m.newPass.Blur()
		} else {
			m.newName.Blur()
			m.newPass.Focus()
		}
		return m, textinput.Blink

	case "enter":
		if m.focus == 0 {
			m.focus = 1
			m.newName.Blur()
			m.newPass.Focus()
			return m, textinput.Blink
		}
		m.errText = ""
		return m, createAccount(m.common, m.newName.Value(), m.newPass.Value())
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.newName, cmd = m.newName.Update(msg)
	} else {
		m.newPass, cmd = m.newPass.Update(msg)
	}
	return m, cmd
}

func (m loginModel) view() string {
	var b strings.Builder

	b.WriteString("\n  " + logoView() + "\n\n")

	if m.state == loginStateCreate {
		title := "New account"
		if len(m.users) == 0 {
			title = "Welcome! Create the first account"
		}
		b.WriteString("  " + titleStyle(title) + "\n\n")
		b.WriteString("  name\n  " + m.newName.View() + "\n\n")
		b.WriteString("  password\n  " + m.newPass.View() + "\n")
		if m.errText != "" {
			b.WriteString("\n  " + flagMarkStyle(m.errText) + "\n")
		}
		b.WriteString("\n  " + subtleStyle("enter: create • tab: next field • esc: back") + "\n")
		return b.String()
	}

	b.WriteString("  " + titleStyle("Who is studying today?") + "\n\n")
	for i, u := range m.users {
		marker := "  "
		name := u.name
		if i == m.cursor {
			marker = selectedStyle("❯ ")
			name = selectedStyle(name)
		}
		line := "  " + marker + name
		if u.admin {
			line += " " + subtleStyle("admin")
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n  password\n  " + m.password.View() + "\n")
	if m.errText != "" {
		b.WriteString("\n  " + flagMarkStyle(m.errText) + "\n")
	}
	b.WriteString("\n  " + subtleStyle("enter: log in • ↑/↓: choose • ctrl+n: new account • esc: quit") + "\n")
	return b.String()
}

func friendlyAuthError(err error) string {
	switch {
	case errors.Is(err, account.ErrWrongPassword):
		return "wrong password"
	case errors.Is(err, account.ErrUnknownUser):
		return "no such account"
	case errors.Is(err, account.ErrUserExists):
		return "that name is taken"
	case errors.Is(err, account.ErrEmptyName):
		return "the name cannot be empty"
	default:
		return fmt.Sprintf("login failed: %v", err)
	}
}

// COMMANDS

func authenticate(c *commonModel, name, password string) tea.Cmd {
	return func() tea.Msg {
		u, err := c.accounts.Authenticate(name, password)
		return authResultMsg{user: u, err: err}
	}
}

func createAccount(c *commonModel, name, password string) tea.Cmd {
	return func() tea.Msg {
		u, err := c.accounts.Create(name, password, false)
		return userCreatedMsg{user: u, err: err}
	}
}
