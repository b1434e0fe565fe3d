package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hyaochen/echolingo-lab/internal/store"
	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

type settingsRowKind int

const (
	rowEngine settingsRowKind = iota
	rowHostedVoice
	rowTheme
	rowVoice
	rowRate
	rowPitch
	rowLocalVolume
	rowHostedVolume
)

// settingsRow is one line of the settings list. Global rows leave
// bucket empty.
type settingsRow struct {
	kind   settingsRowKind
	bucket string
	label  string
	value  string
}

// editable reports whether the row takes free text instead of
// left/right adjustment.
func (r settingsRow) editable() bool {
	return r.kind == rowHostedVoice || r.kind == rowVoice
}

type settingsModel struct {
	common *commonModel

	rows   []settingsRow
	cursor int

	editing bool
	edit    textinput.Model

	statusMessage      string
	statusMessageTimer *time.Timer
}

func newSettingsModel(common *commonModel) settingsModel {
	edit := textinput.New()
	edit.Prompt = "❯ "
	edit.CharLimit = 40
	return settingsModel{common: common, edit: edit}
}

// refresh snapshots the speech profile into display rows.
func (m *settingsModel) refresh() {
	c := m.common
	if c.user == nil {
		m.rows = nil
		return
	}

	var rows []settingsRow
	c.store.View(func(*store.Envelope) {
		rec := c.user.Data
		sp := rec.Speech

		rows = append(rows,
			settingsRow{kind: rowEngine, label: "engine", value: string(sp.Engine)},
			settingsRow{kind: rowHostedVoice, label: "hosted voice", value: sp.HostedVoiceID},
			settingsRow{kind: rowTheme, label: "theme", value: string(rec.Theme)},
		)
		for _, bucket := range vocab.Buckets {
			rows = append(rows,
				settingsRow{kind: rowVoice, bucket: bucket, label: bucket + " voice", value: sp.Voices[bucket]},
				settingsRow{kind: rowRate, bucket: bucket, label: bucket + " rate", value: formatLevel(sp.Rates[bucket])},
				settingsRow{kind: rowPitch, bucket: bucket, label: bucket + " pitch", value: formatLevel(sp.Pitches[bucket])},
				settingsRow{kind: rowLocalVolume, bucket: bucket, label: bucket + " volume (local)", value: formatLevel(sp.LocalVolumes[bucket])},
				settingsRow{kind: rowHostedVolume, bucket: bucket, label: bucket + " volume (hosted)", value: formatLevel(sp.HostedVolumes[bucket])},
			)
		}
	})
	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = max(0, len(rows)-1)
	}
}

func (m *settingsModel) showStatusMessage(text string) tea.Cmd {
	m.statusMessage = text
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(settingsContext, m.statusMessageTimer)
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateEdit(msg)
		}
		return m.updateList(msg)

	case statusMessageTimeoutMsg:
		if applicationContext(msg) == settingsContext {
			m.statusMessage = ""
		}
	}

	return m, nil
}

func (m settingsModel) updateList(msg tea.KeyMsg) (settingsModel, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, quitApp

	case "esc", "b":
		return m, showScreen(stateBrowse)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "left", "h":
		return m.adjust(-1)

	case "right", "l":
		return m.adjust(1)

	case "enter":
		if row, ok := m.selected(); ok {
			if !row.editable() {
				return m.adjust(1)
			}
			m.edit.SetValue(row.value)
			m.edit.Focus()
			m.editing = true
			return m, textinput.Blink
		}
	}

	return m, nil
}

func (m settingsModel) updateEdit(msg tea.KeyMsg) (settingsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.edit.Blur()
		return m, nil

	case "enter":
		m.editing = false
		m.edit.Blur()
		m.commitText(strings.TrimSpace(m.edit.Value()))
		m.refresh()
		return m, m.showStatusMessage("saved")
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m settingsModel) selected() (settingsRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return settingsRow{}, false
	}
	return m.rows[m.cursor], true
}

// MUTATIONS

// adjust steps the selected row. Enum rows cycle regardless of
// direction.
func (m settingsModel) adjust(delta int) (settingsModel, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}
	c := m.common
	var engineChanged bool

	c.store.Update(func(*store.Envelope) {
		rec := c.user.Data
		sp := &rec.Speech
		switch row.kind {
		case rowEngine:
			if sp.Engine == vocab.EngineLocal {
				sp.Engine = vocab.EngineHosted
			} else {
				sp.Engine = vocab.EngineLocal
			}
			engineChanged = true

		case rowTheme:
			if rec.Theme == vocab.ThemeLight {
				rec.Theme = vocab.ThemeDark
			} else {
				rec.Theme = vocab.ThemeLight
			}
			applyTheme(rec.Theme)

		case rowRate:
			sp.Rates[row.bucket] = stepLevel(sp.Rates[row.bucket], delta, vocab.RateMin, vocab.RateMax)
		case rowPitch:
			sp.Pitches[row.bucket] = stepLevel(sp.Pitches[row.bucket], delta, vocab.PitchMin, vocab.PitchMax)
		case rowLocalVolume:
			sp.LocalVolumes[row.bucket] = stepLevel(sp.LocalVolumes[row.bucket], delta, 0, 1)
		case rowHostedVolume:
			sp.HostedVolumes[row.bucket] = stepLevel(sp.HostedVolumes[row.bucket], delta, 0, 1)

		default:
			return
		}
		rec.Touch(time.Now())
	})

	if engineChanged {
		// The speaker is built for one backend. Drop it so the next
		// session starts on the new one.
		c.teardownNarration()
	}

	m.refresh()
	return m, nil
}

// commitText writes an edited voice value back to the profile.
func (m *settingsModel) commitText(value string) {
	row, ok := m.selected()
	if !ok {
		return
	}
	c := m.common
	c.store.Update(func(*store.Envelope) {
		rec := c.user.Data
		switch row.kind {
		case rowHostedVoice:
			rec.Speech.HostedVoiceID = value
		case rowVoice:
			if value != "" {
				rec.Speech.Voices[row.bucket] = value
			}
		default:
			return
		}
		rec.Touch(time.Now())
	})
}

// VIEWS

func (m settingsModel) view() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle("Settings") + "\n\n")

	for i, row := range m.rows {
		marker := "  "
		label := padCell(row.label, 26)
		value := row.value
		if value == "" {
			value = subtleStyle("(unset)")
		}
		if i == m.cursor {
			marker = selectedStyle("❯ ")
			label = selectedStyle(label)
			if m.editing {
				value = m.edit.View()
			}
		}
		b.WriteString(fmt.Sprintf("  %s%s %s\n", marker, label, value))
		// A blank line between the global rows and each bucket block.
		if row.kind == rowTheme || row.kind == rowHostedVolume {
			b.WriteString("\n")
		}
	}

	b.WriteString("  " + subtleStyle("←/→: adjust • enter: edit/cycle • esc: back") + "\n")
	b.WriteString("\n" + m.statusBar())
	return b.String()
}

func (m settingsModel) statusBar() string {
	note := m.statusMessage
	message := note != ""
	if !message && m.common.user != nil {
		note = "settings for " + m.common.user.Name
	}
	return statusBarView(m.common.width, note, "", message)
}

// ETC

func formatLevel(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// stepLevel moves v by tenths inside [lo, hi].
func stepLevel(v float64, delta int, lo, hi float64) float64 {
	v = math.Round(v*10+float64(delta)) / 10
	return math.Min(hi, math.Max(lo, v))
}
