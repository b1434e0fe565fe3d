package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/hyaochen/echolingo-lab/internal/review"
	"github.com/hyaochen/echolingo-lab/internal/store"
)

// reviewTickInterval is how often the player card re-reads the queue
// snapshot while narration runs.
const reviewTickInterval = 250 * time.Millisecond

// reviewTickMsg refreshes the player card.
type reviewTickMsg struct{}

type reviewModel struct {
	common *commonModel

	// picking selects between the group picker and the player card.
	picking  bool
	track    review.Track
	groups   []string
	groupCur int
	group    string

	status  review.Status
	errText string

	statusMessage      string
	statusMessageTimer *time.Timer
}

func newReviewModel(common *commonModel) reviewModel {
	return reviewModel{common: common, picking: true}
}

// refresh rebuilds the group options from the record's tags.
func (m *reviewModel) refresh() {
	c := m.common
	groups := []string{review.GroupAll, review.GroupDue, review.GroupNeedsWork}
	if c.user != nil {
		c.store.View(func(*store.Envelope) {
			for _, tag := range c.user.Data.AllTags() {
				groups = append(groups, "tag:"+tag)
			}
		})
	}
	m.groups = groups
	if m.groupCur >= len(groups) {
		m.groupCur = 0
	}
	m.picking = true
	m.errText = ""
}

func (m *reviewModel) showStatusMessage(text string) tea.Cmd {
	m.statusMessage = text
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(reviewContext, m.statusMessageTimer)
}

func (m reviewModel) update(msg tea.Msg) (reviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.updateCard(msg)

	case reviewTickMsg:
		if m.picking {
			return m, nil
		}
		if m.common.session == nil {
			// Torn down underneath us, e.g. by an external data reload.
			m.picking = true
			return m, nil
		}
		m.status = m.common.session.Status(m.track)
		if !m.status.Running {
			// The queue ran out on its own.
			m.picking = true
			return m, m.showStatusMessage("finished " + strings.ToLower(trackName(m.track)))
		}
		return m, reviewTick()

	case statusMessageTimeoutMsg:
		if applicationContext(msg) == reviewContext {
			m.statusMessage = ""
		}
	}

	return m, nil
}

func (m reviewModel) updatePicker(msg tea.KeyMsg) (reviewModel, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, quitApp

	case "esc", "b":
		return m, showScreen(stateBrowse)

	case "tab":
		if m.track == review.TrackVocabulary {
			m.track = review.TrackSentences
		} else {
			m.track = review.TrackVocabulary
		}

	case "up", "k":
		if m.groupCur > 0 {
			m.groupCur--
		}

	case "down", "j":
		if m.groupCur < len(m.groups)-1 {
			m.groupCur++
		}

	case "enter":
		return m.startSession()
	}

	return m, nil
}

// startSession opens the audio pipeline on first use and starts the
// selected track.
func (m reviewModel) startSession() (reviewModel, tea.Cmd) {
	c := m.common
	if err := c.ensureNarration(); err != nil {
		log.Error("narration unavailable", "error", err)
		m.errText = err.Error()
		return m, nil
	}

	group := m.groups[m.groupCur]
	if err := c.session.Start(m.track, group); err != nil {
		if errors.Is(err, review.ErrEmptySelection) {
			return m, m.showStatusMessage("nothing to play in " + group)
		}
		log.Error("unable to start playback", "group", group, "error", err)
		m.errText = err.Error()
		return m, nil
	}

	m.group = group
	m.errText = ""
	m.picking = false
	m.status = c.session.Status(m.track)
	return m, reviewTick()
}

func (m reviewModel) updateCard(msg tea.KeyMsg) (reviewModel, tea.Cmd) {
	c := m.common
	if c.session == nil {
		m.picking = true
		return m, nil
	}

	switch msg.String() {
	case " ":
		if m.status.Paused {
			c.session.Resume(m.track)
		} else {
			c.session.Pause(m.track)
		}
		m.status = c.session.Status(m.track)

	case "n", "right":
		c.session.Skip(m.track, 1)
		m.status = c.session.Status(m.track)

	case "p", "left":
		c.session.Skip(m.track, -1)
		m.status = c.session.Status(m.track)

	case "s", "esc":
		c.session.Stop(m.track, true)
		m.picking = true
		return m, m.showStatusMessage("stopped")
	}

	return m, nil
}

// VIEWS

func (m reviewModel) view() string {
	var b strings.Builder
	if m.picking {
		b.WriteString(m.pickerView())
	} else {
		b.WriteString(m.cardView())
	}
	b.WriteString("\n" + m.statusBar())
	return b.String()
}

func (m reviewModel) pickerView() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle("Review") + "  " +
		subtleStyle("track: ") + semiSubtleStyle(trackName(m.track)) + "\n\n")

	for i, g := range m.groups {
		if i == m.groupCur {
			b.WriteString("  " + selectedStyle("❯ "+g) + "\n")
		} else {
			b.WriteString("    " + g + "\n")
		}
	}

	if m.errText != "" {
		b.WriteString("\n  " + flagMarkStyle(m.errText) + "\n")
	}

	b.WriteString("\n  " + subtleStyle("enter: play • tab: track • esc: back • q: quit") + "\n")
	return b.String()
}

func (m reviewModel) cardView() string {
	title := m.status.Current
	if title == "" {
		title = "…"
	}

	card := cardStyle.Render(title)

	state := "playing"
	if m.status.Paused {
		state = dueMarkStyle("paused")
	}
	position := fmt.Sprintf("%d/%d · %s", m.status.Cursor+1, m.status.Length, state)

	var b strings.Builder
	b.WriteString("\n  " + titleStyle(trackName(m.track)) + "  " + subtleStyle(m.group) + "\n\n")
	b.WriteString(indent(card, 2) + "\n\n")
	b.WriteString("  " + semiSubtleStyle(position) + "\n")
	b.WriteString("\n  " + subtleStyle("space: pause/resume • n/p: skip • s: stop") + "\n")
	return b.String()
}

func (m reviewModel) statusBar() string {
	note := m.statusMessage
	message := note != ""
	if !message {
		if m.picking {
			note = "pick a group to narrate"
		} else {
			note = "narrating " + strings.ToLower(trackName(m.track))
		}
	}
	counter := ""
	if !m.picking && m.status.Length > 0 {
		counter = fmt.Sprintf("%d/%d", m.status.Cursor+1, m.status.Length)
	}
	return statusBarView(m.common.width, note, counter, message)
}

func trackName(t review.Track) string {
	if t == review.TrackSentences {
		return "Sentences"
	}
	return "Vocabulary"
}

// COMMANDS

func reviewTick() tea.Cmd {
	return tea.Tick(reviewTickInterval, func(time.Time) tea.Msg {
		return reviewTickMsg{}
	})
}
