package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"

	"github.com/hyaochen/echolingo-lab/internal/review"
	"github.com/hyaochen/echolingo-lab/internal/store"
	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

type browseTab int

const (
	tabVocabulary browseTab = iota
	tabSentences
)

func (t browseTab) String() string {
	if t == tabSentences {
		return "Sentences"
	}
	return "Vocabulary"
}

type browseMode int

const (
	browseModeList browseMode = iota
	browseModeFilter
	browseModeForm
	browseModeConfirmDelete
	browseModeTagPick
)

// browseRow is a value snapshot of one list item, safe to render while
// a review session mutates progress in the background.
type browseRow struct {
	id        string
	primary   string
	gloss     string
	tags      []string
	level     int
	reviewed  *time.Time
	needsWork bool
	due       bool
}

// glossFetchedMsg carries a translation for the form's meaning field.
type glossFetchedMsg struct {
	text string
	err  error
}

type browseModel struct {
	common *commonModel

	tab    browseTab
	mode   browseMode
	rows   []browseRow
	cursor int
	offset int

	groupKey string
	filter   textinput.Model

	form browseForm

	tagQuery textinput.Model
	tagAll   []string
	tagHits  []string
	tagCur   int

	statusMessage      string
	statusMessageTimer *time.Timer

	showHelp bool
}

func newBrowseModel(common *commonModel) browseModel {
	filter := textinput.New()
	filter.Placeholder = "search"
	filter.Prompt = "/"
	filter.CharLimit = 64

	tq := textinput.New()
	tq.Placeholder = "tag"
	tq.Prompt = "# "
	tq.CharLimit = 32

	return browseModel{
		common:   common,
		groupKey: review.GroupAll,
		filter:   filter,
		tagQuery: tq,
	}
}

func (m *browseModel) setSize(w, h int) {
	m.clampScroll()
	_ = w
}

// refresh rebuilds the row snapshot from the live record with the
// current group and search filters applied.
func (m *browseModel) refresh() {
	c := m.common
	if c.user == nil {
		m.rows = nil
		return
	}

	var rows []browseRow
	c.store.View(func(*store.Envelope) {
		rec := c.user.Data
		if m.tab == tabVocabulary {
			items := review.SelectGroup(rec.Vocabulary, m.groupKey, c.sched)
			for _, it := range review.Search(items, m.filter.Value()) {
				rows = append(rows, browseRow{
					id:        it.ID,
					primary:   it.Word,
					gloss:     it.Meaning,
					tags:      append([]string(nil), it.Tags...),
					level:     it.Level,
					reviewed:  copyTime(it.LastReviewedAt),
					needsWork: it.NeedsWork,
					due:       c.sched.IsDue(it.Level, it.LastReviewedAt),
				})
			}
		} else {
			items := review.SelectGroup(rec.Sentences, m.groupKey, c.sched)
			for _, it := range review.Search(items, m.filter.Value()) {
				rows = append(rows, browseRow{
					id:       it.ID,
					primary:  it.Sentence,
					gloss:    it.Meaning,
					tags:     append([]string(nil), it.Tags...),
					level:    it.Level,
					reviewed: copyTime(it.LastReviewedAt),
					due:      c.sched.IsDue(it.Level, it.LastReviewedAt),
				})
			}
		}
	})
	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = max(0, len(rows)-1)
	}
	m.clampScroll()
}

func (m *browseModel) showStatusMessage(text string) tea.Cmd {
	m.statusMessage = text
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(browseContext, m.statusMessageTimer)
}

func (m browseModel) update(msg tea.Msg) (browseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case browseModeFilter:
			return m.updateFilter(msg)
		case browseModeForm:
			return m.updateForm(msg)
		case browseModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case browseModeTagPick:
			return m.updateTagPick(msg)
		}
		return m.updateList(msg)

	case statusMessageTimeoutMsg:
		if applicationContext(msg) == browseContext {
			m.statusMessage = ""
		}

	case glossFetchedMsg:
		if m.mode != browseModeForm {
			break
		}
		if msg.err != nil {
			log.Warn("gloss lookup failed", "error", msg.err)
			return m, m.showStatusMessage("translation unavailable")
		}
		m.form.setMeaning(msg.text)
	}

	return m, nil
}

func (m browseModel) updateList(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, quitApp

	case "esc":
		return m, logout

	case "?":
		m.showHelp = !m.showHelp

	case "tab":
		if m.tab == tabVocabulary {
			m.tab = tabSentences
		} else {
			m.tab = tabVocabulary
		}
		m.cursor = 0
		m.offset = 0
		m.refresh()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clampScroll()
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.clampScroll()
		}

	case "/":
		m.mode = browseModeFilter
		m.filter.Focus()
		return m, textinput.Blink

	case "g":
		m.groupKey = nextGroupKey(m.groupKey)
		m.cursor = 0
		m.offset = 0
		m.refresh()

	case "t":
		m.openTagPicker()
		return m, textinput.Blink

	case "a":
		m.form = newBrowseForm(m.tab, nil, nil)
		m.mode = browseModeForm
		return m, textinput.Blink

	case "enter", "e":
		if row, ok := m.selectedRow(); ok {
			m.openEditForm(row.id)
			return m, textinput.Blink
		}

	case "x":
		if _, ok := m.selectedRow(); ok {
			m.mode = browseModeConfirmDelete
		}

	case "w":
		if m.tab != tabVocabulary {
			break
		}
		if row, ok := m.selectedRow(); ok {
			m.toggleNeedsWork(row.id)
			m.refresh()
		}

	case "c":
		if row, ok := m.selectedRow(); ok {
			if err := clipboard.WriteAll(row.primary); err != nil {
				log.Warn("clipboard unavailable", "error", err)
				return m, m.showStatusMessage("copy failed")
			}
			return m, m.showStatusMessage("copied " + row.primary)
		}

	case "r":
		return m, showScreen(stateReview)

	case "n":
		return m, showScreen(stateNews)

	case "s":
		return m, showScreen(stateSettings)
	}

	return m, nil
}

func (m browseModel) updateFilter(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		m.filter.Blur()
		m.mode = browseModeList
		m.refresh()
		return m, nil
	case "enter":
		m.filter.Blur()
		m.mode = browseModeList
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	m.offset = 0
	m.refresh()
	return m, cmd
}

func (m browseModel) updateConfirmDelete(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	m.mode = browseModeList
	if msg.String() != "y" {
		return m, nil
	}
	row, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	m.deleteItem(row.id)
	m.refresh()
	return m, m.showStatusMessage("deleted " + row.primary)
}

func (m *browseModel) openTagPicker() {
	c := m.common
	c.store.View(func(*store.Envelope) {
		m.tagAll = c.user.Data.AllTags()
	})
	m.tagQuery.SetValue("")
	m.tagQuery.Focus()
	m.tagHits = m.tagAll
	m.tagCur = 0
	m.mode = browseModeTagPick
}

func (m browseModel) updateTagPick(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.tagQuery.Blur()
		m.mode = browseModeList
		return m, nil

	case "up":
		if m.tagCur > 0 {
			m.tagCur--
		}
		return m, nil

	case "down":
		if m.tagCur < len(m.tagHits)-1 {
			m.tagCur++
		}
		return m, nil

	case "enter":
		m.tagQuery.Blur()
		m.mode = browseModeList
		if len(m.tagHits) > 0 {
			m.groupKey = "tag:" + m.tagHits[m.tagCur]
			m.cursor = 0
			m.offset = 0
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tagQuery, cmd = m.tagQuery.Update(msg)
	m.tagHits = matchTags(m.tagQuery.Value(), m.tagAll)
	if m.tagCur >= len(m.tagHits) {
		m.tagCur = 0
	}
	return m, cmd
}

// matchTags filters tags with fuzzy matching, best hits first. An empty
// query keeps the full set.
func matchTags(query string, tags []string) []string {
	if strings.TrimSpace(query) == "" {
		return tags
	}
	var hits []string
	for _, match := range fuzzy.Find(query, tags) {
		hits = append(hits, match.Str)
	}
	return hits
}

// nextGroupKey cycles the group filter.
func nextGroupKey(key string) string {
	switch key {
	case review.GroupAll:
		return review.GroupDue
	case review.GroupDue:
		return review.GroupNeedsWork
	default:
		return review.GroupAll
	}
}

func (m browseModel) selectedRow() (browseRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return browseRow{}, false
	}
	return m.rows[m.cursor], true
}

// MUTATIONS

func (m *browseModel) toggleNeedsWork(id string) {
	c := m.common
	c.store.Update(func(*store.Envelope) {
		if it := c.user.Data.FindVocabulary(id); it != nil {
			it.NeedsWork = !it.NeedsWork
			c.user.Data.Touch(time.Now())
		}
	})
}

func (m *browseModel) deleteItem(id string) {
	c := m.common
	c.store.Update(func(*store.Envelope) {
		rec := c.user.Data
		if m.tab == tabVocabulary {
			for i, it := range rec.Vocabulary {
				if it.ID == id {
					rec.Vocabulary = append(rec.Vocabulary[:i], rec.Vocabulary[i+1:]...)
					break
				}
			}
		} else {
			for i, it := range rec.Sentences {
				if it.ID == id {
					rec.Sentences = append(rec.Sentences[:i], rec.Sentences[i+1:]...)
					break
				}
			}
		}
		rec.Touch(time.Now())
	})
}

// VIEWS

func (m browseModel) view() string {
	var b strings.Builder

	b.WriteString("\n  " + m.tabsView())
	b.WriteString("\n  " + m.filterLineView() + "\n\n")

	switch m.mode {
	case browseModeForm:
		b.WriteString(m.form.view())
	case browseModeTagPick:
		b.WriteString(m.tagPickView())
	default:
		b.WriteString(m.listView())
	}

	if m.showHelp {
		b.WriteString("\n" + m.helpView())
	}

	b.WriteString("\n" + m.statusBar())
	return b.String()
}

func (m browseModel) tabsView() string {
	vocabTab := tabInactiveStyle(tabVocabulary.String())
	sentTab := tabInactiveStyle(tabSentences.String())
	if m.tab == tabVocabulary {
		vocabTab = tabActiveStyle(tabVocabulary.String())
	} else {
		sentTab = tabActiveStyle(tabSentences.String())
	}
	return vocabTab + "  " + sentTab
}

func (m browseModel) filterLineView() string {
	group := subtleStyle("group: ") + semiSubtleStyle(m.groupKey)
	if m.mode == browseModeFilter || m.filter.Value() != "" {
		return group + "  " + m.filter.View()
	}
	return group
}

func (m browseModel) listView() string {
	if len(m.rows) == 0 {
		return "  " + subtleStyle("Nothing here. Press a to add an item, g to change the group.") + "\n"
	}

	var b strings.Builder
	visible := m.pageSize()
	end := min(m.offset+visible, len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.rowView(m.rows[i], i == m.cursor && m.mode != browseModeForm))
	}

	if m.mode == browseModeConfirmDelete {
		if row, ok := m.selectedRow(); ok {
			b.WriteString("\n  " + flagMarkStyle("delete "+row.primary+"? (y/n)") + "\n")
		}
	}
	return b.String()
}

func (m browseModel) rowView(row browseRow, selected bool) string {
	marker := "  "
	if selected {
		marker = selectedStyle("❯ ")
	}

	primary := padCell(row.primary, 26)
	if selected {
		primary = selectedStyle(primary)
	}
	gloss := semiSubtleStyle(padCell(row.gloss, 20))
	level := subtleStyle(levelDots(row.level))
	ago := subtleStyle(padCell(formatAgo(row.reviewed), 14))

	var marks string
	if row.due {
		marks += " " + dueMarkStyle("due")
	}
	if row.needsWork {
		marks += " " + flagMarkStyle("needs work")
	}
	var tags string
	if len(row.tags) > 0 {
		tags = " " + subtleStyle("#"+strings.Join(row.tags, " #"))
	}

	return fmt.Sprintf("  %s%s %s %s %s%s%s\n", marker, primary, gloss, level, ago, marks, tags)
}

func (m browseModel) tagPickView() string {
	var b strings.Builder
	b.WriteString("  " + m.tagQuery.View() + "\n\n")
	if len(m.tagHits) == 0 {
		b.WriteString("  " + subtleStyle("no matching tags") + "\n")
		return b.String()
	}
	for i, tag := range m.tagHits {
		if i == m.tagCur {
			b.WriteString("  " + selectedStyle("❯ "+tag) + "\n")
		} else {
			b.WriteString("    " + tag + "\n")
		}
	}
	return b.String()
}

func (m browseModel) helpView() string {
	s := "\n"
	s += "k/↑      up                  a   add item\n"
	s += "j/↓      down                e   edit item\n"
	s += "tab      switch list         x   delete item\n"
	s += "/        search              w   toggle needs work\n"
	s += "g        cycle group         c   copy text\n"
	s += "t        pick tag group      r   review\n"
	s += "esc      log out             n   news\n"
	s += "q        quit                s   settings\n"
	s = indent(s, 2)

	// Fill up empty cells with spaces for background coloring
	if m.common.width > 0 {
		lines := strings.Split(s, "\n")
		for i := 0; i < len(lines); i++ {
			l := runewidth.StringWidth(lines[i])
			n := max(m.common.width-l, 0)
			lines[i] += strings.Repeat(" ", n)
		}
		s = strings.Join(lines, "\n")
	}

	return helpViewStyle(s)
}

func (m browseModel) statusBar() string {
	note := m.statusMessage
	message := note != ""
	if !message {
		note = fmt.Sprintf("%s of %s", m.common.user.Name, m.tab)
		if m.groupKey != review.GroupAll {
			note += " · " + m.groupKey
		}
	}
	counter := ""
	if len(m.rows) > 0 {
		counter = fmt.Sprintf("%d/%d", m.cursor+1, len(m.rows))
	}
	return statusBarView(m.common.width, note, counter, message)
}

// pageSize is how many rows fit between the chrome above and below.
func (m browseModel) pageSize() int {
	reserved := 7
	if m.showHelp {
		reserved += 10
	}
	return max(3, m.common.height-reserved)
}

func (m *browseModel) clampScroll() {
	visible := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// ETC

// formatAgo renders a review timestamp for list rows.
func formatAgo(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return humanize.Time(*t)
}

// levelDots renders the schedule stage as filled and empty dots.
func levelDots(level int) string {
	if level < 0 {
		level = 0
	}
	if level > vocab.MaxLevel {
		level = vocab.MaxLevel
	}
	return strings.Repeat("●", level) + strings.Repeat("○", vocab.MaxLevel-level)
}

// padCell truncates or pads s to an exact display width.
func padCell(s string, w int) string {
	s = truncate.StringWithTail(s, uint(w), ellipsis) //nolint:gosec
	if gap := w - runewidth.StringWidth(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
