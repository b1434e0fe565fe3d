package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/hyaochen/echolingo-lab/internal/news"
	"github.com/hyaochen/echolingo-lab/internal/store"
	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

// Candidate caps keep the import picker on one screen.
const (
	newsWordCap = 12
	newsSentCap = 6
)

type newsMode int

const (
	newsModeList newsMode = iota
	newsModeDetail
	newsModeImport
)

type newsLoadedMsg struct {
	articles []news.Article
	err      error
}

// glossedCandidate is a study candidate with its fetched translation,
// empty when the lookup failed.
type glossedCandidate struct {
	text  string
	gloss string
}

type newsGlossedMsg struct {
	words     []glossedCandidate
	sentences []glossedCandidate
}

type newsModel struct {
	common *commonModel

	mode     newsMode
	loading  bool
	loadErr  error
	spin     spinner.Model
	articles []news.Article
	cursor   int
	offset   int

	current  news.Article
	rendered string
	vp       viewport.Model

	candWords []string
	candSents []string
	selected  map[int]bool
	candCur   int
	importing bool

	statusMessage      string
	statusMessageTimer *time.Timer
}

func newNewsModel(common *commonModel) newsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return newsModel{
		common: common,
		spin:   sp,
		vp:     viewport.New(0, 0),
	}
}

func (m *newsModel) setSize(w, h int) {
	m.vp.Width = w
	m.vp.Height = max(5, h-5)
	if m.mode == newsModeDetail {
		m.rendered = renderArticle(m.current, m.vp.Width)
		m.vp.SetContent(m.rendered)
	}
}

// load fetches the feeds once; revisiting the screen keeps the cached
// articles until the user reloads.
func (m *newsModel) load() tea.Cmd {
	if m.loading || len(m.articles) > 0 {
		return nil
	}
	return m.startFetch()
}

func (m *newsModel) startFetch() tea.Cmd {
	m.loading = true
	m.loadErr = nil
	m.mode = newsModeList
	return tea.Batch(m.spin.Tick, fetchNews(m.common))
}

func (m *newsModel) showStatusMessage(text string) tea.Cmd {
	m.statusMessage = text
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(newsContext, m.statusMessageTimer)
}

func (m newsModel) update(msg tea.Msg) (newsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case newsModeDetail:
			return m.updateDetail(msg)
		case newsModeImport:
			return m.updateImport(msg)
		}
		return m.updateList(msg)

	case newsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			log.Error("feed fetch failed", "error", msg.err)
			m.loadErr = msg.err
			return m, nil
		}
		m.articles = msg.articles
		m.cursor = 0
		m.offset = 0
		return m, nil

	case newsGlossedMsg:
		m.importing = false
		added := m.applyImport(msg)
		m.mode = newsModeList
		return m, m.showStatusMessage(fmt.Sprintf("added %d items from the news", added))

	case spinner.TickMsg:
		if !m.loading && !m.importing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case statusMessageTimeoutMsg:
		if applicationContext(msg) == newsContext {
			m.statusMessage = ""
		}
	}

	return m, nil
}

func (m newsModel) updateList(msg tea.KeyMsg) (newsModel, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, quitApp

	case "esc", "b":
		return m, showScreen(stateBrowse)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clampScroll()
		}

	case "down", "j":
		if m.cursor < len(m.articles)-1 {
			m.cursor++
			m.clampScroll()
		}

	case "r":
		if !m.loading {
			m.articles = nil
			return m, m.startFetch()
		}

	case "enter":
		if article, ok := m.selectedArticle(); ok {
			m.openDetail(article)
		}

	case "i":
		if article, ok := m.selectedArticle(); ok {
			m.current = article
			return m.openImport()
		}
	}

	return m, nil
}

func (m newsModel) updateDetail(msg tea.KeyMsg) (newsModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "b", "q":
		m.mode = newsModeList
		return m, nil

	case "i":
		return m.openImport()
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m newsModel) updateImport(msg tea.KeyMsg) (newsModel, tea.Cmd) {
	if m.importing {
		return m, nil
	}
	total := len(m.candWords) + len(m.candSents)

	switch msg.String() {
	case "esc":
		m.mode = newsModeDetail
		return m, nil

	case "up", "k":
		if m.candCur > 0 {
			m.candCur--
		}

	case "down", "j":
		if m.candCur < total-1 {
			m.candCur++
		}

	case " ":
		m.selected[m.candCur] = !m.selected[m.candCur]

	case "a":
		// Toggle all: select everything unless everything is selected.
		all := true
		for i := 0; i < total; i++ {
			if !m.selected[i] {
				all = false
				break
			}
		}
		for i := 0; i < total; i++ {
			m.selected[i] = !all
		}

	case "enter":
		words, sents := m.selectedCandidates()
		if len(words)+len(sents) == 0 {
			return m, m.showStatusMessage("nothing selected")
		}
		m.importing = true
		return m, tea.Batch(m.spin.Tick, glossCandidates(m.common, words, sents))
	}

	return m, nil
}

func (m *newsModel) openDetail(article news.Article) {
	m.current = article
	m.rendered = renderArticle(article, m.vp.Width)
	m.vp.SetContent(m.rendered)
	m.vp.GotoTop()
	m.mode = newsModeDetail
}

// openImport builds study candidates for the current article, skipping
// words the record already holds.
func (m newsModel) openImport() (newsModel, tea.Cmd) {
	c := m.common
	known := make(map[string]bool)
	c.store.View(func(*store.Envelope) {
		for _, it := range c.user.Data.Vocabulary {
			known[strings.ToLower(it.Word)] = true
		}
	})

	m.candWords = news.ExtractWords(m.current, known, newsWordCap)
	m.candSents = news.ExtractSentences(m.current, newsSentCap)
	if len(m.candWords)+len(m.candSents) == 0 {
		return m, m.showStatusMessage("no study candidates in this story")
	}
	m.selected = make(map[int]bool)
	m.candCur = 0
	m.mode = newsModeImport
	return m, nil
}

func (m newsModel) selectedArticle() (news.Article, bool) {
	if m.cursor < 0 || m.cursor >= len(m.articles) {
		return news.Article{}, false
	}
	return m.articles[m.cursor], true
}

func (m newsModel) selectedCandidates() (words, sents []string) {
	for i, w := range m.candWords {
		if m.selected[i] {
			words = append(words, w)
		}
	}
	for i, s := range m.candSents {
		if m.selected[len(m.candWords)+i] {
			sents = append(sents, s)
		}
	}
	return words, sents
}

// applyImport inserts the glossed selection as tagged items, skipping
// anything that showed up in the record meanwhile.
func (m *newsModel) applyImport(msg newsGlossedMsg) int {
	c := m.common
	if c.user == nil {
		return 0
	}

	added := 0
	c.store.Update(func(*store.Envelope) {
		rec := c.user.Data
		for _, cand := range msg.words {
			if hasWord(rec, cand.text) {
				continue
			}
			item, ok := vocab.NormalizeVocabulary(vocab.VocabularyItem{
				Word:    cand.text,
				Meaning: cand.gloss,
				Tags:    []string{"news"},
			})
			if !ok {
				continue
			}
			rec.Vocabulary = append(rec.Vocabulary, item)
			added++
		}
		for _, cand := range msg.sentences {
			if hasSentence(rec, cand.text) {
				continue
			}
			item, ok := vocab.NormalizeSentence(vocab.SentenceItem{
				Sentence: cand.text,
				Meaning:  cand.gloss,
				Tags:     []string{"news"},
			})
			if !ok {
				continue
			}
			rec.Sentences = append(rec.Sentences, item)
			added++
		}
		if added > 0 {
			rec.Touch(time.Now())
		}
	})
	return added
}

func hasWord(rec *vocab.Record, word string) bool {
	for _, it := range rec.Vocabulary {
		if strings.EqualFold(it.Word, word) {
			return true
		}
	}
	return false
}

func hasSentence(rec *vocab.Record, sentence string) bool {
	for _, it := range rec.Sentences {
		if it.Sentence == sentence {
			return true
		}
	}
	return false
}

// VIEWS

func (m newsModel) view() string {
	var b strings.Builder
	switch m.mode {
	case newsModeDetail:
		b.WriteString(m.vp.View())
	case newsModeImport:
		b.WriteString(m.importView())
	default:
		b.WriteString(m.listView())
	}
	b.WriteString("\n" + m.statusBar())
	return b.String()
}

func (m newsModel) listView() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle("News") + "\n\n")

	if m.loading {
		b.WriteString("  " + m.spin.View() + subtleStyle("fetching feeds…") + "\n")
		return b.String()
	}
	if m.loadErr != nil {
		b.WriteString("  " + flagMarkStyle("feeds unavailable: "+m.loadErr.Error()) + "\n")
		b.WriteString("\n  " + subtleStyle("r: retry • esc: back") + "\n")
		return b.String()
	}
	if len(m.articles) == 0 {
		b.WriteString("  " + subtleStyle("No articles. Press r to reload.") + "\n")
		return b.String()
	}

	visible := m.pageSize()
	end := min(m.offset+visible, len(m.articles))
	for i := m.offset; i < end; i++ {
		a := m.articles[i]
		marker := "  "
		title := a.Title
		if i == m.cursor {
			marker = selectedStyle("❯ ")
			title = selectedStyle(title)
		}
		meta := a.Source
		if !a.Published.IsZero() {
			meta += " · " + humanize.Time(a.Published)
		}
		b.WriteString("  " + marker + title + "\n")
		b.WriteString("      " + subtleStyle(meta) + "\n")
	}

	b.WriteString("\n  " + subtleStyle("enter: read • i: import • r: reload • esc: back") + "\n")
	return b.String()
}

func (m newsModel) importView() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle("Import from: "+m.current.Title) + "\n\n")

	if m.importing {
		b.WriteString("  " + m.spin.View() + subtleStyle("looking up translations…") + "\n")
		return b.String()
	}

	idx := 0
	writeCandidate := func(text string) {
		mark := "[ ]"
		if m.selected[idx] {
			mark = selectedStyle("[x]")
		}
		line := "  " + mark + " " + text
		if idx == m.candCur {
			line = "❯ " + mark + " " + text
		}
		b.WriteString("  " + line + "\n")
		idx++
	}

	if len(m.candWords) > 0 {
		b.WriteString("  " + semiSubtleStyle("Words") + "\n")
		for _, w := range m.candWords {
			writeCandidate(w)
		}
		b.WriteString("\n")
	}
	if len(m.candSents) > 0 {
		b.WriteString("  " + semiSubtleStyle("Sentences") + "\n")
		for _, s := range m.candSents {
			writeCandidate(s)
		}
		b.WriteString("\n")
	}

	b.WriteString("  " + subtleStyle("space: select • a: select all • enter: import • esc: back") + "\n")
	return b.String()
}

func (m newsModel) statusBar() string {
	note := m.statusMessage
	message := note != ""
	if !message {
		switch m.mode {
		case newsModeDetail:
			note = m.current.Source
		case newsModeImport:
			note = "pick items to study"
		default:
			note = "today's stories"
		}
	}
	counter := ""
	if m.mode == newsModeList && len(m.articles) > 0 {
		counter = fmt.Sprintf("%d/%d", m.cursor+1, len(m.articles))
	}
	return statusBarView(m.common.width, note, counter, message)
}

func (m newsModel) pageSize() int {
	// Two lines per article plus chrome.
	return max(2, (m.common.height-8)/2)
}

func (m *newsModel) clampScroll() {
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

// renderArticle formats one article as markdown through glamour, falling
// back to plain text when rendering fails.
func renderArticle(a news.Article, width int) string {
	md := articleMarkdown(a)

	if width <= 0 {
		width = 80
	}
	if config.GlamourMaxWidth > 0 && int(config.GlamourMaxWidth) < width {
		width = int(config.GlamourMaxWidth)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		log.Warn("markdown render failed", "error", err)
		return md
	}
	return out
}

func articleMarkdown(a news.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Title)

	meta := a.Source
	if !a.Published.IsZero() {
		meta += " · " + a.Published.Format("Mon, 02 Jan 2006 15:04")
	}
	fmt.Fprintf(&b, "*%s*\n\n", meta)

	if a.Summary != "" {
		b.WriteString(a.Summary + "\n\n")
	}
	if a.Link != "" {
		fmt.Fprintf(&b, "[Read the full story](%s)\n", a.Link)
	}
	return b.String()
}

// COMMANDS

func fetchNews(c *commonModel) tea.Cmd {
	return func() tea.Msg {
		articles, err := c.fetcher.Fetch(context.Background())
		return newsLoadedMsg{articles: articles, err: err}
	}
}

// glossCandidates looks up translations for an import selection. A
// failed lookup leaves the gloss empty so the sanitizer substitutes the
// placeholder.
func glossCandidates(c *commonModel, words, sentences []string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg newsGlossedMsg
		for _, w := range words {
			gloss, err := c.glosser.Translate(ctx, w, "en", "zh-CN")
			if err != nil {
				log.Warn("gloss lookup failed", "word", w, "error", err)
				gloss = ""
			}
			msg.words = append(msg.words, glossedCandidate{text: w, gloss: gloss})
		}
		for _, s := range sentences {
			gloss, err := c.glosser.Translate(ctx, s, "ja", "zh-CN")
			if err != nil {
				log.Warn("gloss lookup failed", "error", err)
				gloss = ""
			}
			msg.sentences = append(msg.sentences, glossedCandidate{text: s, gloss: gloss})
		}
		return msg
	}
}
