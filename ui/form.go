package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hyaochen/echolingo-lab/internal/store"
	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

// browseForm is the add/edit form for either item kind. Progress and
// the needs-work flag survive an edit untouched; only the text fields
// are editable.
type browseForm struct {
	tab        browseTab
	id         string
	labels     []string
	inputs     []textinput.Model
	focus      int
	meaningIdx int
	errText    string

	progress  vocab.Progress
	needsWork bool
}

func newBrowseForm(tab browseTab, v *vocab.VocabularyItem, s *vocab.SentenceItem) browseForm {
	f := browseForm{tab: tab}

	newInput := func(placeholder, value string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Prompt = "❯ "
		in.CharLimit = 200
		in.SetValue(value)
		return in
	}

	if tab == tabVocabulary {
		var word, meaning, tags string
		if v != nil {
			f.id = v.ID
			f.progress = v.Progress
			f.needsWork = v.NeedsWork
			word, meaning, tags = v.Word, v.Meaning, strings.Join(v.Tags, ", ")
		}
		f.labels = []string{"word", "meaning", "tags (comma separated)"}
		f.inputs = []textinput.Model{
			newInput("word", word),
			newInput("meaning", meaning),
			newInput("tags", tags),
		}
		f.meaningIdx = 1
	} else {
		var sentence, roman, meaning, tags, glosses string
		if s != nil {
			f.id = s.ID
			f.progress = s.Progress
			sentence, roman, meaning = s.Sentence, s.Romanization, s.Meaning
			tags = strings.Join(s.Tags, ", ")
			glosses = joinGlossPairs(s.VocabularyGlosses)
		}
		f.labels = []string{"sentence", "romanization (blank = auto)", "meaning", "tags (comma separated)", "glosses (term=gloss; ...)"}
		f.inputs = []textinput.Model{
			newInput("sentence", sentence),
			newInput("romanization", roman),
			newInput("meaning", meaning),
			newInput("tags", tags),
			newInput("glosses", glosses),
		}
		f.meaningIdx = 2
	}

	f.inputs[0].Focus()
	return f
}

func (f *browseForm) setMeaning(text string) {
	f.inputs[f.meaningIdx].SetValue(text)
}

func (f *browseForm) setFocus(i int) {
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// buildVocabulary assembles the item the form describes.
func (f browseForm) buildVocabulary() vocab.VocabularyItem {
	return vocab.VocabularyItem{
		ID:        f.id,
		Word:      f.inputs[0].Value(),
		Meaning:   f.inputs[1].Value(),
		Tags:      splitTags(f.inputs[2].Value()),
		NeedsWork: f.needsWork,
		Progress:  f.progress,
	}
}

func (f browseForm) buildSentence() vocab.SentenceItem {
	return vocab.SentenceItem{
		ID:                f.id,
		Sentence:          f.inputs[0].Value(),
		Romanization:      f.inputs[1].Value(),
		Meaning:           f.inputs[2].Value(),
		Tags:              splitTags(f.inputs[3].Value()),
		VocabularyGlosses: splitGlossPairs(f.inputs[4].Value()),
		Progress:          f.progress,
	}
}

func (f browseForm) view() string {
	var b strings.Builder
	title := "Add"
	if f.id != "" {
		title = "Edit"
	}
	b.WriteString("  " + titleStyle(title+" "+strings.ToLower(f.tab.String())) + "\n\n")
	for i, in := range f.inputs {
		b.WriteString("  " + subtleStyle(f.labels[i]) + "\n  " + in.View() + "\n")
	}
	if f.errText != "" {
		b.WriteString("\n  " + flagMarkStyle(f.errText) + "\n")
	}
	b.WriteString("\n  " + subtleStyle("enter: next/save • tab: next field • ctrl+t: translate meaning • esc: cancel") + "\n")
	return b.String()
}

func (m browseModel) updateForm(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = browseModeList
		return m, nil

	case "tab", "down":
		m.form.setFocus(m.form.focus + 1)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.form.setFocus(m.form.focus - 1)
		return m, textinput.Blink

	case "ctrl+t":
		text := strings.TrimSpace(m.form.inputs[0].Value())
		if text == "" {
			m.form.errText = "nothing to translate yet"
			return m, nil
		}
		from := "en"
		if m.tab == tabSentences {
			from = "ja"
		}
		m.form.errText = ""
		return m, fetchGloss(m.common, text, from, "zh-CN")

	case "enter":
		if m.form.focus < len(m.form.inputs)-1 {
			m.form.setFocus(m.form.focus + 1)
			return m, textinput.Blink
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

// submitForm validates through the sanitizer path and writes the item
// into the record.
func (m browseModel) submitForm() (browseModel, tea.Cmd) {
	c := m.common
	rec := c.record()

	if m.tab == tabVocabulary {
		item, ok := vocab.NormalizeVocabulary(m.form.buildVocabulary())
		if !ok {
			m.form.errText = "the word cannot be empty"
			return m, nil
		}
		c.store.Update(func(*store.Envelope) {
			if existing := rec.FindVocabulary(item.ID); existing != nil {
				*existing = item
			} else {
				rec.Vocabulary = append(rec.Vocabulary, item)
			}
			rec.Touch(time.Now())
		})
	} else {
		item, ok := vocab.NormalizeSentence(m.form.buildSentence())
		if !ok {
			m.form.errText = "the sentence cannot be empty"
			return m, nil
		}
		c.store.Update(func(*store.Envelope) {
			if existing := rec.FindSentence(item.ID); existing != nil {
				*existing = item
			} else {
				rec.Sentences = append(rec.Sentences, item)
			}
			rec.Touch(time.Now())
		})
	}

	m.mode = browseModeList
	m.refresh()
	return m, m.showStatusMessage("saved")
}

func (m *browseModel) openEditForm(id string) {
	c := m.common
	c.store.View(func(*store.Envelope) {
		rec := c.user.Data
		if m.tab == tabVocabulary {
			if it := rec.FindVocabulary(id); it != nil {
				item := *it
				m.form = newBrowseForm(m.tab, &item, nil)
				m.mode = browseModeForm
			}
		} else {
			if it := rec.FindSentence(id); it != nil {
				item := *it
				m.form = newBrowseForm(m.tab, nil, &item)
				m.mode = browseModeForm
			}
		}
	})
}

// ETC

func splitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

func splitGlossPairs(s string) []vocab.VocabularyGloss {
	var pairs []vocab.VocabularyGloss
	for _, part := range strings.Split(s, ";") {
		term, gl, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		pairs = append(pairs, vocab.VocabularyGloss{
			Term:  strings.TrimSpace(term),
			Gloss: strings.TrimSpace(gl),
		})
	}
	return pairs
}

func joinGlossPairs(pairs []vocab.VocabularyGloss) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.Term+"="+p.Gloss)
	}
	return strings.Join(parts, "; ")
}

// COMMANDS

func fetchGloss(c *commonModel, text, from, to string) tea.Cmd {
	return func() tea.Msg {
		out, err := c.glosser.Translate(context.Background(), text, from, to)
		return glossFetchedMsg{text: out, err: err}
	}
}
