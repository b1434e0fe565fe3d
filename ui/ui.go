// Package ui provides the terminal application: login, browse, review,
// settings, and news screens over one shared account store.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/hyaochen/echolingo-lab/internal/account"
	"github.com/hyaochen/echolingo-lab/internal/audio"
	"github.com/hyaochen/echolingo-lab/internal/news"
	"github.com/hyaochen/echolingo-lab/internal/review"
	"github.com/hyaochen/echolingo-lab/internal/speech"
	"github.com/hyaochen/echolingo-lab/internal/store"
	"github.com/hyaochen/echolingo-lab/internal/translate"
	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "saved!"
	ellipsis             = "…"
)

var config Config

// NewProgram returns a new Tea program.
func NewProgram(cfg Config) *tea.Program {
	log.Debug("starting echolingo", "data_file", cfg.DataFile, "mouse", cfg.EnableMouse)

	config = cfg
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	m := newModel(cfg)
	return tea.NewProgram(m, opts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// applicationContext indicates the area of the application something
// applies to. Occasionally used as an argument to commands and messages.
type applicationContext int

const (
	browseContext applicationContext = iota
	reviewContext
	settingsContext
	newsContext
)

type (
	statusMessageTimeoutMsg applicationContext

	// loggedInMsg announces a successful authentication.
	loggedInMsg struct{ user *store.User }

	// logoutMsg returns the application to the login screen.
	logoutMsg struct{}

	// quitAppMsg asks the root model to flush everything and exit.
	quitAppMsg struct{}

	// showScreenMsg switches the active screen.
	showScreenMsg struct{ target state }

	// storeWatchMsg carries the external-change channel once the file
	// watch is established.
	storeWatchMsg struct{ ch <-chan struct{} }

	// storeChangedMsg signals that another process wrote the data file.
	storeChangedMsg struct{}

	storeReloadedMsg struct{ err error }
)

// state is the top-level application state.
type state int

const (
	stateLogin state = iota
	stateBrowse
	stateReview
	stateSettings
	stateNews
)

func (s state) String() string {
	return map[state]string{
		stateLogin:    "login",
		stateBrowse:   "browsing items",
		stateReview:   "reviewing",
		stateSettings: "settings",
		stateNews:     "news",
	}[s]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    Config
	width  int
	height int

	store    *store.Store
	accounts *account.Manager
	sched    *review.Scheduler
	glosser  *translate.Client
	fetcher  *news.Fetcher

	// Set after login.
	user    *store.User
	session *review.Session

	// The audio device opens once per process. Engines are rebuilt
	// around it when the profile changes.
	player  *audio.Player
	engine  speech.Engine
	speaker speech.Speaker
}

// record returns the logged-in user's live data. Mutations and any read
// of review progress go under the store lock.
func (c *commonModel) record() *vocab.Record {
	return c.user.Data
}

// engineChoice is the speech engine the next session should use: the
// command-line override when present, the profile otherwise.
func (c *commonModel) engineChoice() vocab.Engine {
	switch vocab.Engine(c.cfg.Engine) {
	case vocab.EngineLocal:
		return vocab.EngineLocal
	case vocab.EngineHosted:
		return vocab.EngineHosted
	}
	var e vocab.Engine
	c.store.View(func(*store.Envelope) { e = c.user.Data.Speech.Engine })
	return e
}

// ensureNarration lazily opens the audio device and builds the speaker
// and session for the current engine choice. Called from the review
// screen right before the first start.
func (c *commonModel) ensureNarration() error {
	if c.session != nil {
		return nil
	}

	if c.player == nil {
		p, err := audio.NewPlayer()
		if err != nil {
			return fmt.Errorf("audio device: %w", err)
		}
		c.player = p
	}

	local := speech.NewLocalEngine()
	var engine speech.Engine = local
	if c.engineChoice() == vocab.EngineHosted {
		hosted, err := speech.NewHostedEngine(speech.HostedConfig{})
		if err != nil {
			return fmt.Errorf("hosted engine: %w", err)
		}
		// Hosted synthesis is a network round trip per segment, and a
		// review loops the same segments. Cache what comes back.
		engine = speech.NewFallbackEngine(speech.NewCachedEngine(hosted, 0), local)
	}
	if err := engine.Validate(); err != nil {
		_ = engine.Close()
		return err
	}

	c.engine = engine
	var speaker speech.Speaker = speech.NewSpeaker(engine, c.player)
	if c.cfg.Rate > 0 {
		speaker = rateOverrideSpeaker{Speaker: speaker, rate: c.cfg.Rate}
	}
	c.speaker = speaker
	c.session = review.NewSession(review.SessionConfig{
		Scheduler: c.sched,
		Speaker:   c.speaker,
		Record:    c.user.Data,
		OnMutate:  c.store.RequestSave,
		Lock:      c.store.Locker(),
	})
	return nil
}

// rateOverrideSpeaker pins every segment to one narration rate,
// backing the --rate flag.
type rateOverrideSpeaker struct {
	speech.Speaker
	rate float64
}

func (s rateOverrideSpeaker) Speak(ctx context.Context, seg speech.Segment) error {
	seg.Rate = s.rate
	return s.Speaker.Speak(ctx, seg)
}

// teardownNarration closes the session and the engine, keeping the
// audio device for the next build.
func (c *commonModel) teardownNarration() {
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
	if c.engine != nil {
		_ = c.engine.Close()
		c.engine = nil
	}
	c.speaker = nil
}

type model struct {
	common   *commonModel
	state    state
	fatalErr error

	// Sub-models
	login    loginModel
	browse   browseModel
	review   reviewModel
	settings settingsModel
	news     newsModel

	// Channel delivering external data file changes.
	storeChanges <-chan struct{}
}

func newModel(cfg Config) tea.Model {
	detectTheme()

	common := &commonModel{
		cfg:     cfg,
		sched:   review.NewScheduler(),
		glosser: translate.New(translate.Config{}),
		fetcher: news.NewFetcher(news.Config{Feeds: cfg.Feeds, Limit: cfg.NewsLimit}),
	}
	m := model{common: common, state: stateLogin}

	st, err := store.Open(store.Config{
		Path:       cfg.DataFile,
		BackupKeep: cfg.BackupKeep,
		SaveDelay:  cfg.SaveDelay,
	})
	if err != nil {
		log.Error("unable to open data file", "file", cfg.DataFile, "error", err)
		m.fatalErr = err
		return m
	}
	common.store = st
	common.accounts = account.NewManager(st)

	m.login = newLoginModel(common)
	m.browse = newBrowseModel(common)
	m.review = newReviewModel(common)
	m.settings = newSettingsModel(common)
	m.news = newNewsModel(common)
	return m
}

func (m model) Init() tea.Cmd {
	if m.fatalErr != nil {
		return nil
	}
	return tea.Batch(m.login.init(), watchStore(m.common))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		// Ctrl+C always quits no matter where in the application you are.
		case "ctrl+c":
			m.shutdown()
			return m, tea.Quit

		case "ctrl+z":
			return m, tea.Suspend
		}

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.browse.setSize(msg.Width, msg.Height)
		m.news.setSize(msg.Width, msg.Height)

	case errMsg:
		log.Error("ui error", "state", m.state, "error", msg.err)

	case quitAppMsg:
		m.shutdown()
		return m, tea.Quit

	case loggedInMsg:
		m.common.user = msg.user
		applyTheme(msg.user.Data.Theme)
		log.Info("logged in", "user", msg.user.Name, "admin", msg.user.Admin)
		m.state = stateBrowse
		m.browse.refresh()
		return m, nil

	case logoutMsg:
		m.common.teardownNarration()
		m.common.user = nil
		detectTheme()
		m.state = stateLogin
		m.login = newLoginModel(m.common)
		return m, m.login.init()

	case showScreenMsg:
		m.state = msg.target
		switch msg.target {
		case stateBrowse:
			m.browse.refresh()
		case stateReview:
			m.review.refresh()
		case stateSettings:
			m.settings.refresh()
		case stateNews:
			if cmd := m.news.load(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case storeWatchMsg:
		m.storeChanges = msg.ch
		cmds = append(cmds, waitForStoreChange(msg.ch))

	case storeChangedMsg:
		log.Info("data file changed externally, reloading")
		// The session holds pointers into the record being replaced.
		m.common.teardownNarration()
		cmds = append(cmds, reloadStore(m.common), waitForStoreChange(m.storeChanges))

	case storeReloadedMsg:
		if msg.err != nil {
			log.Error("reload failed, keeping current data", "error", msg.err)
			break
		}
		if m.common.user != nil {
			u, err := m.common.store.Find(m.common.user.Name)
			if err != nil {
				// The account is gone from the new file.
				log.Warn("account vanished on reload", "user", m.common.user.Name)
				return m, func() tea.Msg { return logoutMsg{} }
			}
			m.common.user = u
			applyTheme(u.Data.Theme)
			m.browse.refresh()
		}
	}

	// Route everything else to the active screen.
	var cmd tea.Cmd
	switch m.state {
	case stateLogin:
		m.login, cmd = m.login.update(msg)
	case stateBrowse:
		m.browse, cmd = m.browse.update(msg)
	case stateReview:
		m.review, cmd = m.review.update(msg)
	case stateSettings:
		m.settings, cmd = m.settings.update(msg)
	case stateNews:
		m.news, cmd = m.news.update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}

	switch m.state {
	case stateBrowse:
		return m.browse.view()
	case stateReview:
		return m.review.view()
	case stateSettings:
		return m.settings.view()
	case stateNews:
		return m.news.view()
	default:
		return m.login.view()
	}
}

// shutdown flushes and releases everything before quitting.
func (m *model) shutdown() {
	c := m.common
	c.teardownNarration()
	if c.player != nil {
		_ = c.player.Close()
		c.player = nil
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			log.Error("final save failed", "error", err)
		}
	}
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle("ERROR"),
		err,
		subtleStyle(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// COMMANDS

func watchStore(c *commonModel) tea.Cmd {
	return func() tea.Msg {
		ch, err := c.store.Watch(context.Background())
		if err != nil {
			log.Warn("data file watch unavailable", "error", err)
			return nil
		}
		return storeWatchMsg{ch: ch}
	}
}

func waitForStoreChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

func reloadStore(c *commonModel) tea.Cmd {
	return func() tea.Msg {
		return storeReloadedMsg{err: c.store.Reload()}
	}
}

func showScreen(target state) tea.Cmd {
	return func() tea.Msg {
		return showScreenMsg{target: target}
	}
}

func quitApp() tea.Msg { return quitAppMsg{} }

func logout() tea.Msg { return logoutMsg{} }

func waitForStatusMessageTimeout(appCtx applicationContext, t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg(appCtx)
	}
}

// ETC

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
