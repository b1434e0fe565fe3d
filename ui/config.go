package ui

import "time"

// Config contains TUI-specific configuration.
type Config struct {
	// DataFile is the JSON envelope holding every account.
	DataFile string `env:"ECHOLINGO_DATA_FILE"`

	// User preselects an account on the login screen.
	User string

	// Engine overrides the record's speech engine when set.
	Engine string

	// Rate overrides every narration rate when nonzero.
	Rate float64

	// Feeds are the news sources; empty means the built-in defaults.
	Feeds []string

	// NewsLimit caps fetched headlines; zero means the fetcher default.
	NewsLimit int

	// BackupKeep and SaveDelay tune the store; zero means its defaults.
	BackupKeep int
	SaveDelay  time.Duration

	GlamourMaxWidth uint
	EnableMouse     bool

	// For debugging the UI
	Logfile string `env:"ECHOLINGO_LOGFILE"`
	Debug   bool   `env:"ECHOLINGO_DEBUG"`
}
