// Package main provides the entry point for the EchoLingo CLI application.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/hyaochen/echolingo-lab/internal/news"
	"github.com/hyaochen/echolingo-lab/internal/store"
	"github.com/hyaochen/echolingo-lab/internal/vocab"
	"github.com/hyaochen/echolingo-lab/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	dataFile   string
	userName   string
	engineName string
	rate       float64
	feeds      []string
	newsLimit  int
	backupKeep int
	saveDelay  time.Duration
	width      uint
	mouse      bool

	rootCmd = &cobra.Command{
		Use:   "echolingo",
		Short: "Study vocabulary and sentences with spoken review, right in your terminal",
		Long: paragraph(
			fmt.Sprintf("\nFlashcards that %s. EchoLingo keeps English words and Japanese sentences on a spaced-repetition schedule and narrates each review aloud.", keyword("talk back")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: func(*cobra.Command, []string) error {
			return runTUI()
		},
	}
)

func validateOptions(cmd *cobra.Command) error {
	// grab config values from Viper
	dataFile = viper.GetString("data")
	userName = viper.GetString("user")
	engineName = viper.GetString("engine")
	rate = viper.GetFloat64("rate")
	feeds = viper.GetStringSlice("feeds")
	newsLimit = viper.GetInt("news.limit")
	backupKeep = viper.GetInt("backups.keep")
	saveDelay = viper.GetDuration("autosave.delay")
	width = viper.GetUint("width")
	mouse = viper.GetBool("mouse")

	switch vocab.Engine(engineName) {
	case "", vocab.EngineLocal, vocab.EngineHosted:
	default:
		return fmt.Errorf("unknown speech engine %q (valid: %s, %s)",
			engineName, vocab.EngineLocal, vocab.EngineHosted)
	}

	if rate != 0 && (rate < vocab.RateMin || rate > vocab.RateMax) {
		return fmt.Errorf("rate must be between %.1f and %.1f", vocab.RateMin, vocab.RateMax)
	}

	// Detect terminal width for rendered articles
	if !cmd.Flags().Changed("width") {
		if term.IsTerminal(int(os.Stdout.Fd())) && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}
			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

// resolveDataFile decides where the account envelope lives: the --data
// flag or config key, the ECHOLINGO_DATA_FILE environment variable, or
// the platform's per-user data directory.
func resolveDataFile() (string, error) {
	// Paths from the config file or environment can carry a literal
	// tilde that no shell has expanded.
	if dataFile != "" {
		return homedir.Expand(dataFile)
	}
	if p := os.Getenv("ECHOLINGO_DATA_FILE"); p != "" {
		return homedir.Expand(p)
	}

	scope := gap.NewScope(gap.User, "echolingo")
	path, err := scope.DataPath("echolingo.json")
	if err != nil {
		return "", fmt.Errorf("unable to resolve data path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("unable to create data directory: %w", err)
	}
	return path, nil
}

func runTUI() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the interactive console needs a terminal; try %s for plain output", keyword("echolingo news"))
	}

	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	path, err := resolveDataFile()
	if err != nil {
		return err
	}
	cfg.DataFile = path

	cfg.User = userName
	cfg.Engine = engineName
	cfg.Rate = rate
	cfg.Feeds = feeds
	cfg.NewsLimit = newsLimit
	cfg.BackupKeep = backupKeep
	cfg.SaveDelay = saveDelay
	cfg.GlamourMaxWidth = width
	cfg.EnableMouse = mouse

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "account data file (default: platform data dir)")
	rootCmd.Flags().StringVarP(&userName, "user", "u", "", "account preselected on the login screen")
	rootCmd.Flags().StringVarP(&engineName, "engine", "e", "", fmt.Sprintf("speech engine override (%s or %s)", vocab.EngineLocal, vocab.EngineHosted))
	rootCmd.Flags().Float64Var(&rate, "rate", 0, "narration rate override (0.5 to 2.0)")
	rootCmd.Flags().StringSliceVar(&feeds, "feed", nil, "news feed URL (repeatable)")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "word-wrap rendered articles at width")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("user", rootCmd.Flags().Lookup("user"))
	_ = viper.BindPFlag("engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("rate", rootCmd.Flags().Lookup("rate"))
	_ = viper.BindPFlag("feeds", rootCmd.Flags().Lookup("feed"))
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("engine", "")
	viper.SetDefault("rate", 0)
	viper.SetDefault("width", 0)
	viper.SetDefault("news.limit", news.DefaultLimit)
	viper.SetDefault("backups.keep", store.DefaultBackupKeep)
	viper.SetDefault("autosave.delay", store.DefaultSaveDelay)

	rootCmd.AddCommand(configCmd, manCmd, usersCmd, exportCmd, importCmd, newsCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "echolingo")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "echolingo")}, dirs...)
	}

	if c := os.Getenv("ECHOLINGO_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("echolingo")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("echolingo")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "echolingo.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
