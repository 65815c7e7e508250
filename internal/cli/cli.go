package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/sb-box-scores/internal/boxscore"
	"github.com/pfrederiksen/sb-box-scores/internal/config"
	"github.com/pfrederiksen/sb-box-scores/internal/logger"
	"github.com/pfrederiksen/sb-box-scores/internal/scraper"
	"github.com/pfrederiksen/sb-box-scores/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig      string
	flagURL         string
	flagContainerID string
	flagStartIndex  int
	flagOutputDir   string
	flagTimeout     time.Duration
	flagFormat      string
	flagLogLevel    string
	flagVerbose     bool
	flagDryRun      bool
)

// exitError carries a diagnostic that is printed as-is before exiting with code
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) Unwrap() error { return e.err }

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "sb-box-scores",
		Short: "Export Super Bowl box scores to CSV",
		Long: `Fetches the footballdb.com Super Bowl history page and writes the quarter-by-quarter
score of every game to sb_<N>.csv, counting N down from the most recent game.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runExport,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&flagURL, "url", defaults.URL, "Page to scrape")
	cmd.Flags().StringVar(&flagContainerID, "container-id", defaults.ContainerID, "Id of the div holding the score tables")
	cmd.Flags().IntVar(&flagStartIndex, "start-index", defaults.StartIndex, "Game index of the first table on the page")
	cmd.Flags().StringVar(&flagOutputDir, "output-dir", defaults.OutputDir, "Directory for the CSV files")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", defaults.Timeout, "HTTP timeout (0 waits forever)")
	cmd.Flags().StringVar(&flagFormat, "format", defaults.Format, "Summary format: text or json")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Fetch and parse without writing files")

	return cmd
}

// loadConfig layers flags the user set on top of the file and environment settings
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = flagURL
	}
	if flags.Changed("container-id") {
		cfg.ContainerID = flagContainerID
	}
	if flags.Changed("start-index") {
		cfg.StartIndex = flagStartIndex
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if flags.Changed("format") {
		cfg.Format = flagFormat
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	cfg.Format = strings.ToLower(cfg.Format)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// runExport is the main command logic
func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(level, cmd.ErrOrStderr()).With(logger.Fields{
		"run_id": uuid.NewString(),
	})
	logger.SetDefault(log)

	log.Info("Starting export", logger.Fields{
		"url":         cfg.URL,
		"output_dir":  cfg.OutputDir,
		"start_index": cfg.StartIndex,
		"dry_run":     flagDryRun,
	})

	sc := scraper.New(
		scraper.WithURL(cfg.URL),
		scraper.WithUserAgent(cfg.UserAgent),
		scraper.WithContainerID(cfg.ContainerID),
		scraper.WithTimeout(cfg.Timeout),
	)

	games, err := sc.FetchGames(cmd.Context())
	switch {
	case errors.Is(err, scraper.ErrContainerNotFound):
		return &exitError{code: ExitError, msg: fmt.Sprintf("Couldn't find div with id=%s", cfg.ContainerID), err: err}
	case errors.Is(err, scraper.ErrContainerNotElement):
		return &exitError{code: ExitError, msg: "Expected <div>, found string", err: err}
	case err != nil:
		log.Error("Scrape failed", logger.Fields{"url": cfg.URL}, err)
		return fmt.Errorf("scraping games: %w", err)
	}

	log.Info("Parsed games", logger.Fields{"games": len(games)})

	result := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Source:    cfg.URL,
		OutputDir: cfg.OutputDir,
		DryRun:    flagDryRun,
	}

	if flagDryRun {
		result.Games = numberGames(games, cfg.StartIndex)
	} else {
		result.Games, err = writeGames(games, cfg)
		if err != nil {
			return err
		}
	}
	result.GameCount = len(result.Games)

	log.Debug("Run metrics", logger.GetMetricsSnapshot())

	if err := WriteOutput(cmd.OutOrStdout(), result, OutputFormat(cfg.Format)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func writeGames(games []boxscore.Game, cfg *config.Config) ([]boxscore.Game, error) {
	store, err := storage.New(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	written, err := store.WriteGames(games, cfg.StartIndex)
	if err != nil {
		return nil, fmt.Errorf("writing games: %w", err)
	}

	return written, nil
}

// numberGames assigns indexes without touching the filesystem
func numberGames(games []boxscore.Game, start int) []boxscore.Game {
	indexes := storage.Indexes(start, len(games))

	numbered := make([]boxscore.Game, len(games))
	for i, game := range games {
		game.Number = indexes[i]
		numbered[i] = game
	}
	return numbered
}

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}

// Run executes the root command with args and returns the process exit code.
// Container diagnostics are printed to stdout as a single line; other failures go to stderr.
func Run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		fmt.Fprintln(stdout, ee.msg)
	} else {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// Execute runs the CLI
func Execute() {
	if code := Run(os.Args[1:], os.Stdout, os.Stderr); code != ExitSuccess {
		os.Exit(code)
	}
}
