// Package main provides the CLI entrypoint for bunbuntype.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/bunbuntype/internal/config"
	"github.com/verte-zerg/bunbuntype/internal/model"
	"github.com/verte-zerg/bunbuntype/internal/stats"
	"github.com/verte-zerg/bunbuntype/internal/statsui"
	"github.com/verte-zerg/bunbuntype/internal/store"
	"github.com/verte-zerg/bunbuntype/internal/tui"
	"github.com/verte-zerg/bunbuntype/internal/wordlist"
)

const (
	defaultDuration    = 60 * time.Second
	defaultPreview     = 10
	defaultCurveWindow = 5
	plainBarsHeight    = 10
)

var (
	testDuration time.Duration
	testWordList string
	testHistory  string
	testPreview  int

	logDebug bool
	logFile  string

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	wordlistForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bunbuntype",
		Short:         "Timed terminal typing test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.PersistentFlags().StringVar(&testHistory, "history", "", "history file path")
	rootCmd.PersistentFlags().BoolVar(&logDebug, "debug", false, "verbose logging; report ignored input")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file instead of stderr")
	rootCmd.Flags().DurationVar(&testDuration, "duration", defaultDuration, "test duration")
	rootCmd.Flags().StringVar(&testWordList, "wordlist", "", "vocabulary file (whitespace-separated words)")
	rootCmd.Flags().IntVar(&testPreview, "preview", defaultPreview, "upcoming words to show")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newWordlistCmd())

	return rootCmd
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileDuration, err := fileCfg.Test.ParsedDuration()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyDurationConfig(cmd, "duration", &testDuration, fileDuration)
	applyStringConfig(cmd, "wordlist", &testWordList, fileCfg.Test.WordList)
	applyStringConfig(cmd, "history", &testHistory, fileCfg.Test.History)
	applyIntConfig(cmd, "preview", &testPreview, fileCfg.Test.Preview)

	cfg := model.Config{
		Duration:     testDuration,
		WordListPath: testWordList,
		HistoryPath:  resolveHistoryPath(testHistory),
		Preview:      testPreview,
		Debug:        logDebug,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	closeLog, err := setupLogger(logDebug, logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	words, err := resolveVocabulary(cfg.WordListPath)
	if err != nil {
		return err
	}

	st, history, err := openHistory(cfg.HistoryPath)
	if err != nil {
		return err
	}

	m, err := tui.NewModel(tui.Options{
		Config:     cfg,
		Vocabulary: words,
		Recorder:   st,
		History:    history,
	})
	if err != nil {
		return fmt.Errorf("failed to start typing test: %w", err)
	}

	// Stderr output would tear the alt screen.
	if logFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveVocabulary prefers an explicit path, then the default path when the
// file exists, then the embedded list.
func resolveVocabulary(path string) ([]string, error) {
	if path != "" {
		words, err := wordlist.LoadWords(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list: %w", err)
		}
		return words, nil
	}
	defaultPath := config.DefaultWordListPath()
	words, err := wordlist.LoadWords(defaultPath)
	switch {
	case err == nil:
		return words, nil
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("using embedded word list", "missing", defaultPath)
		return wordlist.Default(), nil
	default:
		return nil, fmt.Errorf("failed to load word list: %w", err)
	}
}

func resolveHistoryPath(path string) string {
	if path != "" {
		return path
	}
	return config.DefaultHistoryPath()
}

// openHistory opens the store and loads its records, skipping bad lines. A
// history that cannot be read starts the program with no records.
func openHistory(path string) (*store.Store, []model.ScoreRecord, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}
	records, skipped, err := st.LoadAll(store.SkipInvalid)
	if err != nil {
		slog.Warn("failed to load history; starting empty", "path", st.Path(), "err", err)
		return st, nil, nil
	}
	for _, perr := range skipped {
		slog.Warn("skipped history line", "path", st.Path(), "line", perr.Line, "err", perr.Err)
	}
	return st, records, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show result history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print text report instead of the interactive viewer")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags()
	if err != nil {
		return err
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "history", &testHistory, fileCfg.Test.History)

	closeLog, err := setupLogger(logDebug, logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	_, records, err := openHistory(resolveHistoryPath(testHistory))
	if err != nil {
		return err
	}

	if statsPlain {
		return writePlainStats(cmd.OutOrStdout(), records, cfg, stats.TerminalWidth())
	}

	if logFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	program := tea.NewProgram(statsui.NewModel(records, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfigFromFlags() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func writePlainStats(w io.Writer, records []model.ScoreRecord, cfg model.StatsConfig, width int) error {
	report := stats.BuildReport(records, cfg)
	if len(report.Records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if err := stats.RenderSummary(w, report.Records); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := stats.RenderRecordTable(w, report.Records); err != nil {
		return fmt.Errorf("failed to render records: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := stats.RenderCurves(w, report.Records, stats.CurveOptions{Window: cfg.CurveWindow, Width: stats.CurveWidth(width)}); err != nil {
		return fmt.Errorf("failed to render curves: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := stats.RenderBars(w, report.Points, width, plainBarsHeight); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Write the built-in word list to the default path for editing",
		Args:  cobra.NoArgs,
		RunE:  runWordlistCmd,
	}
	cmd.Flags().BoolVar(&wordlistForce, "force", false, "overwrite an existing file")
	return cmd
}

func runWordlistCmd(cmd *cobra.Command, _ []string) error {
	outPath := config.DefaultWordListPath()
	if !wordlistForce {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat word list: %w", err)
		}
	}
	if err := writeWordList(outPath, wordlist.DefaultText()); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
	return err
}

// writeWordList replaces path atomically.
func writeWordList(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "wordlist-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := io.WriteString(tmpFile, text); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target, value *time.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# bunbuntype configuration
# Uncomment a value to enable it. CLI flags override config values.

[test]
# duration = %q          # Test length (Go duration syntax, > 0)
# wordlist = %q   # Vocabulary file
# history = %q    # Result history (JSON lines)
# preview = %d             # Upcoming words shown
`,
		defaultDuration.String(),
		config.DefaultWordListPath(),
		config.DefaultHistoryPath(),
		defaultPreview,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if cfg.Preview < 0 {
		return fmt.Errorf("--preview must be >= 0")
	}
	return nil
}
