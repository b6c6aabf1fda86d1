// Package main provides the CLI entrypoint for wordsgen.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordsgen/internal/buildinfo"
	"github.com/verte-zerg/wordsgen/internal/codegen"
	"github.com/verte-zerg/wordsgen/internal/config"
	"github.com/verte-zerg/wordsgen/internal/logging"
	"github.com/verte-zerg/wordsgen/internal/model"
	"github.com/verte-zerg/wordsgen/internal/preview"
	"github.com/verte-zerg/wordsgen/internal/report"
	"github.com/verte-zerg/wordsgen/internal/store"
	"github.com/verte-zerg/wordsgen/internal/wordfreq"
	"github.com/verte-zerg/wordsgen/internal/wordlist"
)

const defaultFetchType = "large"

var (
	genInput     string
	genOutput    string
	genCount     int
	genName      string
	genStrict    bool
	configPath   string
	dbPath       string
	noHistory    bool
	verbose      bool
	historyLast  int
	historyYAML  bool
	fetchLang    string
	fetchSize    int
	fetchOut     string
	fetchForce   bool
	configEdit   bool
	versionShort bool
)

var logger = slog.New(slog.DiscardHandler)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordsgen",
		Short:         "Generate a Rust word table from a word list",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runGenerateCmd,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger = logging.New(cmd.ErrOrStderr(), verbose)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&genInput, "input", model.DefaultInputPath, "word list to read, one word per line")
	pf.StringVar(&genOutput, "output", model.DefaultOutputPath, "generated source file")
	pf.IntVar(&genCount, "count", model.DefaultCount, "number of words to emit")
	pf.StringVar(&genName, "name", model.DefaultName, "name of the generated constant")
	pf.BoolVar(&genStrict, "strict", false, "fail when the word list has fewer than --count words")
	pf.StringVar(&configPath, "config", config.DefaultFileName, "TOML config file (optional)")
	pf.StringVar(&dbPath, "db", "", "run history database (setting it enables recording)")
	pf.BoolVarP(&verbose, "verbose", "V", false, "verbose output")
	rootCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this run")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	cfg, fileCfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	started := time.Now()
	res, err := codegen.Generate(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", cfg.OutputPath, err)
	}
	if res.Short(cfg.Count) {
		logger.Warn("word list is shorter than requested", "input", cfg.InputPath, "emitted", len(res.Words), "requested", cfg.Count)
	}
	logger.Info("wrote word table", "output", cfg.OutputPath, "name", cfg.Name, "words", len(res.Words))

	if !historyEnabled(cmd, fileCfg) {
		return nil
	}
	run := model.Run{
		StartedAt:    started,
		DurationMs:   time.Since(started).Milliseconds(),
		InputPath:    absPath(cfg.InputPath),
		OutputPath:   absPath(cfg.OutputPath),
		Name:         cfg.Name,
		Requested:    cfg.Count,
		Emitted:      len(res.Words),
		InputWords:   res.InputWords,
		OutputSHA256: res.SHA256,
	}
	if err := recordRun(cmd.Context(), resolveDBPath(fileCfg), run); err != nil {
		logger.Warn("failed to record run history", "err", err)
	}
	return nil
}

func recordRun(ctx context.Context, path string, run model.Run) error {
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", "err", cerr)
		}
	}()
	id, err := st.InsertRun(ctx, run)
	if err != nil {
		return err
	}
	logger.Debug("recorded run", "id", id, "db", path)
	return nil
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the generated file matches the word list",
		Args:  cobra.NoArgs,
		RunE:  runCheckCmd,
	}
}

func runCheckCmd(cmd *cobra.Command, _ []string) error {
	cfg, fileCfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	res, err := codegen.Check(cfg)
	if err != nil {
		if errors.Is(err, codegen.ErrStale) {
			if _, werr := fmt.Fprintf(out, "%s %s\n", color.RedString("stale"), cfg.OutputPath); werr != nil {
				return fmt.Errorf("failed to write output: %w", werr)
			}
			if herr := printLastRun(cmd, fileCfg, cfg, res); herr != nil {
				logger.Warn("failed to read run history", "err", herr)
			}
		}
		return err
	}
	if _, err := fmt.Fprintf(out, "%s %s\n", color.GreenString("ok"), cfg.OutputPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := printLastRun(cmd, fileCfg, cfg, res); err != nil {
		logger.Warn("failed to read run history", "err", err)
	}
	return nil
}

// printLastRun reports the digest of the last recorded run for the output and
// whether it matches the freshly rendered content. An absent database is skipped.
func printLastRun(cmd *cobra.Command, fileCfg config.FileConfig, cfg model.Config, res codegen.Result) error {
	if !historyEnabled(cmd, fileCfg) {
		return nil
	}
	path := resolveDBPath(fileCfg)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat db: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", "err", cerr)
		}
	}()

	run, ok, err := st.LastRun(cmd.Context(), absPath(cfg.OutputPath))
	if err != nil {
		return fmt.Errorf("failed to read last run: %w", err)
	}
	if !ok {
		logger.Debug("no recorded run", "output", cfg.OutputPath)
		return nil
	}
	status := color.GreenString("matches")
	if run.OutputSHA256 != res.SHA256 {
		status = color.YellowString("differs")
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "last run %s sha256 %s %s\n",
		run.StartedAt.Local().Format(time.DateTime), shortDigest(run.OutputSHA256), status)
	return err
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Browse the words that would be emitted",
		Args:  cobra.NoArgs,
		RunE:  runPreviewCmd,
	}
}

func runPreviewCmd(cmd *cobra.Command, _ []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	res, err := codegen.Build(cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(preview.NewModel(cfg, res), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run preview TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded generation runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 20, "limit to last N runs (0 for all)")
	cmd.Flags().BoolVar(&historyYAML, "yaml", false, "print runs as YAML")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st, err := store.Open(resolveDBPath(fileCfg))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", "err", cerr)
		}
	}()

	runs, err := st.ListRuns(cmd.Context(), historyLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if historyYAML {
		return report.WriteRunsYAML(cmd.OutOrStdout(), runs)
	}
	return report.WriteRunsTable(cmd.OutOrStdout(), runs, report.TerminalWidth())
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Build a word list from the wordfreq dataset",
		Args:  cobra.NoArgs,
		RunE:  runFetchCmd,
	}
	cmd.Flags().StringVar(&fetchLang, "lang", "en", "language code")
	cmd.Flags().IntVar(&fetchSize, "size", model.DefaultCount, "number of words")
	cmd.Flags().StringVar(&fetchOut, "out", "", "word list to write (default: --input)")
	cmd.Flags().BoolVar(&fetchForce, "force", false, "overwrite an existing word list")
	return cmd
}

func runFetchCmd(cmd *cobra.Command, _ []string) error {
	if fetchSize <= 0 {
		return fmt.Errorf("--size must be greater than 0")
	}
	lang := strings.ToLower(strings.TrimSpace(fetchLang))
	if lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	outPath := fetchOut
	if outPath == "" {
		cfg, _, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		outPath = cfg.InputPath
	}
	if !fetchForce {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat word list: %w", err)
		}
	}

	logger.Info("fetching wordfreq metadata")
	wheel, err := wordfreq.DownloadLatestWheel(cmd.Context(), config.DefaultWordfreqCacheDir())
	if err != nil {
		return fmt.Errorf("failed to download wordfreq wheel: %w", err)
	}
	logger.Info("using wordfreq wheel", "file", wheel.Filename, "cached", wheel.Cached)

	types, err := wordfreq.ListLanguageTypes(wheel.Path)
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}
	listType, ok := types.SelectType(lang, defaultFetchType)
	if !ok {
		return fmt.Errorf("unknown language %q (available: %s)", lang, strings.Join(types.Languages(), ", "))
	}
	if listType != defaultFetchType {
		logger.Info("falling back to smaller list", "lang", lang, "type", listType)
	}

	words, err := wordfreq.ExtractWordlist(wheel.Path, lang, listType, wordfreq.DefaultOptions(fetchSize))
	if err != nil {
		return fmt.Errorf("failed to extract %s word list: %w", lang, err)
	}
	if len(words) < fetchSize {
		logger.Warn("fewer words available than requested", "lang", lang, "words", len(words), "requested", fetchSize)
	}
	if err := wordlist.WriteWords(outPath, words); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	if err := wordfreq.WriteAttribution(wheel.Path, filepath.Dir(outPath)); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	logger.Info("wrote word list", "path", outPath, "words", len(words))
	return nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.Flags().BoolVar(&configEdit, "edit", false, "open the config file in $EDITOR")
	return cmd
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := configPath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logger.Info("wrote config template", "path", path)
	}
	if !configEdit {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	editCmd := exec.Command(parts[0], append(parts[1:], path)...)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := buildinfo.Colored()
			if versionShort {
				v = buildinfo.Summary()
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wordsgen %s\n", v)
			return err
		},
	}
	cmd.Flags().BoolVar(&versionShort, "short", false, "print the plain version string")
	return cmd
}

// resolveConfig merges built-in defaults, the TOML file and flags, in that order of precedence from lowest.
func resolveConfig(cmd *cobra.Command) (model.Config, config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return model.Config{}, config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("loaded config", "path", configPath)

	applyStringConfig(cmd, "input", &genInput, fileCfg.Generate.Input)
	applyStringConfig(cmd, "output", &genOutput, fileCfg.Generate.Output)
	applyIntConfig(cmd, "count", &genCount, fileCfg.Generate.Count)
	applyStringConfig(cmd, "name", &genName, fileCfg.Generate.Name)
	applyBoolConfig(cmd, "strict", &genStrict, fileCfg.Generate.Strict)

	cfg := model.Config{
		InputPath:  genInput,
		OutputPath: genOutput,
		Count:      genCount,
		Name:       genName,
		Strict:     genStrict,
	}
	if err := codegen.Validate(cfg); err != nil {
		return model.Config{}, config.FileConfig{}, err
	}
	return cfg, fileCfg, nil
}

// historyEnabled reports whether runs are recorded. Recording is opt-in: it
// needs --db, [history] enabled = true or a configured [history] db.
func historyEnabled(cmd *cobra.Command, fileCfg config.FileConfig) bool {
	if noHistory {
		return false
	}
	if cmd.Flags().Changed("db") {
		return true
	}
	if fileCfg.History.Enabled != nil {
		return *fileCfg.History.Enabled
	}
	return fileCfg.History.DB != nil && *fileCfg.History.DB != ""
}

func resolveDBPath(fileCfg config.FileConfig) string {
	if dbPath != "" {
		return dbPath
	}
	if fileCfg.History.DB != nil && *fileCfg.History.DB != "" {
		return *fileCfg.History.DB
	}
	return config.DefaultDBPath()
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordsgen configuration
# Uncomment a value to enable it. CLI flags override config values.

[generate]
# input = %q       # Word list, one word per line
# output = %q        # Generated Rust source
# count = %d            # Number of words to emit
# name = %q           # Name of the generated constant
# strict = false         # Fail when the word list is shorter than count

[history]
# enabled = false        # Record each run (--db also enables it)
# db = ""                # History database (default: XDG data dir)
`,
		model.DefaultInputPath,
		model.DefaultOutputPath,
		model.DefaultCount,
		model.DefaultName,
	)
}
