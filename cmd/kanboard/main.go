package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/kanboard/internal/adapters/storage"
	"github.com/evanschultz/kanboard/internal/adapters/watch"
	"github.com/evanschultz/kanboard/internal/app"
	"github.com/evanschultz/kanboard/internal/config"
	"github.com/evanschultz/kanboard/internal/domain"
	"github.com/evanschultz/kanboard/internal/platform"
	"github.com/evanschultz/kanboard/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var version = "dev"

// program is the slice of tea.Program that run needs.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program. Tests replace it.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// copyText places text on the system clipboard.
var copyText app.CopyFunc = clipboard.WriteAll

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes the CLI with args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetIn(os.Stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	appName    string
	devMode    bool
}

// newRootCommand builds the command tree.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{appName: platform.DefaultAppName, devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("KANBOARD_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("KANBOARD_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:           "kanboard [file]",
		Short:         "A keyboard-driven kanban board for the terminal",
		Long:          "kanboard edits a single board file. The extension picks the format: .json, .yaml/.yml, or .db/.sqlite.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runBoard(cmd.Context(), opts, path, stderr)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML")
	root.PersistentFlags().StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	root.PersistentFlags().BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newPathsCommand(opts, stdout),
		newShowCommand(opts, stdout, stderr),
		newConvertCommand(opts, stdout, stderr),
	)
	return root
}

func newPathsCommand(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, data, and log paths",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", configPathFor(opts, paths))
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

func newShowCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print a plain-text summary of a board file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(opts, stderr)
			if err != nil {
				return err
			}
			defer env.close(stderr)

			env.logger.Info("command flow start", "command", "show", "path", args[0])
			b, err := storage.NewRouter().LoadBoard(cmd.Context(), args[0])
			if err != nil {
				env.logger.Error("command flow failed", "command", "show", "err", err)
				return fmt.Errorf("load board %q: %w", args[0], err)
			}
			writeBoardSummary(stdout, b, time.Now())
			return nil
		},
	}
}

func newConvertCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a board between JSON, YAML, and SQLite",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(opts, stderr)
			if err != nil {
				return err
			}
			defer env.close(stderr)

			src, dst := args[0], args[1]
			env.logger.Info("command flow start", "command", "convert", "from", src, "to", dst)
			b, err := storage.NewRouter().Convert(cmd.Context(), src, dst)
			if err != nil {
				env.logger.Error("command flow failed", "command", "convert", "err", err)
				return fmt.Errorf("convert %q to %q: %w", src, dst, err)
			}
			_, _ = fmt.Fprintf(stdout, "converted %s (%s) -> %s (%s): %d columns, %d cards\n",
				src, storage.KindFor(src), dst, storage.KindFor(dst), b.Len(), countCards(b))
			env.logger.Info("command flow complete", "command", "convert")
			return nil
		},
	}
}

// runtimeEnv is the resolved configuration and logging shared by commands.
type runtimeEnv struct {
	paths      platform.Paths
	configPath string
	cfg        config.Config
	logger     *runtimeLogger
}

func (e *runtimeEnv) close(stderr io.Writer) {
	if err := e.logger.Close(); err != nil && e.logger.shouldLogToSink(e.logger.consoleSink) {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// loadEnv resolves paths, loads config, and builds the runtime logger.
func loadEnv(opts *rootOptions, stderr io.Writer) (*runtimeEnv, error) {
	paths, err := resolvePaths(opts)
	if err != nil {
		return nil, err
	}
	configPath := configPathFor(opts, paths)
	cfg, err := config.Load(configPath, config.Default())
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, paths.ResolveLogDir(cfg.Logging.DevFile.Dir))
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "log_dir", paths.LogDir)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}
	return &runtimeEnv{paths: paths, configPath: configPath, cfg: cfg, logger: logger}, nil
}

// runBoard opens path in the TUI.
func runBoard(ctx context.Context, opts *rootOptions, path string, stderr io.Writer) error {
	env, err := loadEnv(opts, stderr)
	if err != nil {
		return err
	}
	// Runtime logs stay in the dev-file sink while the board is on screen.
	env.logger.SetConsoleEnabled(false)
	defer env.close(stderr)

	cfg := env.cfg
	env.logger.Info("configuration loaded", "config_path", env.configPath, "log_level", cfg.Logging.Level, "watch", cfg.Watch.Enabled)

	journal := app.NewJournal(cfg.UI.JournalSize, time.Now, env.logger)
	board := app.New(storage.NewRouter(), journal, uuid.NewString, time.Now, app.Config{
		DefaultColumns:  cfg.Board.DefaultColumns,
		DefaultPriority: cfg.Priority(),
		NewCardTitle:    cfg.Board.NewCardTitle,
		CopyText:        copyText,
	})
	// Load failures are already in the journal and the board stays usable.
	_ = board.Open(ctx, path)

	modelOpts := []tui.Option{
		tui.WithContext(ctx),
		tui.WithJournal(journal),
		tui.WithUIConfig(toTUIConfig(cfg.UI)),
		tui.WithKeyConfig(toTUIKeyConfig(cfg.Keys)),
	}
	if cfg.Watch.Enabled {
		debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
		modelOpts = append(modelOpts, tui.WithWatchFactory(watchFactory(debounce, env.logger)))
	}

	env.logger.Info("starting tui program loop", "path", path)
	if _, err := programFactory(tui.NewModel(board, modelOpts...)).Run(); err != nil {
		env.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	env.logger.Info("command flow complete", "command", "tui", "dirty", board.Dirty())
	return nil
}

// watchFactory starts fsnotify watchers and logs their errors until stopped.
func watchFactory(debounce time.Duration, logger *runtimeLogger) tui.WatchFactory {
	return func(path string) (tui.FileWatcher, error) {
		w, err := watch.Start(watch.Config{Path: path, Debounce: debounce})
		if err != nil {
			return nil, err
		}
		logger.Debug("watching board file", "path", path, "debounce", debounce)
		go func() {
			for {
				select {
				case err := <-w.Errors():
					logger.Warn("board watcher error", "path", path, "err", err)
				case <-w.Done():
					return
				}
			}
		}()
		return w, nil
	}
}

func toTUIConfig(cfg config.UIConfig) tui.UIConfig {
	return tui.UIConfig{
		ShowDescription: cfg.ShowDescription,
		ShowTimestamps:  cfg.ShowTimestamps,
		RenderMarkdown:  cfg.RenderMarkdown,
	}
}

func toTUIKeyConfig(cfg config.KeyConfig) tui.KeyConfig {
	return tui.KeyConfig{
		Help:       cfg.Help,
		Write:      cfg.Write,
		Save:       cfg.Save,
		CopyTitle:  cfg.CopyTitle,
		ToggleDone: cfg.ToggleDone,
		Quit:       cfg.Quit,
	}
}

func resolvePaths(opts *rootOptions) (platform.Paths, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return platform.Paths{}, fmt.Errorf("resolve paths: %w", err)
	}
	return paths, nil
}

// configPathFor applies --config, then KANBOARD_CONFIG, then the platform default.
func configPathFor(opts *rootOptions, paths platform.Paths) string {
	if p := strings.TrimSpace(opts.configPath); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv("KANBOARD_CONFIG")); p != "" {
		return p
	}
	return paths.ConfigPath
}

// writeBoardSummary prints one line per column followed by its cards.
func writeBoardSummary(w io.Writer, b domain.Board, now time.Time) {
	for _, col := range b.Columns() {
		_, _ = fmt.Fprintf(w, "%s (%d)\n", col.Name, col.Len())
		for _, card := range col.Cards {
			mark := " "
			if card.Done {
				mark = "x"
			}
			line := fmt.Sprintf("  [%s] %-6s %s", mark, card.Priority, card.Title)
			if age := domain.Age(card.CreatedAt, now); age != "" {
				line += "  (" + age + ")"
			}
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

func countCards(b domain.Board) int {
	total := 0
	for i := 0; i < b.Len(); i++ {
		total += b.CardCount(i)
	}
	return total
}

// parseBoolEnv reads a boolean environment variable. ok is false when unset or malformed.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
