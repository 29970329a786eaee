package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/evanschultz/kanboard/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

// Log levels accepted by [logging].level.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

var validLogLevels = []string{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}

// fixedNormalKeys are the Normal-mode keys that [keys] cannot rebind.
var fixedNormalKeys = []string{
	"h", "l", "k", "j", "left", "right", "up", "down",
	"i", "a", "I", "A", "e", "enter", "x", "delete",
	"ctrl+k", "ctrl+j", "ctrl+up", "ctrl+down",
	"H", "L", "K", "J", "C", "R", "X",
	"esc", "ctrl+c",
}

// normalizeKey folds a configured key the way the key map parses it.
// Single characters keep their case, named keys are lower-cased.
func normalizeKey(raw, fallback string) string {
	value := strings.TrimSpace(raw)
	if raw == " " {
		value = " "
	}
	if value == "" {
		value = fallback
	}
	if value == " " || strings.EqualFold(value, "space") {
		return "space"
	}
	if utf8.RuneCountInString(value) == 1 {
		return value
	}
	return strings.ToLower(value)
}

type Config struct {
	Board   BoardConfig   `toml:"board"`
	UI      UIConfig      `toml:"ui"`
	Watch   WatchConfig   `toml:"watch"`
	Keys    KeyConfig     `toml:"keys"`
	Logging LoggingConfig `toml:"logging"`
}

type BoardConfig struct {
	DefaultColumns  []string `toml:"default_columns"`
	DefaultPriority string   `toml:"default_priority"`
	NewCardTitle    string   `toml:"new_card_title"`
}

type UIConfig struct {
	ShowDescription bool `toml:"show_description"`
	ShowTimestamps  bool `toml:"show_timestamps"`
	RenderMarkdown  bool `toml:"render_markdown"`
	JournalSize     int  `toml:"journal_size"`
}

type WatchConfig struct {
	Enabled bool `toml:"enabled"`
	// DebounceMS coalesces bursts of file events.
	DebounceMS int `toml:"debounce_ms"`
}

// KeyConfig overrides selected Normal-mode bindings. Blank keeps the built-in key.
type KeyConfig struct {
	Help       string `toml:"help"`
	Write      string `toml:"write"`
	Save       string `toml:"save"`
	CopyTitle  string `toml:"copy_title"`
	ToggleDone string `toml:"toggle_done"`
	Quit       string `toml:"quit"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

// DevFileConfig controls the rotating log file written in dev mode.
// A blank Dir resolves to the platform log directory.
type DevFileConfig struct {
	Enabled    bool   `toml:"enabled"`
	Dir        string `toml:"dir"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

func Default() Config {
	return Config{
		Board: BoardConfig{
			DefaultColumns:  []string{domain.DefaultColumnName},
			DefaultPriority: string(domain.PriorityMedium),
			NewCardTitle:    "",
		},
		UI: UIConfig{
			ShowDescription: true,
			ShowTimestamps:  true,
			RenderMarkdown:  true,
			JournalSize:     50,
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMS: 250,
		},
		Keys: KeyConfig{
			Help:       "?",
			Write:      "w",
			Save:       "W",
			CopyTitle:  "y",
			ToggleDone: "space",
			Quit:       "q",
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
			DevFile: DevFileConfig{
				Enabled:    true,
				Dir:        "",
				MaxSizeMB:  10,
				MaxBackups: 3,
			},
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	seen := map[string]struct{}{}
	for idx, name := range c.Board.DefaultColumns {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("board.default_columns[%d] is blank", idx)
		}
		if _, ok := seen[strings.ToLower(name)]; ok {
			return fmt.Errorf("board.default_columns[%d] is duplicated: %s", idx, name)
		}
		seen[strings.ToLower(name)] = struct{}{}
	}
	if strings.TrimSpace(c.Board.DefaultPriority) != "" {
		if _, err := domain.ParsePriority(c.Board.DefaultPriority); err != nil {
			return fmt.Errorf("invalid board.default_priority: %q", c.Board.DefaultPriority)
		}
	}

	if c.UI.JournalSize < 1 {
		return errors.New("ui.journal_size must be >= 1")
	}
	if c.Watch.DebounceMS < 0 {
		return errors.New("watch.debounce_ms must be >= 0")
	}

	level := strings.TrimSpace(strings.ToLower(c.Logging.Level))
	if level != "" && !slices.Contains(validLogLevels, level) {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.MaxSizeMB < 0 || c.Logging.DevFile.MaxBackups < 0 {
		return errors.New("logging.dev_file sizes must be >= 0")
	}

	bound := map[string]string{}
	for _, kv := range [][3]string{
		{"help", c.Keys.Help, "?"},
		{"write", c.Keys.Write, "w"},
		{"save", c.Keys.Save, "W"},
		{"copy_title", c.Keys.CopyTitle, "y"},
		{"toggle_done", c.Keys.ToggleDone, "space"},
		{"quit", c.Keys.Quit, "q"},
	} {
		name := normalizeKey(kv[1], kv[2])
		if slices.Contains(fixedNormalKeys, name) {
			return fmt.Errorf("keys.%s shadows a built-in key: %q", kv[0], name)
		}
		if other, ok := bound[name]; ok {
			return fmt.Errorf("keys.%s reuses the key of keys.%s: %q", kv[0], other, name)
		}
		bound[name] = kv[0]
	}

	return nil
}

// Priority returns the configured default priority, falling back to medium.
func (c Config) Priority() domain.Priority {
	p, err := domain.ParsePriority(c.Board.DefaultPriority)
	if err != nil {
		return domain.PriorityMedium
	}
	return p
}
