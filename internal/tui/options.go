package tui

import (
	"context"
	"time"

	"github.com/evanschultz/kanboard/internal/app"
)

// UIConfig toggles optional board decorations.
type UIConfig struct {
	ShowDescription bool
	ShowTimestamps  bool
	RenderMarkdown  bool
}

// FileWatcher reports on-disk changes of the bound board file.
type FileWatcher interface {
	Changes() <-chan time.Time
	Stop() error
}

// WatchFactory starts a watcher for path.
type WatchFactory func(path string) (FileWatcher, error)

type Option func(*Model)

func DefaultUIConfig() UIConfig {
	return UIConfig{
		ShowDescription: true,
		ShowTimestamps:  true,
		RenderMarkdown:  true,
	}
}

func WithUIConfig(cfg UIConfig) Option {
	return func(m *Model) {
		m.ui = cfg
	}
}

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithJournal shows the journal's newest entry in the status line.
func WithJournal(j *app.Journal) Option {
	return func(m *Model) {
		m.journal = j
	}
}

func WithWatchFactory(factory WatchFactory) Option {
	return func(m *Model) {
		m.watch.factory = factory
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}
