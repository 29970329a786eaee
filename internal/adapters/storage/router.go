// Package storage routes board persistence to an adapter chosen by file extension.
package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/evanschultz/kanboard/internal/adapters/storage/filestore"
	"github.com/evanschultz/kanboard/internal/adapters/storage/sqlite"
	"github.com/evanschultz/kanboard/internal/app"
	"github.com/evanschultz/kanboard/internal/domain"
)

// Kind names a persisted board format.
type Kind string

// KindJSON and related constants enumerate routable formats.
const (
	KindJSON   Kind = "json"
	KindYAML   Kind = "yaml"
	KindSQLite Kind = "sqlite"
)

// KindFor returns the format for path. Unknown or missing extensions read as JSON.
func KindFor(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return KindYAML
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	default:
		return KindJSON
	}
}

// Router implements app.BoardStore over the JSON, YAML, and SQLite adapters.
type Router struct {
	json   *filestore.Store
	yaml   *filestore.Store
	sqlite *sqlite.Store
}

var _ app.BoardStore = (*Router)(nil)

// NewRouter constructs a router with every adapter ready.
func NewRouter() *Router {
	jsonStore, _ := filestore.New(filestore.FormatJSON)
	yamlStore, _ := filestore.New(filestore.FormatYAML)
	return &Router{
		json:   jsonStore,
		yaml:   yamlStore,
		sqlite: sqlite.New(),
	}
}

// For returns the adapter that handles path.
func (r *Router) For(path string) app.BoardStore {
	switch KindFor(path) {
	case KindYAML:
		return r.yaml
	case KindSQLite:
		return r.sqlite
	default:
		return r.json
	}
}

// LoadBoard reads path through its adapter.
func (r *Router) LoadBoard(ctx context.Context, path string) (domain.Board, error) {
	return r.For(path).LoadBoard(ctx, path)
}

// SaveBoard writes path through its adapter.
func (r *Router) SaveBoard(ctx context.Context, path string, b domain.Board) error {
	return r.For(path).SaveBoard(ctx, path, b)
}

// Convert loads the board at src and writes it to dst, re-encoding by extension.
func (r *Router) Convert(ctx context.Context, src, dst string) (domain.Board, error) {
	b, err := r.LoadBoard(ctx, src)
	if err != nil {
		return domain.Board{}, err
	}
	if err := r.SaveBoard(ctx, dst, b); err != nil {
		return domain.Board{}, err
	}
	return b, nil
}
