// Package filestore persists boards as JSON or YAML documents.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/evanschultz/kanboard/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format selects the document encoding.
type Format string

// FormatJSON and FormatYAML enumerate supported encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat reports an unsupported Format value.
var ErrUnknownFormat = errors.New("unknown document format")

// Store reads and writes whole boards in one document format.
type Store struct {
	format Format
}

// New constructs a store for format.
func New(format Format) (*Store, error) {
	switch format {
	case FormatJSON, FormatYAML:
		return &Store{format: format}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// LoadBoard reads the board stored at path. A missing file wraps fs.ErrNotExist.
func (s *Store) LoadBoard(ctx context.Context, path string) (domain.Board, error) {
	if err := ctx.Err(); err != nil {
		return domain.Board{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Board{}, fmt.Errorf("read board: %w", err)
	}
	return Decode(s.format, data)
}

// SaveBoard writes b to path, creating parent directories. The file is replaced atomically.
func (s *Store) SaveBoard(ctx context.Context, path string, b domain.Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(s.format, b)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create board dir: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp board file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename board file: %w", err)
	}
	return nil
}

// Encode renders b as a document.
func Encode(format Format, b domain.Board) ([]byte, error) {
	doc := fromBoard(b)
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode board json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode board yaml: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("finish board yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Decode parses a document and validates the board it describes.
func Decode(format Format, data []byte) (domain.Board, error) {
	var doc boardDocument
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return domain.Board{}, fmt.Errorf("decode board json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return domain.Board{}, fmt.Errorf("decode board yaml: %w", err)
		}
	default:
		return domain.Board{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	b, err := doc.toBoard()
	if err != nil {
		return domain.Board{}, fmt.Errorf("decode board: %w", err)
	}
	return b, nil
}
