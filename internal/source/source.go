// Package source loads sample documents from files or readers and turns them
// into the records handed to inference.
package source

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/usestring/prisma-infer/internal/query"
	"github.com/usestring/prisma-infer/pkg/prisma"
)

// Format is the encoding of a sample document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported sample format")
	// ErrTooLarge is returned when an input exceeds the configured size limit.
	ErrTooLarge = errors.New("input exceeds size limit")
	// ErrSelect wraps failures of the jq selection.
	ErrSelect = errors.New("select")
)

// StdinPath is the path that reads from the loader's Stdin.
const StdinPath = "-"

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Sample is a loaded sample document.
type Sample struct {
	Path    string
	Format  Format
	Bytes   int
	Records []prisma.Record
}

// Loader reads sample documents.
type Loader struct {
	maxBytes int64
	engine   *query.Engine
	stdin    io.Reader
	logger   *slog.Logger
}

// NewLoader creates a loader that rejects inputs larger than maxBytes
// (no limit when maxBytes <= 0).
func NewLoader(maxBytes int64, engine *query.Engine) *Loader {
	if engine == nil {
		engine = query.NewEngine()
	}
	return &Loader{
		maxBytes: maxBytes,
		engine:   engine,
		stdin:    os.Stdin,
		logger:   slog.Default().With("component", "source"),
	}
}

// WithStdin replaces the reader used for StdinPath.
func (l *Loader) WithStdin(r io.Reader) *Loader {
	l.stdin = r
	return l
}

// LoadFile reads path and returns its records, narrowed by selectExpr when it
// is not empty. Files without a known extension are read as JSON, as is
// StdinPath.
func (l *Loader) LoadFile(path, selectExpr string) (*Sample, error) {
	format, err := DetectFormat(path)
	if err != nil {
		format = FormatJSON
	}

	var r io.Reader
	if path == StdinPath {
		r = l.stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := l.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	records, err := l.Decode(data, format, selectExpr)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loaded sample",
		"path", path,
		"format", format,
		"bytes", len(data),
		"records", len(records),
	)
	return &Sample{Path: path, Format: format, Bytes: len(data), Records: records}, nil
}

// ReadAll reads r up to the size limit.
func (l *Loader) ReadAll(r io.Reader) ([]byte, error) {
	if l.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, l.maxBytes)
	}
	return data, nil
}

// Decode parses data, applies the selection and checks that the result is an
// array. A non-array result wraps prisma.ErrNotArray.
func (l *Loader) Decode(data []byte, format Format, selectExpr string) ([]prisma.Record, error) {
	if l.maxBytes > 0 && int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, l.maxBytes)
	}

	var (
		doc prisma.Value
		err error
	)
	switch format {
	case FormatJSON:
		doc, err = prisma.ParseJSON(data)
	case FormatYAML:
		doc, err = prisma.ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if selectExpr != "" {
		sel, err := l.engine.Select(doc, selectExpr)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSelect, err)
		}
		if !sel.Ordered {
			l.logger.Debug("selection built new values, key order is sorted", "select", selectExpr)
		}
		doc = sel.Value
	}

	return prisma.Records(doc)
}
