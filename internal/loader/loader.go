// Package loader reads the documents folder and extracts plain text from the
// file types it recognizes.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"docqa/internal/domain"
)

// ExtractFunc returns the plain text of the file at path.
type ExtractFunc func(path string) (string, error)

// Loader maps lower-case file extensions to text extractors.
type Loader struct {
	extractors map[string]ExtractFunc
}

// New returns a loader that understands .txt and .pdf files.
func New() *Loader {
	l := &Loader{extractors: make(map[string]ExtractFunc)}
	l.Register(".txt", ReadText)
	l.Register(".pdf", ReadPDF)
	return l
}

// Register adds or replaces the extractor for ext (with or without the dot).
func (l *Loader) Register(ext string, fn ExtractFunc) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	l.extractors[ext] = fn
}

// Supports reports whether files named name would be loaded.
func (l *Loader) Supports(name string) bool {
	_, ok := l.extractors[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Load scans dir (non-recursively, in name order) and returns one document per
// recognized file. Any I/O or extraction error aborts the scan.
func (l *Loader) Load(ctx context.Context, dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read documents folder %s: %w", domain.ErrIngestion, dir, err)
	}
	var docs []domain.Document
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		extract, ok := l.extractors[strings.ToLower(filepath.Ext(name))]
		if !ok {
			log.Debug().Str("file", name).Msg("skipping unsupported file")
			continue
		}
		path := filepath.Join(dir, name)
		text, err := extract(path)
		if err != nil {
			return nil, fmt.Errorf("%w: extract %s: %w", domain.ErrIngestion, path, err)
		}
		log.Debug().Str("file", name).Int("bytes", len(text)).Msg("loaded document")
		docs = append(docs, domain.Document{Name: name, Path: path, Content: text})
	}
	return docs, nil
}

// Load scans dir with the default .txt and .pdf extractors.
func Load(ctx context.Context, dir string) ([]domain.Document, error) {
	return New().Load(ctx, dir)
}

// ReadText returns the file contents as a string.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
