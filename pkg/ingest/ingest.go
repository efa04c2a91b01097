// Package ingest turns user-supplied files into plain document text.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UnsupportedTypeMessage is shown when a file with an unknown extension is chosen.
const UnsupportedTypeMessage = "Unsupported file type. Please upload a .txt, .md, or .pdf file."

var (
	// ErrUnsupportedType is returned before any read when the extension is not accepted.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrFileTooLarge is returned when a file exceeds the extractor's size limit.
	ErrFileTooLarge = errors.New("file too large")
)

var supportedExtensions = []string{".txt", ".md", ".pdf"}

// ExtractError reports a failure to read or parse a supported file.
type ExtractError struct {
	Name string
	Err  error
}

func (e *ExtractError) Error() string {
	if e.Err == nil {
		return "unknown extraction error"
	}
	return e.Err.Error()
}

func (e *ExtractError) Unwrap() error { return e.Err }

// Document is the result of ingesting one file.
type Document struct {
	Name  string
	Path  string
	Text  string
	Pages int
}

// IsSupported reports whether name carries an accepted extension, ignoring case.
func IsSupported(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, ext := range supportedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// Extractor reads supported files into text.
type Extractor struct {
	// MaxBytes caps the size of a file that will be read. Zero means no limit.
	MaxBytes int64
}

// NewExtractor returns an extractor with the given size limit.
func NewExtractor(maxBytes int64) *Extractor {
	return &Extractor{MaxBytes: maxBytes}
}

// ReadFile validates, reads and extracts the file at path.
func (e *Extractor) ReadFile(ctx context.Context, path string) (Document, error) {
	name := filepath.Base(path)
	if !IsSupported(name) {
		slog.Debug("ingest_unsupported", "name", name)
		return Document{Name: name, Path: path}, ErrUnsupportedType
	}

	info, err := os.Stat(path)
	if err != nil {
		return Document{Name: name, Path: path}, &ExtractError{Name: name, Err: err}
	}
	if info.IsDir() {
		return Document{Name: name, Path: path}, &ExtractError{Name: name, Err: fmt.Errorf("%s is a directory", name)}
	}
	if e.MaxBytes > 0 && info.Size() > e.MaxBytes {
		return Document{Name: name, Path: path}, &ExtractError{
			Name: name,
			Err:  fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, name, info.Size(), e.MaxBytes),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{Name: name, Path: path}, &ExtractError{Name: name, Err: err}
	}

	doc, err := e.Extract(ctx, name, data)
	doc.Path = path
	return doc, err
}

// Extract converts file bytes into text. Plain text and markdown are returned verbatim.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) (Document, error) {
	doc := Document{Name: name}
	if !IsSupported(name) {
		return doc, ErrUnsupportedType
	}
	if e.MaxBytes > 0 && int64(len(data)) > e.MaxBytes {
		return doc, &ExtractError{
			Name: name,
			Err:  fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, name, len(data), e.MaxBytes),
		}
	}

	if !isPDF(name) {
		doc.Text = string(data)
		doc.Pages = 1
		return doc, nil
	}

	start := time.Now()
	text, pages, err := ExtractPDF(ctx, data)
	if err != nil {
		slog.Warn("ingest_pdf_failed", "name", name, "error", err)
		return doc, &ExtractError{Name: name, Err: err}
	}
	slog.Info("ingest_pdf_done",
		"name", name,
		"pages", pages,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	doc.Text = text
	doc.Pages = pages
	return doc, nil
}
