package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"notes.txt", true},
		{"README.md", true},
		{"paper.pdf", true},
		{"NOTES.TXT", true},
		{"Guide.Md", true},
		{"scan.PDF", true},
		{"x.exe", false},
		{"archive.pdf.zip", false},
		{"markdown", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSupported(tt.name); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReadFile_TextVerbatim(t *testing.T) {
	dir := t.TempDir()
	content := "  Line one.\r\nLine two with trailing space   \n\n# Heading\n"
	path := filepath.Join(dir, "notes.MD")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	doc, err := NewExtractor(0).ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if doc.Text != content {
		t.Fatalf("Expected verbatim text %q, got %q", content, doc.Text)
	}
	if doc.Name != "notes.MD" || doc.Path != path {
		t.Fatalf("Unexpected document metadata: %+v", doc)
	}
}

func TestReadFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	doc, err := NewExtractor(0).ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if doc.Text != "" {
		t.Fatalf("Expected empty text, got %q", doc.Text)
	}
}

func TestReadFile_UnsupportedBeforeRead(t *testing.T) {
	// The file does not exist: an unsupported extension must be rejected without touching disk.
	_, err := NewExtractor(0).ReadFile(context.Background(), filepath.Join(t.TempDir(), "x.exe"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("Expected ErrUnsupportedType, got %v", err)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := NewExtractor(0).ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	var extractErr *ExtractError
	if !errors.As(err, &extractErr) {
		t.Fatalf("Expected ExtractError, got %T %v", err, err)
	}
	if extractErr.Name != "missing.txt" {
		t.Fatalf("Expected name missing.txt, got %q", extractErr.Name)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Expected wrapped not-exist error, got %v", err)
	}
}

func TestReadFile_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("a", 64)), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	_, err := NewExtractor(32).ReadFile(context.Background(), path)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Expected ErrFileTooLarge, got %v", err)
	}
	var extractErr *ExtractError
	if !errors.As(err, &extractErr) {
		t.Fatalf("Expected ExtractError wrapper, got %T", err)
	}
}

func TestReadFile_PDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Report.PDF")
	if err := os.WriteFile(path, buildPDF(t, "Alpha", "Beta"), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	doc, err := NewExtractor(10<<20).ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if doc.Text != "Alpha\n\nBeta" || doc.Pages != 2 {
		t.Fatalf("Unexpected PDF document: %+v", doc)
	}
}

func TestExtract_CorruptPDF(t *testing.T) {
	_, err := NewExtractor(0).Extract(context.Background(), "broken.pdf", []byte("not really a pdf"))
	var extractErr *ExtractError
	if !errors.As(err, &extractErr) {
		t.Fatalf("Expected ExtractError, got %T %v", err, err)
	}
	if extractErr.Error() == "" {
		t.Fatal("Expected a readable message")
	}
}

func TestExtractErrorNil(t *testing.T) {
	e := &ExtractError{Name: "x.txt"}
	if e.Error() == "" || e.Unwrap() != nil {
		t.Fatalf("Unexpected zero ExtractError behaviour: %q", e.Error())
	}
}
