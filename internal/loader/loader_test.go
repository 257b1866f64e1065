package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"docqa/internal/domain"
)

func writePDF(t *testing.T, path string, lines ...string) {
	t.Helper()
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	y := 72.0
	for _, line := range lines {
		doc.Text(72, y, line)
		y += 14
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
}

func TestLoadTextAndPDF(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("plain text notes"), 0o644); err != nil {
		t.Fatal(err)
	}
	writePDF(t, filepath.Join(dir, "report.pdf"), "hello pdf world")
	if err := os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89, 0x50}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	docs, err := Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d: %+v", len(docs), docs)
	}
	if docs[0].Name != "notes.txt" || docs[0].Content != "plain text notes" {
		t.Fatalf("unexpected text document: %+v", docs[0])
	}
	if docs[1].Name != "report.pdf" || !strings.Contains(docs[1].Content, "hello") {
		t.Fatalf("unexpected pdf document: %+v", docs[1])
	}
}

func TestLoadPDFWithBlankPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank-first.pdf")
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	doc.AddPage()
	doc.Text(72, 72, "second page text")
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	text, err := ReadPDF(path)
	if err != nil {
		t.Fatalf("ReadPDF error: %v", err)
	}
	if strings.TrimSpace(text) != "second page text" {
		t.Fatalf("expected only page 2 text, got %q", text)
	}
}

func TestLoadExtensionIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "UPPER.TXT"), []byte("shout"), 0o644); err != nil {
		t.Fatal(err)
	}
	docs, err := Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
}

func TestLoadMissingFolder(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, domain.ErrIngestion) {
		t.Fatalf("expected ErrIngestion, got %v", err)
	}
}

func TestLoadBrokenPDFFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(context.Background(), dir)
	if !errors.Is(err, domain.ErrIngestion) {
		t.Fatalf("expected ErrIngestion, got %v", err)
	}
}

func TestRegisterCustomExtractor(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("# title"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := New()
	if l.Supports("readme.md") {
		t.Fatalf("markdown should not be supported by default")
	}
	l.Register("md", ReadText)
	docs, err := l.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(docs) != 1 || docs[0].Content != "# title" {
		t.Fatalf("unexpected documents: %+v", docs)
	}
}
