package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"docqa/internal/domain"
)

func readPDF(t *testing.T, r *bytes.Reader) *pdf.Reader {
	t.Helper()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read buffer: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("parse pdf: %v", err)
	}
	return reader
}

func TestEmptySessionIsValidDocument(t *testing.T) {
	r, err := ChatPDF(nil)
	if err != nil {
		t.Fatalf("ChatPDF error: %v", err)
	}
	if n := readPDF(t, r).NumPage(); n != 1 {
		t.Fatalf("expected 1 page, got %d", n)
	}
}

func TestLongSessionSpansPages(t *testing.T) {
	var turns []domain.ChatTurn
	for i := 0; i < 40; i++ {
		turns = append(turns,
			domain.ChatTurn{Role: domain.RoleUser, Message: fmt.Sprintf("question %d", i)},
			domain.ChatTurn{Role: domain.RoleBot, Message: strings.Repeat("answer ", 30)},
		)
	}
	r, err := ChatPDF(turns)
	if err != nil {
		t.Fatalf("ChatPDF error: %v", err)
	}
	reader := readPDF(t, r)
	if reader.NumPage() < 2 {
		t.Fatalf("expected multiple pages, got %d", reader.NumPage())
	}
	text, err := reader.Page(1).GetPlainText(nil)
	if err != nil {
		t.Fatalf("page text: %v", err)
	}
	if !strings.Contains(text, "You: question 0") {
		t.Fatalf("first turn missing from page 1: %q", text)
	}
}

func TestWarningMarkerSurvivesExport(t *testing.T) {
	turns := []domain.ChatTurn{{Role: domain.RoleBot, Message: "⚠️ API Error: boom"}}
	r, err := ChatPDF(turns)
	if err != nil {
		t.Fatalf("ChatPDF error: %v", err)
	}
	text, err := readPDF(t, r).Page(1).GetPlainText(nil)
	if err != nil {
		t.Fatalf("page text: %v", err)
	}
	if !strings.Contains(text, "Bot: [!] API Error: boom") {
		t.Fatalf("warning marker lost: %q", text)
	}
}

func TestWrap(t *testing.T) {
	lines := Wrap("aaa bbb ccc", 7)
	if len(lines) != 2 || lines[0] != "aaa bbb" || lines[1] != "ccc" {
		t.Fatalf("unexpected wrap: %q", lines)
	}
	long := strings.Repeat("x", 250)
	lines = Wrap(long, 100)
	if len(lines) != 3 || strings.Join(lines, "") != long {
		t.Fatalf("long word not hard-broken: %d lines", len(lines))
	}
	lines = Wrap("one\n\ntwo", 100)
	if len(lines) != 3 || lines[1] != "" {
		t.Fatalf("newlines not kept: %q", lines)
	}
	for _, l := range Wrap(strings.Repeat("word ", 100), 100) {
		if utf8.RuneCountInString(l) > 100 {
			t.Fatalf("line exceeds width: %d", len(l))
		}
	}
}

func TestSaveChatWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.pdf")
	turns := []domain.ChatTurn{{Role: domain.RoleUser, Message: "hi"}, {Role: domain.RoleBot, Message: "⚠️ API Error: boom"}}
	if err := SaveChat(turns, path); err != nil {
		t.Fatalf("SaveChat error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty file: %v", err)
	}
}
