package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"docqa/internal/domain"
)

type fakeChat struct {
	turns  []domain.ChatTurn
	answer string
	err    error
	asked  []string
}

func (f *fakeChat) Ask(_ context.Context, q string) (domain.ChatTurn, error) {
	f.asked = append(f.asked, q)
	f.turns = append(f.turns, domain.ChatTurn{Role: domain.RoleUser, Message: q})
	turn := domain.ChatTurn{Role: domain.RoleBot, Message: f.answer}
	if f.err != nil {
		turn.Message = "⚠️ Error: " + f.err.Error()
	}
	f.turns = append(f.turns, turn)
	return turn, f.err
}

func (f *fakeChat) Turns() []domain.ChatTurn { return append([]domain.ChatTurn(nil), f.turns...) }

func newSizedModel(t *testing.T, chat ChatPort, opts Options) Model {
	t.Helper()
	m := New(context.Background(), chat, "A corpus about fruit.", opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func typeText(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func TestEnterAsksAndRendersAnswer(t *testing.T) {
	chat := &fakeChat{answer: "Bananas are yellow."}
	m := newSizedModel(t, chat, Options{})
	m = typeText(m, "what color?")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("expected ask command")
	}
	if m.input.Value() != "" {
		t.Fatalf("input should be cleared")
	}
	if !strings.Contains(m.View(), "what color?") {
		t.Fatalf("pending question not shown")
	}

	// input is ignored while a question is pending
	m = typeText(m, "again")
	if _, second := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); second != nil {
		t.Fatalf("expected no command while pending")
	}

	next, _ = m.Update(cmd())
	m = next.(Model)
	if len(chat.asked) != 1 || chat.asked[0] != "what color?" {
		t.Fatalf("unexpected questions: %v", chat.asked)
	}
	view := m.View()
	if !strings.Contains(view, "Bananas are yellow.") {
		t.Fatalf("answer not rendered:\n%s", view)
	}
	if m.pending != "" {
		t.Fatalf("pending flag not cleared")
	}
}

func TestAskErrorShownInStatus(t *testing.T) {
	chat := &fakeChat{err: errors.New("index is empty")}
	m := newSizedModel(t, chat, Options{})
	m = typeText(m, "q")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	next, _ = m.Update(cmd())
	m = next.(Model)
	if !strings.Contains(m.status, "index is empty") {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestCtrlEExportsTranscript(t *testing.T) {
	chat := &fakeChat{turns: []domain.ChatTurn{{Role: domain.RoleUser, Message: "hi"}, {Role: domain.RoleBot, Message: "hello"}}}
	var savedPath string
	var savedTurns int
	save := func(turns []domain.ChatTurn, path string) error {
		savedPath, savedTurns = path, len(turns)
		return nil
	}
	m := newSizedModel(t, chat, Options{ExportFile: "out.pdf", Save: save})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("expected export command")
	}
	next, _ = m.Update(cmd())
	m = next.(Model)
	if savedPath != "out.pdf" || savedTurns != 2 {
		t.Fatalf("unexpected export: %s %d", savedPath, savedTurns)
	}
	if !strings.Contains(m.status, "out.pdf") {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestExportFailureKeepsRunning(t *testing.T) {
	save := func([]domain.ChatTurn, string) error { return errors.New("disk full") }
	m := newSizedModel(t, &fakeChat{}, Options{Save: save})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	next, _ := m.Update(cmd())
	m = next.(Model)
	if !strings.Contains(m.status, "disk full") {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestCtrlCQuitsAndCancels(t *testing.T) {
	m := newSizedModel(t, &fakeChat{}, Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if m.ctx.Err() == nil {
		t.Fatalf("expected context to be cancelled")
	}
}
