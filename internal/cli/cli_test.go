package cli

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"docqa/internal/domain"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, docsDir, logLevel, askExport, askSources = "", "", "info", "", false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := execute()
	return out.String(), err
}

func writeDocs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	text := "The lighthouse keeper lit the lamp every evening at dusk."
	if err := os.WriteFile(filepath.Join(dir, "lighthouse.txt"), []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestIndexCommandPrintsStats(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "absent.yaml")
	out, err := runCLI(t, "--config", cfgPath, "--docs", writeDocs(t), "index")
	if err != nil {
		t.Fatalf("index error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "documents: 1 (lighthouse.txt)") || !strings.Contains(out, "chunks: 1") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestIndexCommandMissingFolder(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "absent.yaml")
	_, err := runCLI(t, "--config", cfgPath, "--docs", filepath.Join(t.TempDir(), "nope"), "index")
	if !errors.Is(err, domain.ErrIngestion) {
		t.Fatalf("expected ErrIngestion, got %v", err)
	}
}

func TestAskCommandAnswersAndExports(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m",` +
			`"choices":[{"index":0,"message":{"role":"assistant","content":"At dusk."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()
	t.Setenv("DOCQA_CLI_TEST_KEY", "k")

	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	cfgYAML := fmt.Sprintf("llm:\n  base_url: %s\n  api_key_env: DOCQA_CLI_TEST_KEY\n  model: m\n", server.URL)
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	pdfPath := filepath.Join(tmp, "chat.pdf")

	out, err := runCLI(t, "--config", cfgPath, "--docs", writeDocs(t), "ask", "--export", pdfPath, "--sources", "When is the lamp lit?")
	if err != nil {
		t.Fatalf("ask error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Bot: At dusk.") {
		t.Fatalf("answer missing:\n%s", out)
	}
	if !strings.Contains(out, "[lighthouse.txt #0]") {
		t.Fatalf("sources missing:\n%s", out)
	}
	if info, err := os.Stat(pdfPath); err != nil || info.Size() == 0 {
		t.Fatalf("expected exported pdf: %v", err)
	}
}

func TestAskCommandReportsAPIFailureInAnswer(t *testing.T) {
	t.Setenv("DOCQA_CLI_MISSING_KEY", "")
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("llm:\n  api_key_env: DOCQA_CLI_MISSING_KEY\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "--config", cfgPath, "--docs", writeDocs(t), "ask", "lamp?")
	if err != nil {
		t.Fatalf("ask error: %v", err)
	}
	if !strings.Contains(out, "⚠️ API Error:") {
		t.Fatalf("expected API warning:\n%s", out)
	}
}

func TestFailedCommandReleasesLogFile(t *testing.T) {
	tmp := t.TempDir()
	logPath := filepath.Join(tmp, "docqa.log")
	cfgPath := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("log:\n  file: "+logPath+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := runCLI(t, "--config", cfgPath, "--docs", filepath.Join(tmp, "missing"), "index")
	if !errors.Is(err, domain.ErrIngestion) {
		t.Fatalf("expected ErrIngestion, got %v", err)
	}
	if log.Logger.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected logger to be closed after a failed command")
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}

func TestAskCommandPrintsRejectedQuestion(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "absent.yaml")
	out, err := runCLI(t, "--config", cfgPath, "--docs", writeDocs(t), "ask", "   ")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if !strings.Contains(out, "invalid argument") {
		t.Fatalf("rejection not printed:\n%s", out)
	}
}
