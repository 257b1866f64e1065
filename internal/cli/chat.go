package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"docqa/internal/session"
	"docqa/internal/tui"
)

// chatCmd starts the interactive chat UI. It is also the root default.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your documents in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := getConfig()
	if err := initLogging(cfg, false); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	corpus, err := ingest(ctx, cfg)
	if err != nil {
		return err
	}
	sess := session.Open(newAnswerService(cfg, corpus))
	defer sess.Close()

	m := tui.New(ctx, sess, corpus.Summary(), tui.Options{ExportFile: cfg.Export.FileName})
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
