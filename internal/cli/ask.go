package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docqa/internal/export"
	"docqa/internal/session"
)

var (
	askExport  string
	askSources bool

	youLabel    = color.New(color.FgCyan, color.Bold)
	botLabel    = color.New(color.FgYellow, color.Bold)
	sourceLabel = color.New(color.FgHiBlack)
	errorLabel  = color.New(color.FgRed)
)

// askCmd answers one or more questions without the interactive UI.
var askCmd = &cobra.Command{
	Use:   "ask QUESTION [QUESTION...]",
	Short: "Answer questions about your documents and print the answers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if err := initLogging(cfg, true); err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		corpus, err := ingest(ctx, cfg)
		if err != nil {
			return err
		}
		sess := session.Open(newAnswerService(cfg, corpus))
		defer sess.Close()

		out := cmd.OutOrStdout()
		var failed error
		for _, q := range args {
			youLabel.Fprint(out, "You: ")
			fmt.Fprintln(out, q)
			turn, err := sess.Ask(ctx, q)
			if err != nil {
				msg := turn.Message
				if msg == "" {
					msg = err.Error()
				}
				errorLabel.Fprintln(out, msg)
				failed = errors.Join(failed, err)
				continue
			}
			botLabel.Fprint(out, "Bot: ")
			fmt.Fprintln(out, turn.Message)
			if askSources {
				results, err := corpus.Retrieve(ctx, q, cfg.Retrieval.TopK)
				if err == nil {
					for _, r := range results {
						sourceLabel.Fprintf(out, "  [%s #%d] distance=%.4f\n", r.Chunk.Source, r.Chunk.Index, r.Distance)
					}
				}
			}
		}

		if askExport != "" {
			if err := export.SaveChat(sess.Turns(), askExport); err != nil {
				errorLabel.Fprintf(out, "export failed: %v\n", err)
			} else {
				fmt.Fprintf(out, "Chat exported to %s\n", askExport)
			}
		}
		return failed
	},
}

func init() {
	askCmd.Flags().StringVarP(&askExport, "export", "e", "", "write the conversation to this PDF file")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "list the retrieved chunks for each answer")
	rootCmd.AddCommand(askCmd)
}
