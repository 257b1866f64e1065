package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// indexCmd ingests the documents folder and reports what was indexed.
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the documents folder and print corpus statistics",
	Args:  cobra.NoArgs,
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
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "documents: %d (%s)\n", len(corpus.Documents()), strings.Join(corpus.Documents(), ", "))
		fmt.Fprintf(out, "chunks: %d\n", corpus.Size())
		fmt.Fprintf(out, "dimension: %d\n", corpus.Dimension())
		fmt.Fprintf(out, "embedder: %s, index: %s\n", cfg.Embedder.Type, cfg.Index.Type)
		if s := corpus.Summary(); s != "" {
			fmt.Fprintf(out, "summary: %s\n", s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
