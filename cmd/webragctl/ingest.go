package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/webrag"
)

func newIngestCmd() *cobra.Command {
	var (
		isolated   bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "ingest URL...",
		Short: "Extract, embed and store web pages",
		Long: `Render each URL in headless Chromium, split the text into overlapping
chunks, embed them and store them in the configured collection.

By default the first failure aborts the run. With --isolated a failing URL
is reported and the remaining URLs are still processed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newLocalClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			progress := newIngestProgress(cmd.ErrOrStderr(), !noProgress && defaultProgressEnabled())
			opts := []webrag.IngestOption{webrag.WithProgress(progress.handle)}
			if isolated {
				opts = append(opts, webrag.WithMode(webrag.Isolated))
			}

			rep, err := c.Ingest(cmd.Context(), args, opts...)
			fmt.Fprintf(cmd.OutOrStdout(), "%d chunks inserted, %d of %d URLs failed\n",
				rep.ChunksInserted, rep.Failed, len(args))
			if err != nil {
				return err
			}
			if rep.Failed > 0 {
				return fmt.Errorf("%d URLs failed", rep.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&isolated, "isolated", false, "continue with the next URL when one fails")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}
