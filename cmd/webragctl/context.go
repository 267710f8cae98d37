package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newContextCmd() *cobra.Command {
	var (
		limit      int
		showChunks bool
	)

	cmd := &cobra.Command{
		Use:   "context QUESTION",
		Short: "Print the grounded prompt for a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newLocalClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			pc, err := c.BuildContext(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if pc.Degraded {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: vector search failed, prompt has no context")
			}
			if showChunks {
				for _, ch := range pc.Chunks {
					fmt.Fprintf(out, "%.4f  %s#%d\n", ch.Score, ch.SourceURL, ch.Index)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, pc.Prompt)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "k", 0, "number of chunks to retrieve (0 = default)")
	cmd.Flags().BoolVar(&showChunks, "chunks", false, "list the retrieved chunks before the prompt")
	return cmd
}
