package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/webrag/pkg/sdk"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask a running server and stream the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := sdk.New(serverURL, sdk.WithAPIKey(apiKey))
			msgs := []sdk.Message{{Role: "user", Content: strings.Join(args, " ")}}

			info, err := c.Chat(cmd.Context(), msgs, cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if info.Degraded {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: answered without retrieved context")
			}
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := sdk.New(serverURL, sdk.WithAPIKey(apiKey)).Health(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status: %s\n", h.Status)
			for _, name := range slices.Sorted(maps.Keys(h.Checks)) {
				fmt.Fprintf(out, "  %-10s %s\n", name, h.Checks[name])
			}
			if h.Status != "ok" {
				return fmt.Errorf("server is %s", h.Status)
			}
			return nil
		},
	}
}
