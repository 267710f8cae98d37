// Command webragctl ingests pages and queries a webrag knowledge base.
//
// ingest and context run in-process against the configured Valkey/Redis;
// ask and health talk to a running webrag server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/webrag/internal/version"
)

var (
	// serverURL is the base URL of a running webrag server
	serverURL string
	// apiKey is sent as a Bearer token to the server
	apiKey string
	// env selects config/{env}.yaml for in-process commands
	env string
	// verbose enables info-level logs on stderr
	verbose bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "webragctl",
		Short: "Ingest web pages and query a webrag knowledge base",
		Long: `webragctl renders web pages in headless Chromium, splits and embeds their text
into a Valkey/Redis vector index, and assembles grounded prompts from it.

Examples:
  # Ingest pages in-process (uses config/$ENV.yaml)
  webragctl ingest https://example.com https://example.org

  # Show the prompt that would be sent to the model
  webragctl context "What is example.com for?"

  # Ask a running server and stream the answer
  webragctl ask --server http://localhost:8080 "What is example.com for?"`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultServer := os.Getenv("WEBRAG_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	defaultEnv := os.Getenv("ENV")
	if defaultEnv == "" {
		defaultEnv = "local"
	}

	root.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "webrag server URL")
	root.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("WEBRAG_API_KEY"), "API key for the server")
	root.PersistentFlags().StringVar(&env, "env", defaultEnv, "config environment (config/<env>.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")

	root.AddCommand(newIngestCmd())
	root.AddCommand(newContextCmd())
	root.AddCommand(newAskCmd())
	root.AddCommand(newHealthCmd())
	return root
}
