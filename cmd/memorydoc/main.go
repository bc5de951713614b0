// memorydoc: an MCP server that remembers things in a Google Doc.
//
// It exposes one tool, remember_this, which appends a timestamped entry to
// a document using a service account.
//
// Usage:
//
//	memorydoc            # Start MCP server (stdio transport)
//	memorydoc version    # Print version
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HendryAvila/memorydoc/internal/config"
	"github.com/HendryAvila/memorydoc/internal/observe"
	mdserver "github.com/HendryAvila/memorydoc/internal/server"
	"github.com/HendryAvila/memorydoc/internal/transport"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code.
func execute(args []string, in io.Reader, out, errOut io.Writer) int {
	root := newRootCmd(in, out, errOut)
	root.SetArgs(args)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "memorydoc",
		Short: "MCP server that appends memories to a Google Doc",
		Long: `memorydoc runs a Model Context Protocol server on stdio with a single tool,
remember_this, that appends a timestamped entry to a Google Doc.

Configuration (environment, or a .env file in the working directory):
  GOOGLE_CREDENTIALS_PATH   service account key file (required)
  DOCUMENT_ID               target document ID (required)
  MEMORYDOC_DATA_DIR        local data directory (default ~/.memorydoc)
  MEMORYDOC_LOG_FORMAT      console or json (default console)
  MEMORYDOC_VERBOSE         log info-level events to stderr
  MEMORYDOC_ACTIVITY        keep the local append ledger (default true)

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "memory": {
        "command": "memorydoc",
        "env": {
          "GOOGLE_CREDENTIALS_PATH": "/path/to/service-account.json",
          "DOCUMENT_ID": "your-document-id"
        }
      }
    }
  }`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), in, out, errOut)
		},
	}

	root.SetOut(errOut)
	root.SetErr(errOut)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "memorydoc v%s\n", mdserver.Version)
		},
	})

	return root
}

// serve loads configuration, wires the server and blocks on the stdio
// transport. Configuration errors return before in is ever read.
func serve(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	obs := newObserver(cfg, errOut).ForDocument(cfg.DocumentID)

	deps, cleanup, err := mdserver.Open(ctx, cfg, obs)
	if err != nil {
		return err
	}
	defer cleanup()

	s, catalog := mdserver.New(cfg, deps)

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs.Log().Info().Str("version", mdserver.Version).Msg("serving on stdio")

	st := transport.NewStdio(s, catalog, obs)
	errCh := make(chan error, 1)
	go func() {
		errCh <- st.Listen(ctx, in, out)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-ctx.Done():
		obs.Log().Info().Msg("shutting down")
		drain(st, errCh, obs, shutdownGrace)
		return nil
	}
}

// shutdownGrace bounds how long a signal waits for an in-flight request.
const shutdownGrace = 10 * time.Second

type idler interface {
	Idle() <-chan struct{}
}

// drain waits for the message being handled, if any, so cleanup does not
// close the activity ledger underneath it.
func drain(st idler, errCh <-chan error, obs *observe.Observer, grace time.Duration) {
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-st.Idle():
	case <-errCh:
	case <-timer.C:
		obs.Log().Warn().Dur("grace", grace).Msg("in-flight request still running at shutdown")
	}
}

func newObserver(cfg config.Config, w io.Writer) *observe.Observer {
	if cfg.LogFormat == config.LogJSON {
		return observe.NewJSON(w, cfg.Verbose)
	}
	return observe.New(w, cfg.Verbose)
}
