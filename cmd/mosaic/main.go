// Mosaic: personal work-memory and time-tracking MCP server.
//
// Mosaic records work sessions, meetings, clients, projects, people,
// notes, and reminders in a local SQLite database and exposes them to
// AI tools over the MCP stdio transport.
//
// Usage:
//
//	mosaic serve      # Start the MCP server (stdio transport)
//	mosaic version    # Print the version
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/jarosser06/mosaic/internal/config"
	"github.com/jarosser06/mosaic/internal/server"
)

func main() {
	root := &cobra.Command{
		Use:           "mosaic",
		Short:         "Personal work-memory and time-tracking MCP server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP server on stdio.

Configuration comes from the environment (a .env file in the working
directory is honored):

  MOSAIC_DATABASE_URL              SQLite database path (required)
  MOSAIC_BRIDGE_URL                notification bridge endpoint (empty disables)
  MOSAIC_NOTIFICATIONS_ENABLED     true/false (default true)
  MOSAIC_DEFAULT_SOUND             notification sound (default "default")
  MOSAIC_TIMEZONE                  IANA timezone (default UTC)
  MOSAIC_WEEK_BOUNDARY             mon-fri, sun-sat, or mon-sun (default mon-fri)
  MOSAIC_DEFAULT_PRIVACY           public, internal, or private (default private)
  MOSAIC_CHECK_INTERVAL            reminder scan period in seconds (default 60)
  MOSAIC_LOG_LEVEL                 info or debug (default info)

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "mosaic": {
        "command": "mosaic",
        "args": ["serve"]
      }
    }
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mosaic v%s\n", server.Version)
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s, cleanup, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt: ServeStdio returns when stdin
	// closes, but a signal should also run cleanup instead of killing
	// the process mid-write.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- mcpserver.ServeStdio(s)
	}()

	select {
	case <-sigCh:
		return nil
	case err := <-errCh:
		return err
	}
}
