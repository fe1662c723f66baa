// ABOUTME: MCP serve command
// ABOUTME: Starts the MCP server for AI agent integration, optionally preloading files

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/footprints/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [file]...",
	Short: "Start MCP server for AI agents",
	Long: `Serve the footprints tools over stdio for AI agents.

Files given on the command line are loaded before serving; agents can load
more with the load_history tool.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		defer session.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		if len(args) > 0 {
			// stdout belongs to the protocol.
			if _, err := loadFiles(ctx, io.Discard, session, args); err != nil {
				return err
			}
		}

		server, err := mcp.NewServer(session, version)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
