// ABOUTME: MCP server initialization and configuration
// ABOUTME: Exposes a viewer session to AI agents as tools and resources

package mcp

import (
	"context"
	"fmt"

	"github.com/harper/footprints/internal/viewer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps an MCP server around one viewer session.
type Server struct {
	mcp     *mcp.Server
	session *viewer.Session
}

// NewServer creates MCP server with all capabilities.
func NewServer(session *viewer.Session, version string) (*Server, error) {
	if session == nil {
		return nil, fmt.Errorf("viewer session is required")
	}
	if version == "" {
		version = "dev"
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "footprints",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		session: session,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
