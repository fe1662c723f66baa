// ABOUTME: MCP resource definitions
// ABOUTME: Provides the latest computed view as a read-only resource

package mcp

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ViewURI is the URI of the current view resource.
const ViewURI = "footprints://view"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        ViewURI,
		Description: "Current time filter, point counts, labels, and view window",
		URI:         ViewURI,
		MIMEType:    "application/json",
	}, s.handleViewResource)
}

func (s *Server) handleViewResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	s.session.Flush()
	jsonBytes, _ := json.MarshalIndent(s.session.View(), "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      ViewURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}
