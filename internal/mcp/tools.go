// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Load histories, set the time filter, and read summaries and points

package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/harper/footprints/internal/decoder"
	"github.com/harper/footprints/internal/ingest"
	"github.com/harper/footprints/internal/models"
	"github.com/harper/footprints/internal/ui"
	"github.com/harper/footprints/internal/viewer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultPointLimit caps filter_points output when no limit is given.
const DefaultPointLimit = 1000

func (s *Server) registerTools() {
	s.registerLoadHistoryTool()
	s.registerSetRangeTool()
	s.registerGetSummaryTool()
	s.registerFilterPointsTool()
}

// RangeOutput is a range with display labels.
type RangeOutput struct {
	Start      int64  `json:"start"`
	End        int64  `json:"end"`
	StartLabel string `json:"start_label"`
	EndLabel   string `json:"end_label"`
}

// SummaryOutput describes the current view.
type SummaryOutput struct {
	Points  int                `json:"points"`
	Total   int                `json:"total"`
	Filter  RangeOutput        `json:"filter"`
	Extent  RangeOutput        `json:"extent"`
	Window  *models.ViewWindow `json:"window,omitempty"`
	Message string             `json:"message"`
}

func (s *Server) rangeOutput(r models.Range) RangeOutput {
	loc := s.session.Location()
	return RangeOutput{
		Start:      r.Start,
		End:        r.End,
		StartLabel: ui.FormatDateTime(r.Start, loc),
		EndLabel:   ui.FormatDateTime(r.End, loc),
	}
}

func (s *Server) summary(v viewer.View) SummaryOutput {
	return SummaryOutput{
		Points:  v.Count,
		Total:   v.Size,
		Filter:  s.rangeOutput(v.Range),
		Extent:  s.rangeOutput(v.Extent),
		Window:  v.Window,
		Message: v.Labels.Message,
	}
}

func textResult(v interface{}) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

// parseBound accepts epoch milliseconds or a timestamp string.
func parseBound(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	ms, err := decoder.ParseTimestamp(s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: use epoch milliseconds or RFC3339", s)
	}
	return ms, nil
}

// resolveRange fills missing bounds from fallback.
func resolveRange(from, to *string, fallback models.Range) (models.Range, error) {
	r := fallback
	if from != nil && *from != "" {
		v, err := parseBound(*from)
		if err != nil {
			return r, err
		}
		r.Start = v
	}
	if to != nil && *to != "" {
		v, err := parseBound(*to)
		if err != nil {
			return r, err
		}
		r.End = v
	}
	return r, nil
}

// LoadHistoryInput defines input for load_history tool.
type LoadHistoryInput struct {
	Paths []string `json:"paths"`
}

// FileOutput is the outcome of one file.
type FileOutput struct {
	Name    string `json:"name"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// LoadHistoryOutput defines output for load_history tool.
type LoadHistoryOutput struct {
	LoadID  string        `json:"load_id"`
	Files   []FileOutput  `json:"files"`
	Summary SummaryOutput `json:"summary"`
}

func (s *Server) registerLoadHistoryTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "load_history",
		Description: "Load one or more location history files (standard or delta-compressed JSON, optionally .gz). Replaces any previously loaded data and resets the time filter to the full extent.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"paths": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Paths of the files to load",
				},
			},
			"required": []string{"paths"},
		},
	}, s.handleLoadHistory)
}

func (s *Server) handleLoadHistory(ctx context.Context, _ *mcp.CallToolRequest, input LoadHistoryInput) (*mcp.CallToolResult, LoadHistoryOutput, error) {
	if len(input.Paths) == 0 {
		return nil, LoadHistoryOutput{}, fmt.Errorf("at least one path is required")
	}

	report, err := s.session.Load(ctx, ingest.FileSources(input.Paths), nil)
	if err != nil {
		return nil, LoadHistoryOutput{}, fmt.Errorf("load cancelled: %w", err)
	}

	output := LoadHistoryOutput{
		LoadID:  report.ID,
		Files:   make([]FileOutput, len(report.Files)),
		Summary: s.summary(s.session.View()),
	}
	for i, f := range report.Files {
		output.Files[i] = FileOutput{Name: f.Name, Records: f.Records}
		if f.Err != nil {
			output.Files[i].Error = f.Err.Error()
		}
	}

	return textResult(output), output, nil
}

// SetRangeInput defines input for set_range tool.
type SetRangeInput struct {
	From *string `json:"from,omitempty"`
	To   *string `json:"to,omitempty"`
}

func (s *Server) registerSetRangeTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_range",
		Description: "Set the time filter. Bounds are clamped to the loaded extent and the start always stays before the end. Omitted bounds keep their current value.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"from": map[string]interface{}{
					"type":        "string",
					"description": "Start of the filter (RFC3339 or epoch milliseconds)",
				},
				"to": map[string]interface{}{
					"type":        "string",
					"description": "End of the filter (RFC3339 or epoch milliseconds)",
				},
			},
		},
	}, s.handleSetRange)
}

func (s *Server) handleSetRange(_ context.Context, _ *mcp.CallToolRequest, input SetRangeInput) (*mcp.CallToolResult, SummaryOutput, error) {
	if s.session.Store().Empty() {
		return nil, SummaryOutput{}, fmt.Errorf("no location history loaded")
	}

	r, err := resolveRange(input.From, input.To, s.session.Controller().Range())
	if err != nil {
		return nil, SummaryOutput{}, err
	}

	output := s.summary(s.session.SetRange(r.Start, r.End))
	return textResult(output), output, nil
}

// GetSummaryInput defines input for get_summary tool.
type GetSummaryInput struct{}

func (s *Server) registerGetSummaryTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get the current filter, point counts, and the outlier-robust view window (center and bounding box).",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}, s.handleGetSummary)
}

func (s *Server) handleGetSummary(_ context.Context, _ *mcp.CallToolRequest, _ GetSummaryInput) (*mcp.CallToolResult, SummaryOutput, error) {
	s.session.Flush()
	output := s.summary(s.session.View())
	return textResult(output), output, nil
}

// FilterPointsInput defines input for filter_points tool.
type FilterPointsInput struct {
	From  *string `json:"from,omitempty"`
	To    *string `json:"to,omitempty"`
	Limit *int    `json:"limit,omitempty"`
}

// PointOutput is one stored point.
type PointOutput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// FilterPointsOutput defines output for filter_points tool.
type FilterPointsOutput struct {
	Filter    RangeOutput   `json:"filter"`
	Count     int           `json:"count"`
	Truncated bool          `json:"truncated"`
	Points    []PointOutput `json:"points"`
}

func (s *Server) registerFilterPointsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "filter_points",
		Description: "List points in a time range in ascending time order. Defaults to the current filter. Does not change the filter.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"from": map[string]interface{}{
					"type":        "string",
					"description": "Start of the range (RFC3339 or epoch milliseconds)",
				},
				"to": map[string]interface{}{
					"type":        "string",
					"description": "End of the range (RFC3339 or epoch milliseconds)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of points to return (default 1000)",
				},
			},
		},
	}, s.handleFilterPoints)
}

func (s *Server) handleFilterPoints(_ context.Context, _ *mcp.CallToolRequest, input FilterPointsInput) (*mcp.CallToolResult, FilterPointsOutput, error) {
	r, err := resolveRange(input.From, input.To, s.session.Controller().Range())
	if err != nil {
		return nil, FilterPointsOutput{}, err
	}

	limit := DefaultPointLimit
	if input.Limit != nil {
		if *input.Limit <= 0 {
			return nil, FilterPointsOutput{}, fmt.Errorf("limit must be positive")
		}
		limit = *input.Limit
	}

	records := s.session.Store().Records(r)
	output := FilterPointsOutput{
		Filter: s.rangeOutput(r),
		Count:  len(records),
	}
	if len(records) > limit {
		records = records[:limit]
		output.Truncated = true
	}
	output.Points = make([]PointOutput, len(records))
	for i, rec := range records {
		output.Points[i] = PointOutput{
			Latitude:  rec.Latitude(),
			Longitude: rec.Longitude(),
			Timestamp: rec.Timestamp,
		}
	}

	return textResult(output), output, nil
}
