// ABOUTME: Markdown export of the filtered points
// ABOUTME: Writes a header with the filter and view window, then one table row per point

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/harper/footprints/internal/ui"
)

// ToMarkdown renders the filtered records as a markdown table.
func ToMarkdown(in Input) ([]byte, error) {
	var sb strings.Builder

	now := time.Now().UTC()
	sb.WriteString(fmt.Sprintf("# Location History Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if in.Total == 0 {
		sb.WriteString("No points loaded.\n")
		return []byte(sb.String()), nil
	}

	if in.Message != "" {
		sb.WriteString(in.Message + "\n\n")
	}
	if in.Window != nil {
		sb.WriteString(fmt.Sprintf("Center: %s\n\n", ui.FormatLatLng(in.Window.Center)))
	}

	if len(in.Records) == 0 {
		sb.WriteString("No points in range.\n")
		return []byte(sb.String()), nil
	}

	sb.WriteString("| Time | Coordinates |\n")
	sb.WriteString("|------|-------------|\n")
	for _, r := range in.Records {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n",
			ui.FormatDateTime(r.Timestamp, in.Location),
			ui.FormatLatLng(r.LatLng())))
	}

	return []byte(sb.String()), nil
}
