// ABOUTME: Input sources for location history loads
// ABOUTME: Files on disk or in-memory payloads, each with a name and byte size

package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Source is one file to decode. Name selects gzip framing and appears in
// error messages.
type Source struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FileSource describes a file on disk.
func FileSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("%s is a directory", path)
	}
	return Source{
		Name: path,
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FileSources describes every path. Paths that cannot be stat'ed are
// returned as sources whose Open fails, so they are reported per file.
func FileSources(paths []string) []Source {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		src, err := FileSource(p)
		if err != nil {
			statErr := err
			src = Source{
				Name: p,
				Open: func() (io.ReadCloser, error) { return nil, statErr },
			}
		}
		sources = append(sources, src)
	}
	return sources
}

// BytesSource wraps an in-memory payload.
func BytesSource(name string, data []byte) Source {
	return Source{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
