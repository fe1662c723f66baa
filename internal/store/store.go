// ABOUTME: Time-indexed point store with timestamp deduplication
// ABOUTME: Ingests in chunks, tracks min/max bounds, and answers range queries

package store

import (
	"context"
	"runtime"
	"slices"
	"sort"
	"sync"

	"github.com/harper/footprints/internal/models"
)

const (
	// DefaultChunkSize bounds how many records are applied per lock hold.
	DefaultChunkSize = 10_000

	// DefaultMin and DefaultMax are the bounds reported by an empty store.
	DefaultMin int64 = 0
	DefaultMax int64 = 86_400_000
)

// Options configures a Store.
type Options struct {
	// ChunkSize is the number of records ingested between yields.
	ChunkSize int
}

// ChunkFunc is called after each ingested chunk with the number of records
// consumed so far and the total for the call.
type ChunkFunc func(done, total int)

// Store maps unique millisecond timestamps to records. It is safe for
// concurrent use; writers hold the lock for one chunk at a time.
type Store struct {
	chunkSize int

	mu     sync.Mutex
	points map[int64]models.Record
	keys   []int64 // every stored timestamp; sorted when !dirty
	dirty  bool
	min    int64
	max    int64
}

// New creates an empty store.
func New(opts Options) *Store {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Store{
		chunkSize: opts.ChunkSize,
		points:    make(map[int64]models.Record),
	}
}

// ChunkSize returns the configured chunk size.
func (s *Store) ChunkSize() int {
	return s.chunkSize
}

// Ingest upserts records chunk by chunk. Between chunks the lock is released,
// ctx is checked, and the goroutine yields so readers are never starved by a
// large import. It returns the number of records applied.
func (s *Store) Ingest(ctx context.Context, records []models.Record, onChunk ChunkFunc) (int, error) {
	total := len(records)
	done := 0
	for done < total {
		if err := ctx.Err(); err != nil {
			return done, err
		}

		end := min(done+s.chunkSize, total)
		s.applyChunk(records[done:end])
		done = end

		if onChunk != nil {
			onChunk(done, total)
		}
		runtime.Gosched()
	}
	return done, nil
}

func (s *Store) applyChunk(chunk []models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range chunk {
		ts := r.Timestamp
		if _, exists := s.points[ts]; !exists {
			if len(s.keys) == 0 {
				s.min, s.max = ts, ts
			} else if ts < s.keys[len(s.keys)-1] {
				s.dirty = true
			}
			s.keys = append(s.keys, ts)
		}
		s.min = min(s.min, ts)
		s.max = max(s.max, ts)
		s.points[ts] = r
	}
}

// Reset removes every point and restores the empty bounds.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.points = make(map[int64]models.Record)
	s.keys = nil
	s.dirty = false
	s.min, s.max = 0, 0
}

// Size returns the number of stored points.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}

// Empty reports whether nothing has been ingested since the last reset.
func (s *Store) Empty() bool {
	return s.Size() == 0
}

// Bounds returns the minimum and maximum stored timestamps, or
// (DefaultMin, DefaultMax) when the store is empty.
func (s *Store) Bounds() (int64, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.points) == 0 {
		return DefaultMin, DefaultMax
	}
	return s.min, s.max
}

// Filter returns, in ascending timestamp order, the coordinates of every
// point whose timestamp lies in r (inclusive).
func (s *Store) Filter(r models.Range) []models.LatLng {
	s.mu.Lock()
	defer s.mu.Unlock()

	lo, hi := s.span(r)
	out := make([]models.LatLng, 0, hi-lo)
	for _, ts := range s.keys[lo:hi] {
		out = append(out, s.points[ts].LatLng())
	}
	return out
}

// Records returns the stored points in r as records, in ascending order.
func (s *Store) Records(r models.Range) []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	lo, hi := s.span(r)
	out := make([]models.Record, 0, hi-lo)
	for _, ts := range s.keys[lo:hi] {
		out = append(out, s.points[ts])
	}
	return out
}

// Count returns the number of points whose timestamp lies in r.
func (s *Store) Count(r models.Range) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	lo, hi := s.span(r)
	return hi - lo
}

// Points returns every stored coordinate in ascending timestamp order.
func (s *Store) Points() []models.LatLng {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sortKeys()
	out := make([]models.LatLng, len(s.keys))
	for i, ts := range s.keys {
		out[i] = s.points[ts].LatLng()
	}
	return out
}

// span returns the half-open index interval of keys inside r.
// Must be called with mu held.
func (s *Store) span(r models.Range) (int, int) {
	s.sortKeys()
	if r.End < r.Start {
		return 0, 0
	}
	lo := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= r.Start })
	hi := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] > r.End })
	return lo, hi
}

// sortKeys restores key order after out-of-order inserts. Must be called with mu held.
func (s *Store) sortKeys() {
	if !s.dirty {
		return
	}
	slices.Sort(s.keys)
	s.dirty = false
}
