// ABOUTME: Load progress combining bytes decoded and chunks ingested
// ABOUTME: Each file is weighted by its size; reported fractions never decrease

package ingest

import (
	"io"
	"sync"
)

// ProgressFunc receives the overall load fraction in [0, 1].
type ProgressFunc func(fraction float64)

// minProgressStep throttles byte-level reports.
const minProgressStep = 0.01

type progress struct {
	fn ProgressFunc

	mu       sync.Mutex
	weights  []float64
	read     []float64
	ingested []float64
	last     float64
	lastSent float64
}

func newProgress(sources []Source, fn ProgressFunc) *progress {
	p := &progress{
		fn:       fn,
		weights:  make([]float64, len(sources)),
		read:     make([]float64, len(sources)),
		ingested: make([]float64, len(sources)),
	}

	var total int64
	for _, s := range sources {
		total += max(s.Size, 0)
	}
	for i, s := range sources {
		if total > 0 {
			p.weights[i] = float64(max(s.Size, 0)) / float64(total)
		} else {
			p.weights[i] = 1 / float64(len(sources))
		}
	}
	return p
}

// setRead records the decoded share of file i. Reports are throttled.
func (p *progress) setRead(i int, frac float64) {
	p.update(func() { p.read[i] = max(p.read[i], min(frac, 1)) }, false)
}

// setIngested records the ingested share of file i.
func (p *progress) setIngested(i int, frac float64) {
	p.update(func() {
		p.read[i] = 1
		p.ingested[i] = max(p.ingested[i], min(frac, 1))
	}, true)
}

// finish marks file i complete, whether it succeeded or failed.
func (p *progress) finish(i int) {
	p.setIngested(i, 1)
}

// done reports completion of the whole load.
func (p *progress) done() {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = 1
	p.lastSent = 1
	p.fn(1)
}

func (p *progress) update(apply func(), force bool) {
	if p.fn == nil {
		return
	}

	// fn runs under the lock so concurrent files cannot deliver
	// fractions out of order.
	p.mu.Lock()
	defer p.mu.Unlock()

	apply()
	frac := 0.0
	for i, w := range p.weights {
		frac += w * (p.read[i] + p.ingested[i]) / 2
	}
	frac = min(max(frac, p.last), 1)
	p.last = frac
	if !force && frac-p.lastSent < minProgressStep {
		return
	}
	p.lastSent = frac
	p.fn(frac)
}

// countingReader reports how much of a source has been consumed.
type countingReader struct {
	r     io.Reader
	size  int64
	n     int64
	onAdd func(frac float64)
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += int64(n)
	if n > 0 && c.size > 0 && c.onAdd != nil {
		c.onAdd(float64(c.n) / float64(c.size))
	}
	return n, err
}
