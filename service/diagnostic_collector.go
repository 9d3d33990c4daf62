package service

import (
	"strings"
	"sync"

	"github.com/ludo-technologies/cscan/domain"
)

// DiagnosticCollector deduplicates the diagnostics of one check run
// and preserves their registration order. Two diagnostics with the
// same file, line and rule are considered the same finding even when
// they came from different preprocessor configurations.
type DiagnosticCollector struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	items []domain.Diagnostic
}

// NewDiagnosticCollector creates an empty collector
func NewDiagnosticCollector() *DiagnosticCollector {
	return &DiagnosticCollector{
		seen: make(map[string]struct{}),
	}
}

// Record adds a diagnostic and reports whether it was new. Duplicates
// are dropped.
func (c *DiagnosticCollector) Record(d domain.Diagnostic) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := d.Key()
	if _, ok := c.seen[key]; ok {
		return false
	}
	c.seen[key] = struct{}{}
	c.items = append(c.items, d)
	return true
}

// Count returns the number of recorded diagnostics
func (c *DiagnosticCollector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items returns the recorded diagnostics in registration order
func (c *DiagnosticCollector) Items() []domain.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.Diagnostic, len(c.items))
	copy(items, c.items)
	return items
}

// Drain returns the recorded diagnostics in registration order and
// clears the collector
func (c *DiagnosticCollector) Drain() []domain.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.items
	c.items = nil
	c.seen = make(map[string]struct{})
	return items
}

// DrainText returns the recorded diagnostics as one line per finding,
// in registration order, and clears the collector
func (c *DiagnosticCollector) DrainText() string {
	drained := c.Drain()

	var sb strings.Builder
	for _, d := range drained {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Reset clears the collector for a new run
func (c *DiagnosticCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.seen = make(map[string]struct{})
}
