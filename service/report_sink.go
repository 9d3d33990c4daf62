package service

import (
	"fmt"
	"io"
	"sync"

	"github.com/ludo-technologies/cscan/domain"
)

// NullSink discards everything reported to it
type NullSink struct{}

func (NullSink) ReportDiagnostic(domain.Diagnostic)  {}
func (NullSink) ReportStatus(string)                 {}
func (NullSink) ReportProgress(domain.ProgressEvent) {}

// WriterSink streams findings and status lines to writers as they
// arrive. Diagnostics go to Err, status lines to Out, matching the
// usual stderr/stdout split of command line checkers. Write failures
// are ignored so a broken pipe never aborts a run.
type WriterSink struct {
	Out io.Writer
	Err io.Writer

	// Quiet suppresses status lines
	Quiet bool
}

// NewWriterSink creates a sink writing to the given writers
func NewWriterSink(out, err io.Writer) *WriterSink {
	return &WriterSink{Out: out, Err: err}
}

func (s *WriterSink) ReportDiagnostic(d domain.Diagnostic) {
	if s.Err == nil {
		return
	}
	_, _ = fmt.Fprintln(s.Err, d.String())
}

func (s *WriterSink) ReportStatus(status string) {
	if s.Out == nil || s.Quiet {
		return
	}
	_, _ = fmt.Fprintln(s.Out, status)
}

func (s *WriterSink) ReportProgress(domain.ProgressEvent) {}

// CollectingSink records everything reported to it. It is the sink
// used when the results are assembled into a response afterwards.
type CollectingSink struct {
	mu          sync.Mutex
	diagnostics []domain.Diagnostic
	statuses    []string
	events      []domain.ProgressEvent
}

// NewCollectingSink creates an empty collecting sink
func NewCollectingSink() *CollectingSink {
	return &CollectingSink{}
}

func (s *CollectingSink) ReportDiagnostic(d domain.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = append(s.diagnostics, d)
}

func (s *CollectingSink) ReportStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
}

func (s *CollectingSink) ReportProgress(e domain.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// Diagnostics returns the reported diagnostics in report order
func (s *CollectingSink) Diagnostics() []domain.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Diagnostic, len(s.diagnostics))
	copy(items, s.diagnostics)
	return items
}

// Statuses returns the reported status lines in report order
func (s *CollectingSink) Statuses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]string, len(s.statuses))
	copy(statuses, s.statuses)
	return statuses
}

// Events returns the reported progress events in report order
func (s *CollectingSink) Events() []domain.ProgressEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]domain.ProgressEvent, len(s.events))
	copy(events, s.events)
	return events
}

// TeeSink forwards every report to all of its sinks. A panicking sink
// is isolated so reporting never aborts a run.
type TeeSink struct {
	Sinks []domain.ReportSink
}

// NewTeeSink combines multiple sinks into one
func NewTeeSink(sinks ...domain.ReportSink) *TeeSink {
	return &TeeSink{Sinks: sinks}
}

func (t *TeeSink) ReportDiagnostic(d domain.Diagnostic) {
	for _, s := range t.Sinks {
		safeReport(func() { s.ReportDiagnostic(d) })
	}
}

func (t *TeeSink) ReportStatus(status string) {
	for _, s := range t.Sinks {
		safeReport(func() { s.ReportStatus(status) })
	}
}

func (t *TeeSink) ReportProgress(e domain.ProgressEvent) {
	for _, s := range t.Sinks {
		safeReport(func() { s.ReportProgress(e) })
	}
}

func safeReport(report func()) {
	defer func() {
		_ = recover()
	}()
	report()
}
