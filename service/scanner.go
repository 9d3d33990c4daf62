package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/ludo-technologies/cscan/domain"
	"github.com/ludo-technologies/cscan/internal/analyzer"
	"github.com/ludo-technologies/cscan/internal/parser"
	"github.com/ludo-technologies/cscan/internal/preprocessor"
	"github.com/ludo-technologies/cscan/internal/version"
)

// scanState is the lifecycle state of a scanner
type scanState int32

const (
	stateIdle scanState = iota
	stateRunning
	stateCompleted
	stateTerminated
)

// ScannerImpl implements domain.Scanner. It owns the file registry,
// the per-run diagnostic collector and the check set, and drives the
// file-by-file pipeline: resolve content, derive preprocessor
// configurations, parse each configuration and run every enabled
// check over it. All findings flow through the collector, which
// deduplicates them for the run, and then to the report sink.
type ScannerImpl struct {
	state      int32
	terminated atomic.Bool

	mu       sync.Mutex
	settings domain.Settings

	registry  *FileRegistry
	collector *DiagnosticCollector
	checks    []analyzer.Check
	sink      domain.ReportSink
	progress  domain.ProgressManager

	// Statistics of the last run
	filesChecked          atomic.Int64
	configurationsChecked atomic.Int64
}

// NewScanner creates a scanner with default settings that reports to
// nothing. Results are observable through the returned counts and the
// Diagnostics accessor.
func NewScanner() *ScannerImpl {
	return NewScannerWithSink(NullSink{})
}

// NewScannerWithSink creates a scanner reporting to the given sink
func NewScannerWithSink(sink domain.ReportSink) *ScannerImpl {
	return NewScannerWithProgress(sink, &NoOpProgressManager{})
}

// NewScannerWithProgress creates a scanner with a sink and progress
// reporting
func NewScannerWithProgress(sink domain.ReportSink, progress domain.ProgressManager) *ScannerImpl {
	if sink == nil {
		sink = NullSink{}
	}
	if progress == nil {
		progress = &NoOpProgressManager{}
	}
	return &ScannerImpl{
		settings:  domain.DefaultSettings(),
		registry:  NewFileRegistry(),
		collector: NewDiagnosticCollector(),
		checks:    analyzer.DefaultChecks(),
		sink:      sink,
		progress:  progress,
	}
}

// AddFile registers a path to be read from disk during the run
func (s *ScannerImpl) AddFile(path string) {
	s.registry.Add(path)
}

// AddFileContent registers a path with literal content. The content
// is authoritative; the disk is never consulted for this path.
func (s *ScannerImpl) AddFileContent(path string, content []byte) {
	s.registry.AddContent(path, content)
}

// ClearFiles empties the file registry
func (s *ScannerImpl) ClearFiles() {
	s.registry.Clear()
}

// Files returns the registered paths in registration order
func (s *ScannerImpl) Files() []string {
	return s.registry.Paths()
}

// SetSettings replaces the settings used by the next run. A run in
// progress keeps the snapshot it started with.
func (s *ScannerImpl) SetSettings(settings domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Clone()
}

// Settings returns a copy of the current settings
func (s *ScannerImpl) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Terminate requests a cooperative stop of the running check. It is
// honored between files: the file being checked finishes and its
// findings are reported, then no further file starts. Calling it
// again, or when nothing runs, has no effect.
func (s *ScannerImpl) Terminate() {
	s.terminated.Store(true)
}

// Check runs every enabled check over the registered files and
// returns the number of distinct diagnostics found
func (s *ScannerImpl) Check(ctx context.Context) (int, error) {
	return s.run(ctx, s.registry.Snapshot())
}

// CheckFile runs the checks over a single file read from disk,
// leaving the registry untouched
func (s *ScannerImpl) CheckFile(ctx context.Context, path string) (int, error) {
	return s.run(ctx, []RegisteredFile{{Path: path}})
}

// CheckContent runs the checks over literal content, leaving the
// registry untouched
func (s *ScannerImpl) CheckContent(ctx context.Context, path string, content []byte) (int, error) {
	return s.run(ctx, []RegisteredFile{{Path: path, Content: content, HasContent: true}})
}

// Diagnostics returns the distinct diagnostics of the last run in the
// order they were recorded
func (s *ScannerImpl) Diagnostics() []domain.Diagnostic {
	return s.collector.Items()
}

// DrainText returns the diagnostics of the last run as text, one
// finding per line in recording order, and clears them
func (s *ScannerImpl) DrainText() string {
	return s.collector.DrainText()
}

// FilesChecked returns how many files the last run processed
func (s *ScannerImpl) FilesChecked() int {
	return int(s.filesChecked.Load())
}

// ConfigurationsChecked returns how many preprocessor configurations
// the last run parsed and checked
func (s *ScannerImpl) ConfigurationsChecked() int {
	return int(s.configurationsChecked.Load())
}

// Terminated reports whether the last run was cut short by Terminate
func (s *ScannerImpl) Terminated() bool {
	return scanState(atomic.LoadInt32(&s.state)) == stateTerminated
}

// KnownDiagnostics returns the catalogue of every diagnostic this
// scanner can produce under its current settings, without running
// anything. Samples pass through a fresh collector, so the catalogue
// is deduplicated the same way a run is.
func (s *ScannerImpl) KnownDiagnostics() []domain.Diagnostic {
	settings := s.Settings()
	seen := NewDiagnosticCollector()

	var diagnostics []domain.Diagnostic
	record := func(d domain.Diagnostic) {
		if seen.Record(d) {
			diagnostics = append(diagnostics, d)
		}
	}

	for _, d := range builtinDiagnostics() {
		record(d)
	}
	for _, check := range s.checks {
		if !settings.CheckEnabled(check.Name()) {
			continue
		}
		for _, d := range check.Describe() {
			record(d)
		}
	}
	return diagnostics
}

// Version returns the release identifier of the scanner
func (s *ScannerImpl) Version() string {
	return version.GetVersion()
}

// run is the orchestration body shared by Check, CheckFile and
// CheckContent
func (s *ScannerImpl) run(ctx context.Context, files []RegisteredFile) (int, error) {
	if err := s.beginRun(); err != nil {
		return 0, err
	}

	// A new run starts clean: the previous termination request, the
	// previous diagnostics and the previous statistics do not carry over
	s.terminated.Store(false)
	s.collector.Reset()
	s.filesChecked.Store(0)
	s.configurationsChecked.Store(0)

	settings := s.Settings()
	if err := settings.Validate(); err != nil {
		atomic.StoreInt32(&s.state, int32(stateIdle))
		return 0, domain.NewInvalidInputError("invalid scan settings", err)
	}

	for _, check := range s.checks {
		if wp, ok := check.(analyzer.WholeProgramCheck); ok && settings.CheckEnabled(check.Name()) {
			wp.BeginProgram()
		}
	}

	var err error
	if settings.Jobs > 1 && len(files) > 1 {
		err = s.checkParallel(ctx, files, settings)
	} else {
		err = s.checkSequential(ctx, files, settings)
	}
	if err != nil {
		atomic.StoreInt32(&s.state, int32(stateIdle))
		return s.collector.Count(), err
	}

	terminated := s.terminated.Load()
	if !terminated {
		// Whole-program findings are only sound when every file was seen
		for _, check := range s.checks {
			if wp, ok := check.(analyzer.WholeProgramCheck); ok && settings.CheckEnabled(check.Name()) {
				for _, d := range wp.EndProgram() {
					s.report(d, settings)
				}
			}
		}
		atomic.StoreInt32(&s.state, int32(stateCompleted))
	} else {
		atomic.StoreInt32(&s.state, int32(stateTerminated))
	}

	return s.collector.Count(), nil
}

func (s *ScannerImpl) beginRun() error {
	for {
		state := atomic.LoadInt32(&s.state)
		if state == int32(stateRunning) {
			return domain.NewCheckInProgressError()
		}
		if atomic.CompareAndSwapInt32(&s.state, state, int32(stateRunning)) {
			return nil
		}
	}
}

// checkSequential processes the files one by one in registration order
func (s *ScannerImpl) checkSequential(ctx context.Context, files []RegisteredFile, settings domain.Settings) error {
	task := s.progress.StartTask("Checking files", len(files))
	defer task.Complete()

	for i, file := range files {
		select {
		case <-ctx.Done():
			return fmt.Errorf("check cancelled: %w", ctx.Err())
		default:
		}

		if s.terminated.Load() {
			break
		}

		task.Describe(fmt.Sprintf("Checking %s", file.Path))
		outcome := s.checkFile(ctx, file, settings)
		s.emitOutcome(i, len(files), file, outcome, settings)
		task.Increment(1)
	}

	return nil
}

// checkParallel processes the files concurrently. Results are still
// emitted in registration order, so the report and the progress
// stream are identical to a sequential run.
func (s *ScannerImpl) checkParallel(ctx context.Context, files []RegisteredFile, settings domain.Settings) error {
	task := s.progress.StartTask("Checking files", len(files))
	defer task.Complete()

	executor := NewOrderedExecutor(settings.Jobs)
	err := executor.Run(ctx, len(files),
		s.terminated.Load,
		func(ctx context.Context, index int) (any, error) {
			return s.checkFile(ctx, files[index], settings), nil
		},
		func(index int, result any) {
			s.emitOutcome(index, len(files), files[index], result.(*fileOutcome), settings)
			task.Increment(1)
		})
	if err != nil {
		return fmt.Errorf("check cancelled: %w", err)
	}
	return nil
}

// fileOutcome carries everything produced while checking one file.
// Outcomes are buffered so reporting can follow registration order
// even when files finish out of order.
type fileOutcome struct {
	diagnostics    []domain.Diagnostic
	events         []domain.ProgressEvent
	configurations int
}

// checkFile runs the whole pipeline for one file: resolve content,
// derive preprocessor configurations, then parse and check each
// configuration. Failures are turned into diagnostics, never into
// aborts.
func (s *ScannerImpl) checkFile(ctx context.Context, file RegisteredFile, settings domain.Settings) *fileOutcome {
	outcome := &fileOutcome{}

	source := file.Content
	if !file.HasContent {
		data, err := os.ReadFile(file.Path)
		if err != nil {
			outcome.diagnostics = append(outcome.diagnostics, fileErrorDiagnostic(file.Path, err))
			return outcome
		}
		source = data
	}

	pre := preprocessor.New(settings.Defines, settings.MaxConfigurations)
	configurations := pre.Configurations(source)
	outcome.events = append(outcome.events, domain.ProgressEvent{
		FilePath: file.Path,
		Stage:    domain.StagePreprocess,
		Value:    -1,
	})

	syntaxReported := false
	for i, cfg := range configurations {
		rendered := pre.Render(source, cfg)

		unit, err := parser.ParseUnitForLanguage(file.Path, cfg, rendered)
		outcome.events = append(outcome.events, domain.ProgressEvent{
			FilePath: file.Path,
			Stage:    domain.StageParse,
			Value:    (i + 1) * 100 / len(configurations),
		})
		if err != nil {
			// One bad configuration does not stop the others, and a
			// file reports at most one syntax error
			if !syntaxReported {
				outcome.diagnostics = append(outcome.diagnostics, parseFailureDiagnostic(file.Path, cfg, err))
				syntaxReported = true
			}
			continue
		}

		outcome.configurations++
		for _, check := range s.checks {
			if !settings.CheckEnabled(check.Name()) {
				continue
			}
			diagnostics, failure := runCheck(check, unit, settings)
			if failure != nil {
				outcome.diagnostics = append(outcome.diagnostics, internalErrorDiagnostic(file.Path, check.Name(), failure))
				continue
			}
			outcome.diagnostics = append(outcome.diagnostics, diagnostics...)
		}
		outcome.events = append(outcome.events, domain.ProgressEvent{
			FilePath: file.Path,
			Stage:    domain.StageCheck,
			Value:    (i + 1) * 100 / len(configurations),
		})
	}

	return outcome
}

// emitOutcome publishes one file's results: diagnostics through the
// collector to the sink, then the stage events and the status line.
// Callers guarantee emission in registration order.
func (s *ScannerImpl) emitOutcome(index, total int, file RegisteredFile, outcome *fileOutcome, settings domain.Settings) {
	s.filesChecked.Add(1)
	s.configurationsChecked.Add(int64(outcome.configurations))

	for _, d := range outcome.diagnostics {
		s.report(d, settings)
	}

	done := index + 1
	for _, e := range outcome.events {
		e.FileIndex = done
		e.FileCount = total
		event := e
		safeReport(func() { s.sink.ReportProgress(event) })
	}
	status := fmt.Sprintf("%d/%d files checked %d%% done", done, total, done*100/total)
	safeReport(func() { s.sink.ReportStatus(status) })
}

// report records one diagnostic, dropping duplicates and findings
// below the severity threshold. Only newly recorded diagnostics reach
// the sink. A misbehaving sink never takes the run down.
func (s *ScannerImpl) report(d domain.Diagnostic, settings domain.Settings) {
	if !d.Severity.IsAtLeast(settings.MinSeverity) {
		return
	}
	if s.collector.Record(d) {
		safeReport(func() { s.sink.ReportDiagnostic(d) })
	}
}

// runCheck isolates a single check: a panic inside it becomes an
// error for this file and configuration instead of taking the run down
func runCheck(check analyzer.Check, unit *parser.TranslationUnit, settings domain.Settings) (diagnostics []domain.Diagnostic, failure error) {
	defer func() {
		if r := recover(); r != nil {
			failure = fmt.Errorf("%v", r)
		}
	}()
	return check.Run(unit, settings), nil
}

// fileErrorDiagnostic reports a file that could not be read
func fileErrorDiagnostic(path string, err error) domain.Diagnostic {
	return domain.Diagnostic{
		Rule:     "fileError",
		Severity: domain.SeverityError,
		Location: domain.Location{FilePath: path, Line: 0},
		Message:  fmt.Sprintf("Failed to read file: %v", err),
	}
}

// parseFailureDiagnostic reports a configuration that did not parse
func parseFailureDiagnostic(path, configuration string, err error) domain.Diagnostic {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return domain.Diagnostic{
			Rule:          "syntaxError",
			Severity:      domain.SeverityError,
			Location:      domain.Location{FilePath: path, Line: syntaxErr.Line},
			Message:       "syntax error",
			Configuration: configuration,
		}
	}
	return domain.Diagnostic{
		Rule:          "internalError",
		Severity:      domain.SeverityError,
		Location:      domain.Location{FilePath: path, Line: 0},
		Message:       fmt.Sprintf("Internal error: %v", err),
		Configuration: configuration,
	}
}

// internalErrorDiagnostic reports a check that failed on a file
func internalErrorDiagnostic(path, checkName string, err error) domain.Diagnostic {
	return domain.Diagnostic{
		Rule:     "internalError",
		Severity: domain.SeverityError,
		Location: domain.Location{FilePath: path, Line: 0},
		Message:  fmt.Sprintf("Internal error in %s: %v", checkName, err),
	}
}

// builtinDiagnostics is the catalogue of diagnostics the scanner
// itself can produce, outside of any check
func builtinDiagnostics() []domain.Diagnostic {
	return []domain.Diagnostic{
		{
			Rule:     "fileError",
			Severity: domain.SeverityError,
			Message:  "Failed to read file: file not found",
		},
		{
			Rule:     "syntaxError",
			Severity: domain.SeverityError,
			Message:  "syntax error",
		},
		{
			Rule:     "internalError",
			Severity: domain.SeverityError,
			Message:  "Internal error: analysis failed",
		},
	}
}
