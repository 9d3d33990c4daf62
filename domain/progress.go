package domain

// ProgressManager creates progress tasks for long-running operations
type ProgressManager interface {
	// StartTask begins tracking a task with a known total
	StartTask(description string, total int) TaskProgress

	// IsInteractive returns true if progress is rendered to a terminal
	IsInteractive() bool

	// Close releases all tasks
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	// Increment adds n to the current progress
	Increment(n int)

	// Describe updates the current item description
	Describe(description string)

	// Complete marks the task as finished
	Complete()
}

// ProgressEvent describes where a check run currently is. FileIndex is
// 1-based; Value carries the completion percentage within Stage when
// the stage is subdivided, and is -1 otherwise.
type ProgressEvent struct {
	FilePath  string
	FileIndex int
	FileCount int
	Stage     string
	Value     int
}

// Stage labels used in progress events
const (
	StagePreprocess = "preprocess"
	StageParse      = "parse"
	StageCheck      = "check"
)

// ReportSink receives the scanner's output: final diagnostics, free-text
// status lines, and structured progress events. Implementations own all
// presentation; the scanner only ever pushes to the sink and never fails
// a run because of it.
type ReportSink interface {
	ReportDiagnostic(d Diagnostic)
	ReportStatus(message string)
	ReportProgress(e ProgressEvent)
}
