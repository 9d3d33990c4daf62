package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
	OutputFormatXML  OutputFormat = "xml"
)

// SortCriteria represents the criteria for sorting diagnostics
type SortCriteria string

const (
	SortByLocation SortCriteria = "location"
	SortBySeverity SortCriteria = "severity"
	SortByRule     SortCriteria = "rule"
)

// ScanRequest represents a request for a full scan over files or
// directories
type ScanRequest struct {
	// Input files or directories to scan
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowProgress bool
	NoColor      bool
	Verbose      bool

	// Filtering and sorting
	MinSeverity Severity
	Checks      []string
	SortBy      SortCriteria

	// Preprocessor options
	Defines           []string
	MaxConfigurations int

	// Execution options
	Jobs int

	// Configuration
	ConfigPath string

	// File collection options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
}

// Settings converts the request into run settings for the scanner
func (r ScanRequest) Settings() Settings {
	s := DefaultSettings()
	if r.MinSeverity != "" {
		s.MinSeverity = r.MinSeverity
	}
	if len(r.Checks) > 0 {
		s.Checks = append([]string(nil), r.Checks...)
	}
	if len(r.Defines) > 0 {
		s.Defines = append([]string(nil), r.Defines...)
	}
	if r.MaxConfigurations > 0 {
		s.MaxConfigurations = r.MaxConfigurations
	}
	if r.Jobs > 0 {
		s.Jobs = r.Jobs
	}
	s.Verbose = r.Verbose
	return s
}

// ScanSummary represents aggregate statistics for one run
type ScanSummary struct {
	FilesChecked          int  `json:"files_checked" yaml:"files_checked"`
	FilesWithIssues       int  `json:"files_with_issues" yaml:"files_with_issues"`
	ConfigurationsChecked int  `json:"configurations_checked" yaml:"configurations_checked"`
	TotalDiagnostics      int  `json:"total_diagnostics" yaml:"total_diagnostics"`
	Terminated            bool `json:"terminated" yaml:"terminated"`

	// Severity distribution
	ErrorCount       int `json:"error_count" yaml:"error_count"`
	WarningCount     int `json:"warning_count" yaml:"warning_count"`
	StyleCount       int `json:"style_count" yaml:"style_count"`
	PerformanceCount int `json:"performance_count" yaml:"performance_count"`
	InformationCount int `json:"information_count" yaml:"information_count"`
}

// ScanResponse represents the complete result of one run
type ScanResponse struct {
	// Diagnostics in the order they were recorded
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Summary     ScanSummary  `json:"summary" yaml:"summary"`

	// Warnings and issues hit while scanning
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Metadata
	GeneratedAt string      `json:"generated_at" yaml:"generated_at"`
	Version     string      `json:"version" yaml:"version"`
	Config      interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// Scanner is the core checking API: register files, apply settings, run
// the checks, and collect the distinct diagnostic count. A scanner may
// be reused for any number of runs; nothing persists between them
// except the registered files and settings.
type Scanner interface {
	// AddFile registers a path to be read from disk during the run
	AddFile(path string)

	// AddFileContent registers a path with literal content; disk is
	// never consulted for such a path
	AddFileContent(path string, content []byte)

	// ClearFiles empties the registry
	ClearFiles()

	// Files returns the registered paths in registration order
	Files() []string

	// SetSettings replaces the settings used by the next run
	SetSettings(s Settings)

	// Settings returns a copy of the current settings
	Settings() Settings

	// Check runs every enabled check over the registered files and
	// returns the number of distinct diagnostics found
	Check(ctx context.Context) (int, error)

	// CheckFile runs the checks over a single file read from disk,
	// leaving the registry untouched
	CheckFile(ctx context.Context, path string) (int, error)

	// CheckContent runs the checks over literal content, leaving the
	// registry untouched
	CheckContent(ctx context.Context, path string, content []byte) (int, error)

	// Terminate requests a cooperative stop. It may be called from any
	// goroutine, is idempotent, and never reverses.
	Terminate()

	// KnownDiagnostics returns the catalogue of every diagnostic the
	// enabled checks can produce, independent of any run
	KnownDiagnostics() []Diagnostic

	// Version returns the release identifier of the scanner
	Version() string
}

// ScanService defines the request-level scanning entry point used by
// the CLI
type ScanService interface {
	// Scan performs a full scan for the given request
	Scan(ctx context.Context, req ScanRequest) (*ScanResponse, error)

	// ScanFile scans a single file
	ScanFile(ctx context.Context, filePath string, req ScanRequest) (*ScanResponse, error)
}

// OutputFormatter defines the interface for formatting scan results
type OutputFormatter interface {
	// Format formats the scan response according to the specified format
	Format(response *ScanResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *ScanResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*ScanRequest, error)

	// LoadDefaultConfig loads the default configuration, looking for a
	// config file near the target path
	LoadDefaultConfig(targetPath string) *ScanRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *ScanRequest, override *ScanRequest) *ScanRequest
}
