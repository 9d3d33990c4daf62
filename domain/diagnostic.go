package domain

import "fmt"

// Severity classifies how serious a diagnostic is
type Severity string

// Diagnostic severity levels, from most to least severe
const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityStyle       Severity = "style"
	SeverityPerformance Severity = "performance"
	SeverityInformation Severity = "information"
)

var severityRank = map[Severity]int{
	SeverityError:       5,
	SeverityWarning:     4,
	SeverityStyle:       3,
	SeverityPerformance: 2,
	SeverityInformation: 1,
}

// IsValid reports whether the severity is one of the known levels
func (s Severity) IsValid() bool {
	_, ok := severityRank[s]
	return ok
}

// IsAtLeast reports whether the severity is at least as severe as min
func (s Severity) IsAtLeast(min Severity) bool {
	return severityRank[s] >= severityRank[min]
}

// ParseSeverity converts a string into a Severity
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.IsValid() {
		return "", NewValidationError(fmt.Sprintf("unknown severity: %s", s))
	}
	return sev, nil
}

// Location identifies a position in a source file
type Location struct {
	FilePath string `json:"file_path" yaml:"file_path"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// String returns the location as file:line
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.FilePath, l.Line)
}

// Diagnostic is a single finding reported by a check
type Diagnostic struct {
	Rule          string   `json:"rule" yaml:"rule"`
	Severity      Severity `json:"severity" yaml:"severity"`
	Location      Location `json:"location" yaml:"location"`
	Message       string   `json:"message" yaml:"message"`
	Configuration string   `json:"configuration,omitempty" yaml:"configuration,omitempty"`
}

// Key returns the identity used for duplicate suppression. The same
// defect surfacing from several preprocessor configurations of one file
// must collapse to a single report, so the configuration is not part of
// the key.
func (d Diagnostic) Key() string {
	return fmt.Sprintf("%s\x1f%d\x1f%s", d.Location.FilePath, d.Location.Line, d.Rule)
}

// String renders the diagnostic in the classic single-line report form
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s:%d]: (%s) %s [%s]",
		d.Location.FilePath, d.Location.Line, d.Severity, d.Message, d.Rule)
}
